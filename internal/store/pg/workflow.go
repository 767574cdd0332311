package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"arts.org/internal/ids"
	"arts.org/internal/workflow"
)

var (
	_ workflow.Store           = (*Store)(nil)
	_ workflow.StatusCommitter = (*Store)(nil)
)

func (s *Store) Departments(ctx context.Context) workflow.DepartmentStore { return pgDepartments{s} }
func (s *Store) Recommendations(ctx context.Context) workflow.RecommendationStore {
	return pgRecommendations{s}
}
func (s *Store) Plans(ctx context.Context) workflow.PlanStore { return pgPlans{s} }
func (s *Store) Evidence(ctx context.Context) workflow.EvidenceStore {
	return pgEvidence{s}
}
func (s *Store) Log(ctx context.Context) workflow.LogStore { return pgLog{s} }

// CommitStatus persists the status change and its history entry in one
// transaction.
func (s *Store) CommitStatus(ctx context.Context, id string, status workflow.Status, entry *workflow.LogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`update audit_recommendations set status=$2 where id=$1`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workflow.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `
		insert into audit_logs (id, recommendation_id, actor_id, action, details, occurred_at)
		values ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.RecommendationID, entry.ActorID, entry.Action, entry.Details, entry.OccurredAt); err != nil {
		return err
	}
	return tx.Commit()
}

type pgDepartments struct{ s *Store }

func (p pgDepartments) Create(ctx context.Context, d *workflow.Department) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := p.s.db.ExecContext(ctx, `
		insert into departments (id, name, created_at) values ($1, $2, $3)
	`, d.ID, d.Name, d.CreatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: department %q", workflow.ErrInvalidInput, d.Name)
	}
	return err
}

func (p pgDepartments) Find(ctx context.Context, id string) (*workflow.Department, error) {
	var d workflow.Department
	err := p.s.db.QueryRowContext(ctx, `
		select id, name, created_at from departments where id=$1
	`, id).Scan(&d.ID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p pgDepartments) List(ctx context.Context) ([]*workflow.Department, error) {
	rows, err := p.s.db.QueryContext(ctx, `
		select id, name, created_at from departments order by name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*workflow.Department, 0)
	for rows.Next() {
		var d workflow.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

type pgRecommendations struct{ s *Store }

func (p pgRecommendations) Create(ctx context.Context, r *workflow.Recommendation) error {
	if r.ID == "" {
		r.ID = ids.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := p.s.db.ExecContext(ctx, `
		insert into audit_recommendations (id, title, description, status, department_id, created_by, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.Title, r.Description, string(r.Status), r.DepartmentID, r.CreatedBy, r.CreatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return fmt.Errorf("%w: unknown department %q", workflow.ErrInvalidInput, r.DepartmentID)
	}
	return err
}

func (p pgRecommendations) Find(ctx context.Context, id string) (*workflow.Recommendation, error) {
	var r workflow.Recommendation
	err := p.s.db.QueryRowContext(ctx, `
		select id, title, description, status, department_id, created_by, created_at
		from audit_recommendations where id=$1
	`, id).Scan(&r.ID, &r.Title, &r.Description, &r.Status, &r.DepartmentID, &r.CreatedBy, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p pgRecommendations) List(ctx context.Context, f workflow.Filter) ([]*workflow.Recommendation, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.DepartmentID != "" {
		where = append(where, "department_id="+arg(f.DepartmentID))
	}
	if f.Status != "" {
		where = append(where, "status="+arg(string(f.Status)))
	}
	if q := strings.TrimSpace(f.TitleQuery); q != "" {
		where = append(where, "title ilike "+arg("%"+q+"%"))
	}
	query := `select id, title, description, status, department_id, created_by, created_at
		from audit_recommendations`
	if len(where) > 0 {
		query += " where " + strings.Join(where, " and ")
	}
	query += " order by created_at desc"
	if f.Limit > 0 {
		query += " limit " + arg(f.Limit)
	}

	rows, err := p.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*workflow.Recommendation, 0)
	for rows.Next() {
		var r workflow.Recommendation
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Status, &r.DepartmentID, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (p pgRecommendations) SetStatus(ctx context.Context, id string, status workflow.Status) error {
	res, err := p.s.db.ExecContext(ctx,
		`update audit_recommendations set status=$2 where id=$1`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (p pgRecommendations) CountByStatus(ctx context.Context, departmentID string) (map[workflow.Status]int, error) {
	query := `select status, count(*) from audit_recommendations`
	args := []any{}
	if departmentID != "" {
		query += ` where department_id=$1`
		args = append(args, departmentID)
	}
	query += ` group by status`

	rows, err := p.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[workflow.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[workflow.Status(status)] = n
	}
	return counts, rows.Err()
}

type pgPlans struct{ s *Store }

func (p pgPlans) Create(ctx context.Context, plan *workflow.ActionPlan) error {
	if plan.ID == "" {
		plan.ID = ids.New()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	due := sql.NullTime{Time: plan.DueDate, Valid: !plan.DueDate.IsZero()}
	_, err := p.s.db.ExecContext(ctx, `
		insert into action_plans (id, recommendation_id, description, assigned_to, due_date, status, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, plan.ID, plan.RecommendationID, plan.Description, plan.AssignedTo, due, string(plan.Status), plan.CreatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return workflow.ErrNotFound
	}
	return err
}

func (p pgPlans) Find(ctx context.Context, id string) (*workflow.ActionPlan, error) {
	var (
		plan workflow.ActionPlan
		due  sql.NullTime
	)
	err := p.s.db.QueryRowContext(ctx, `
		select id, recommendation_id, description, assigned_to, due_date, status, created_at
		from action_plans where id=$1
	`, id).Scan(&plan.ID, &plan.RecommendationID, &plan.Description, &plan.AssignedTo, &due, &plan.Status, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	plan.DueDate = due.Time
	return &plan, nil
}

func (p pgPlans) ListByRecommendation(ctx context.Context, recommendationID string) ([]*workflow.ActionPlan, error) {
	return p.scanPlans(ctx, `
		select id, recommendation_id, description, assigned_to, due_date, status, created_at
		from action_plans where recommendation_id=$1 order by created_at
	`, recommendationID)
}

func (p pgPlans) List(ctx context.Context, f workflow.PlanFilter) ([]*workflow.ActionPlan, error) {
	var (
		where []string
		args  []any
	)
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		where = append(where, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	query := `select id, recommendation_id, description, assigned_to, due_date, status, created_at
		from action_plans`
	if len(where) > 0 {
		query += " where " + strings.Join(where, " and ")
	}
	query += " order by due_date"
	return p.scanPlans(ctx, query, args...)
}

func (p pgPlans) scanPlans(ctx context.Context, query string, args ...any) ([]*workflow.ActionPlan, error) {
	rows, err := p.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*workflow.ActionPlan, 0)
	for rows.Next() {
		var (
			plan workflow.ActionPlan
			due  sql.NullTime
		)
		if err := rows.Scan(&plan.ID, &plan.RecommendationID, &plan.Description, &plan.AssignedTo, &due, &plan.Status, &plan.CreatedAt); err != nil {
			return nil, err
		}
		plan.DueDate = due.Time
		out = append(out, &plan)
	}
	return out, rows.Err()
}

func (p pgPlans) SetStatus(ctx context.Context, id string, status workflow.PlanStatus) error {
	res, err := p.s.db.ExecContext(ctx,
		`update action_plans set status=$2 where id=$1`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

type pgEvidence struct{ s *Store }

func (p pgEvidence) Create(ctx context.Context, e *workflow.Evidence) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := p.s.db.ExecContext(ctx, `
		insert into evidence_submissions (id, action_plan_id, uploaded_by, file_ref, file_url, description, review_status, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.ActionPlanID, e.UploadedBy, e.FileRef, e.FileURL, e.Description, string(e.ReviewStatus), e.CreatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return workflow.ErrNotFound
	}
	return err
}

func (p pgEvidence) Find(ctx context.Context, id string) (*workflow.Evidence, error) {
	var e workflow.Evidence
	err := p.s.db.QueryRowContext(ctx, `
		select id, action_plan_id, uploaded_by, file_ref, file_url, description, review_status, created_at
		from evidence_submissions where id=$1
	`, id).Scan(&e.ID, &e.ActionPlanID, &e.UploadedBy, &e.FileRef, &e.FileURL, &e.Description, &e.ReviewStatus, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (p pgEvidence) ListByPlan(ctx context.Context, planID string) ([]*workflow.Evidence, error) {
	rows, err := p.s.db.QueryContext(ctx, `
		select id, action_plan_id, uploaded_by, file_ref, file_url, description, review_status, created_at
		from evidence_submissions where action_plan_id=$1 order by created_at
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*workflow.Evidence, 0)
	for rows.Next() {
		var e workflow.Evidence
		if err := rows.Scan(&e.ID, &e.ActionPlanID, &e.UploadedBy, &e.FileRef, &e.FileURL, &e.Description, &e.ReviewStatus, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (p pgEvidence) SetReviewStatus(ctx context.Context, id string, status workflow.ReviewStatus) error {
	res, err := p.s.db.ExecContext(ctx,
		`update evidence_submissions set review_status=$2 where id=$1`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

type pgLog struct{ s *Store }

func (p pgLog) Append(ctx context.Context, entry *workflow.LogEntry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	_, err := p.s.db.ExecContext(ctx, `
		insert into audit_logs (id, recommendation_id, actor_id, action, details, occurred_at)
		values ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.RecommendationID, entry.ActorID, entry.Action, entry.Details, entry.OccurredAt)
	return err
}

func (p pgLog) ListByRecommendation(ctx context.Context, recommendationID string) ([]*workflow.LogEntry, error) {
	rows, err := p.s.db.QueryContext(ctx, `
		select id, recommendation_id, actor_id, action, details, occurred_at
		from audit_logs where recommendation_id=$1 order by occurred_at desc
	`, recommendationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*workflow.LogEntry, 0)
	for rows.Next() {
		var e workflow.LogEntry
		if err := rows.Scan(&e.ID, &e.RecommendationID, &e.ActorID, &e.Action, &e.Details, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
