package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"arts.org/internal/auth"
	"arts.org/internal/blob"
	"arts.org/internal/ids"
	"arts.org/internal/obs"
)

const defaultEvidenceNote = "Evidence uploaded"

// Service implements the recommendation lifecycle. Every operation takes the
// acting principal explicitly; nothing is read from ambient state.
type Service struct {
	store          Store
	blobs          blob.Store
	now            func() time.Time
	terminalReview bool
}

// Option configures Service behavior.
type Option func(*Service) error

// WithBlobStore wires the evidence file store.
func WithBlobStore(b blob.Store) Option {
	return func(s *Service) error {
		s.blobs = b
		return nil
	}
}

// WithClock overrides time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// WithTerminalReview makes evidence review decisions final: a second
// decision on the same submission fails instead of overwriting the first.
func WithTerminalReview() Option {
	return func(s *Service) error {
		s.terminalReview = true
		return nil
	}
}

// NewService constructs the workflow service on top of a store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("workflow store is required")
	}
	svc := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// CreateRecommendationInput carries fields for a new recommendation.
type CreateRecommendationInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id"`
	Status       string `json:"status"`
}

// CreateRecommendation records a new finding against the named department.
// Only auditors and directors open findings, and the target department is
// always explicit. New findings open as Red unless a status is given.
func (s *Service) CreateRecommendation(ctx context.Context, actor auth.Principal, in CreateRecommendationInput) (*Recommendation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	departmentID := strings.TrimSpace(in.DepartmentID)
	if departmentID == "" {
		return nil, fmt.Errorf("%w: department is required", ErrInvalidInput)
	}
	if err := Authorize(actor, ActionRecommendationCreate, departmentID); err != nil {
		return nil, err
	}
	status := StatusRed
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	rec := &Recommendation{
		ID:           ids.New(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Status:       status,
		DepartmentID: departmentID,
		CreatedBy:    actor.ID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Recommendations(ctx).Create(ctx, rec); err != nil {
		return nil, upstream(err)
	}
	s.appendLog(ctx, rec.ID, actor.ID, "created", "Recommendation created")
	return rec, nil
}

// GetRecommendation returns the full detail aggregate. Records outside the
// actor's read scope report not-found rather than forbidden.
func (s *Service) GetRecommendation(ctx context.Context, actor auth.Principal, id string) (*Detail, error) {
	rec, err := s.visibleRecommendation(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	detail := &Detail{
		Recommendation: *rec,
		Plans:          []ActionPlan{},
		Evidence:       []Evidence{},
	}
	if dep, err := s.store.Departments(ctx).Find(ctx, rec.DepartmentID); err == nil {
		detail.Department = dep
	} else if !errors.Is(err, ErrNotFound) {
		return nil, upstream(err)
	}
	plans, err := s.store.Plans(ctx).ListByRecommendation(ctx, rec.ID)
	if err != nil {
		return nil, upstream(err)
	}
	for _, p := range plans {
		detail.Plans = append(detail.Plans, *p)
		evs, err := s.store.Evidence(ctx).ListByPlan(ctx, p.ID)
		if err != nil {
			return nil, upstream(err)
		}
		for _, e := range evs {
			detail.Evidence = append(detail.Evidence, *e)
		}
	}
	return detail, nil
}

// ListRecommendations returns recommendations within the actor's read
// scope. An unprivileged actor without a department sees an empty list.
func (s *Service) ListRecommendations(ctx context.Context, actor auth.Principal, f Filter) ([]*Recommendation, error) {
	scoped, ok := ScopeFilter(actor, f)
	if !ok {
		return []*Recommendation{}, nil
	}
	recs, err := s.store.Recommendations(ctx).List(ctx, scoped)
	if err != nil {
		return nil, upstream(err)
	}
	if recs == nil {
		recs = []*Recommendation{}
	}
	return recs, nil
}

// SetStatus moves a recommendation to the given status and records the
// transition in its history. The write pair is atomic when the store
// supports it; otherwise the status update stands even if the history
// append fails, and the failure is logged.
func (s *Service) SetStatus(ctx context.Context, actor auth.Principal, id string, status Status) (*Recommendation, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	rec, err := s.store.Recommendations(ctx).Find(ctx, id)
	if err != nil {
		return nil, upstream(err)
	}
	if err := Authorize(actor, ActionStatusChange, rec.DepartmentID); err != nil {
		return nil, err
	}
	entry := &LogEntry{
		ID:               ids.New(),
		RecommendationID: rec.ID,
		ActorID:          actor.ID,
		Action:           "status_change",
		Details:          fmt.Sprintf("Status updated to %s", status),
		OccurredAt:       s.now().UTC(),
	}
	if committer, ok := s.store.(StatusCommitter); ok {
		if err := committer.CommitStatus(ctx, rec.ID, status, entry); err != nil {
			return nil, upstream(err)
		}
	} else {
		if err := s.store.Recommendations(ctx).SetStatus(ctx, rec.ID, status); err != nil {
			return nil, upstream(err)
		}
		if err := s.store.Log(ctx).Append(ctx, entry); err != nil {
			obs.LogRequest(map[string]any{
				"level":             "error",
				"msg":               "history append failed after status update",
				"recommendation_id": rec.ID,
				"error":             err.Error(),
			})
		}
	}
	rec.Status = status
	return rec, nil
}

// CreatePlanInput carries fields for a new action plan.
type CreatePlanInput struct {
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// CreatePlan attaches a remediation step to a recommendation. The plan is
// assigned to the actor and starts pending.
func (s *Service) CreatePlan(ctx context.Context, actor auth.Principal, recommendationID string, in CreatePlanInput) (*ActionPlan, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	rec, err := s.store.Recommendations(ctx).Find(ctx, recommendationID)
	if err != nil {
		return nil, upstream(err)
	}
	if err := Authorize(actor, ActionPlanCreate, rec.DepartmentID); err != nil {
		return nil, err
	}
	plan := &ActionPlan{
		ID:               ids.New(),
		RecommendationID: rec.ID,
		Description:      strings.TrimSpace(in.Description),
		AssignedTo:       actor.ID,
		DueDate:          in.DueDate,
		Status:           PlanPending,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.Plans(ctx).Create(ctx, plan); err != nil {
		return nil, upstream(err)
	}
	s.appendLog(ctx, rec.ID, actor.ID, "plan_created", "Action plan added")
	return plan, nil
}

// TogglePlan flips an action plan between completed and pending. A plan in
// any non-completed state toggles to completed.
func (s *Service) TogglePlan(ctx context.Context, actor auth.Principal, planID string) (*ActionPlan, error) {
	plan, rec, err := s.planWithRecommendation(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionPlanToggle, rec.DepartmentID); err != nil {
		return nil, err
	}
	next := PlanCompleted
	if plan.Status == PlanCompleted {
		next = PlanPending
	}
	if err := s.store.Plans(ctx).SetStatus(ctx, plan.ID, next); err != nil {
		return nil, upstream(err)
	}
	plan.Status = next
	return plan, nil
}

// ListAssignedPlans returns the actor's own action plans, optionally
// filtered by status. Ordering by due date is up to the store.
func (s *Service) ListAssignedPlans(ctx context.Context, actor auth.Principal, status PlanStatus) ([]*ActionPlan, error) {
	if status != "" {
		if _, err := ParsePlanStatus(string(status)); err != nil {
			return nil, err
		}
	}
	plans, err := s.store.Plans(ctx).List(ctx, PlanFilter{AssignedTo: actor.ID, Status: status})
	if err != nil {
		return nil, upstream(err)
	}
	if plans == nil {
		plans = []*ActionPlan{}
	}
	return plans, nil
}

// SubmitEvidence uploads a file and records the submission against an
// action plan. If the metadata write fails after the upload succeeded, the
// uploaded file is deleted so no orphan remains.
func (s *Service) SubmitEvidence(ctx context.Context, actor auth.Principal, planID string, file io.Reader, contentType, description string) (*Evidence, error) {
	if s.blobs == nil {
		return nil, fmt.Errorf("%w: blob store is not configured", ErrUpstream)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	plan, rec, err := s.planWithRecommendation(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionEvidenceSubmit, rec.DepartmentID); err != nil {
		return nil, err
	}
	ref, err := s.blobs.Put(ctx, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %v", ErrUpstream, err)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultEvidenceNote
	}
	ev := &Evidence{
		ID:           ids.New(),
		ActionPlanID: plan.ID,
		UploadedBy:   actor.ID,
		FileRef:      ref,
		FileURL:      s.blobs.URL(ref),
		Description:  description,
		ReviewStatus: ReviewSubmitted,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Evidence(ctx).Create(ctx, ev); err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			obs.LogRequest(map[string]any{
				"level": "error",
				"msg":   "orphaned evidence file could not be deleted",
				"ref":   ref,
				"error": delErr.Error(),
			})
		}
		return nil, upstream(err)
	}
	s.appendLog(ctx, rec.ID, actor.ID, "evidence_submitted", "Evidence submitted")
	return ev, nil
}

// ReviewEvidence records an approve or reject decision on a submission.
func (s *Service) ReviewEvidence(ctx context.Context, actor auth.Principal, evidenceID string, decision ReviewStatus) (*Evidence, error) {
	if _, err := ParseReviewDecision(string(decision)); err != nil {
		return nil, err
	}
	ev, err := s.store.Evidence(ctx).Find(ctx, evidenceID)
	if err != nil {
		return nil, upstream(err)
	}
	plan, rec, err := s.planWithRecommendation(ctx, ev.ActionPlanID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionEvidenceReview, rec.DepartmentID); err != nil {
		return nil, err
	}
	if s.terminalReview && ev.ReviewStatus != ReviewSubmitted {
		return nil, ErrAlreadyReviewed
	}
	if err := s.store.Evidence(ctx).SetReviewStatus(ctx, ev.ID, decision); err != nil {
		return nil, upstream(err)
	}
	ev.ReviewStatus = decision
	s.appendLog(ctx, rec.ID, actor.ID, "evidence_review", fmt.Sprintf("Evidence for plan %s %s", plan.ID, decision))
	return ev, nil
}

// History returns the recommendation's durable log, newest first ordering
// being up to the store.
func (s *Service) History(ctx context.Context, actor auth.Principal, recommendationID string) ([]*LogEntry, error) {
	rec, err := s.visibleRecommendation(ctx, actor, recommendationID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Log(ctx).ListByRecommendation(ctx, rec.ID)
	if err != nil {
		return nil, upstream(err)
	}
	if entries == nil {
		entries = []*LogEntry{}
	}
	return entries, nil
}

// Stats returns per-status counts within the actor's read scope.
func (s *Service) Stats(ctx context.Context, actor auth.Principal) (Stats, error) {
	departmentID := ""
	if !actor.Privileged() {
		if actor.DepartmentID == "" {
			return Stats{ByStatus: map[Status]int{}}, nil
		}
		departmentID = actor.DepartmentID
	}
	counts, err := s.store.Recommendations(ctx).CountByStatus(ctx, departmentID)
	if err != nil {
		return Stats{}, upstream(err)
	}
	st := Stats{ByStatus: counts}
	for _, n := range counts {
		st.Total += n
	}
	return st, nil
}

// ListDepartments returns all departments. Any authenticated principal may
// read the department catalog.
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	deps, err := s.store.Departments(ctx).List(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	if deps == nil {
		deps = []*Department{}
	}
	return deps, nil
}

// CreateDepartment adds a department to the catalog. Administrative
// seeding path; only privileged roles may call it.
func (s *Service) CreateDepartment(ctx context.Context, actor auth.Principal, name string) (*Department, error) {
	if !actor.Privileged() {
		return nil, fmt.Errorf("%w: department.create as %s", ErrUnauthorized, actor.Role)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	dep := &Department{ID: ids.New(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.store.Departments(ctx).Create(ctx, dep); err != nil {
		return nil, upstream(err)
	}
	return dep, nil
}

func (s *Service) visibleRecommendation(ctx context.Context, actor auth.Principal, id string) (*Recommendation, error) {
	rec, err := s.store.Recommendations(ctx).Find(ctx, id)
	if err != nil {
		return nil, upstream(err)
	}
	if !CanRead(actor, rec.DepartmentID) {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *Service) planWithRecommendation(ctx context.Context, planID string) (*ActionPlan, *Recommendation, error) {
	plan, err := s.store.Plans(ctx).Find(ctx, planID)
	if err != nil {
		return nil, nil, upstream(err)
	}
	rec, err := s.store.Recommendations(ctx).Find(ctx, plan.RecommendationID)
	if err != nil {
		return nil, nil, upstream(err)
	}
	return plan, rec, nil
}

// appendLog records a best-effort history entry; failures are logged and
// never fail the caller's operation.
func (s *Service) appendLog(ctx context.Context, recID, actorID, action, details string) {
	entry := &LogEntry{
		ID:               ids.New(),
		RecommendationID: recID,
		ActorID:          actorID,
		Action:           action,
		Details:          details,
		OccurredAt:       s.now().UTC(),
	}
	if err := s.store.Log(ctx).Append(ctx, entry); err != nil {
		obs.LogRequest(map[string]any{
			"level":             "error",
			"msg":               "history append failed",
			"recommendation_id": recID,
			"action":            action,
			"error":             err.Error(),
		})
	}
}

// upstream wraps storage errors that are not part of the workflow taxonomy.
func upstream(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrAlreadyReviewed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
