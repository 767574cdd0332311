package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"arts.org/internal/workflow"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestCommitStatusTransactional(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	entry := &workflow.LogEntry{
		ID:               "log-1",
		RecommendationID: "rec-1",
		ActorID:          "user-1",
		Action:           "status_change",
		Details:          "Status updated to Green",
		OccurredAt:       time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("update audit_recommendations set status").
		WithArgs("rec-1", "Green").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into audit_logs").
		WithArgs(entry.ID, entry.RecommendationID, entry.ActorID, entry.Action, entry.Details, entry.OccurredAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.CommitStatus(ctx, "rec-1", workflow.StatusGreen, entry); err != nil {
		t.Fatalf("CommitStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCommitStatusRollsBackOnLogFailure(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("update audit_recommendations set status").
		WithArgs("rec-1", "Red").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into audit_logs").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	entry := &workflow.LogEntry{ID: "log-1", RecommendationID: "rec-1"}
	if err := store.CommitStatus(ctx, "rec-1", workflow.StatusRed, entry); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCommitStatusMissingRecommendation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("update audit_recommendations set status").
		WithArgs("missing", "Red").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.CommitStatus(context.Background(), "missing", workflow.StatusRed, &workflow.LogEntry{})
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecommendationsBuildsFilteredQuery(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "department_id", "created_by", "created_at"}).
		AddRow("rec-1", "Procurement controls", "", "Red", "dep-1", "user-1", created)

	mock.ExpectQuery("select id, title, description, status, department_id, created_by, created_at\\s+from audit_recommendations where department_id=\\$1 and status=\\$2 and title ilike \\$3 order by created_at desc").
		WithArgs("dep-1", "Red", "%procure%").
		WillReturnRows(rows)

	recs, err := store.Recommendations(ctx).List(ctx, workflow.Filter{
		DepartmentID: "dep-1",
		Status:       workflow.StatusRed,
		TitleQuery:   "procure",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "rec-1" {
		t.Fatalf("unexpected result: %+v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("Red", 3).
		AddRow("Green", 1)
	mock.ExpectQuery("select status, count\\(\\*\\) from audit_recommendations where department_id=\\$1 group by status").
		WithArgs("dep-1").
		WillReturnRows(rows)

	counts, err := store.Recommendations(ctx).CountByStatus(ctx, "dep-1")
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[workflow.StatusRed] != 3 || counts[workflow.StatusGreen] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestFindRecommendationNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery("select id, title, description, status, department_id, created_by, created_at\\s+from audit_recommendations where id=\\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "department_id", "created_by", "created_at"}))

	if _, err := store.Recommendations(ctx).Find(ctx, "missing"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindPlanWithoutDueDate(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "recommendation_id", "description", "assigned_to", "due_date", "status", "created_at"}).
		AddRow("plan-1", "rec-1", "Publish schedule", "user-1", nil, "pending", created)
	mock.ExpectQuery("select id, recommendation_id, description, assigned_to, due_date, status, created_at\\s+from action_plans where id=\\$1").
		WithArgs("plan-1").
		WillReturnRows(rows)

	plan, err := store.Plans(ctx).Find(ctx, "plan-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !plan.DueDate.IsZero() {
		t.Fatalf("expected zero due date, got %v", plan.DueDate)
	}
}

func TestListPlansWithNullDueDates(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	created := time.Now().UTC()
	due := created.Add(72 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "recommendation_id", "description", "assigned_to", "due_date", "status", "created_at"}).
		AddRow("plan-1", "rec-1", "No deadline yet", "user-1", nil, "pending", created).
		AddRow("plan-2", "rec-1", "Deadline set", "user-1", due, "pending", created)
	mock.ExpectQuery("select id, recommendation_id, description, assigned_to, due_date, status, created_at\\s+from action_plans where recommendation_id=\\$1 order by created_at").
		WithArgs("rec-1").
		WillReturnRows(rows)

	plans, err := store.Plans(ctx).ListByRecommendation(ctx, "rec-1")
	if err != nil {
		t.Fatalf("ListByRecommendation: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if !plans[0].DueDate.IsZero() {
		t.Fatalf("expected zero due date, got %v", plans[0].DueDate)
	}
	if !plans[1].DueDate.Equal(due) {
		t.Fatalf("unexpected due date: %v", plans[1].DueDate)
	}
}

func TestSetPlanStatus(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("update action_plans set status").
		WithArgs("plan-1", "completed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Plans(ctx).SetStatus(ctx, "plan-1", workflow.PlanCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	mock.ExpectExec("update action_plans set status").
		WithArgs("missing", "completed").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.Plans(ctx).SetStatus(ctx, "missing", workflow.PlanCompleted); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
