package workflow

import "context"

// Store describes persistence operations required by the workflow subsystem.
type Store interface {
	Departments(ctx context.Context) DepartmentStore
	Recommendations(ctx context.Context) RecommendationStore
	Plans(ctx context.Context) PlanStore
	Evidence(ctx context.Context) EvidenceStore
	Log(ctx context.Context) LogStore
}

// DepartmentStore manages departments.
type DepartmentStore interface {
	Create(ctx context.Context, d *Department) error
	Find(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}

// RecommendationStore manages audit recommendations.
type RecommendationStore interface {
	Create(ctx context.Context, r *Recommendation) error
	Find(ctx context.Context, id string) (*Recommendation, error)
	List(ctx context.Context, f Filter) ([]*Recommendation, error)
	SetStatus(ctx context.Context, id string, status Status) error
	CountByStatus(ctx context.Context, departmentID string) (map[Status]int, error)
}

// PlanStore manages action plans.
type PlanStore interface {
	Create(ctx context.Context, p *ActionPlan) error
	Find(ctx context.Context, id string) (*ActionPlan, error)
	ListByRecommendation(ctx context.Context, recommendationID string) ([]*ActionPlan, error)
	List(ctx context.Context, f PlanFilter) ([]*ActionPlan, error)
	SetStatus(ctx context.Context, id string, status PlanStatus) error
}

// EvidenceStore manages evidence submissions.
type EvidenceStore interface {
	Create(ctx context.Context, e *Evidence) error
	Find(ctx context.Context, id string) (*Evidence, error)
	ListByPlan(ctx context.Context, planID string) ([]*Evidence, error)
	SetReviewStatus(ctx context.Context, id string, status ReviewStatus) error
}

// LogStore appends immutable history entries.
type LogStore interface {
	Append(ctx context.Context, entry *LogEntry) error
	ListByRecommendation(ctx context.Context, recommendationID string) ([]*LogEntry, error)
}

// StatusCommitter is implemented by stores that can persist a status change
// and its history entry atomically. Stores without it fall back to two
// writes where the status update is never rolled back by a log failure.
type StatusCommitter interface {
	CommitStatus(ctx context.Context, id string, status Status, entry *LogEntry) error
}
