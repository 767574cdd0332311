package workflow

import (
	"fmt"
	"strings"
	"time"
)

// Status is the review state of an audit recommendation.
type Status string

const (
	StatusGreen  Status = "Green"
	StatusYellow Status = "Yellow"
	StatusRed    Status = "Red"
	StatusPurple Status = "Purple"
	StatusBlue   Status = "Blue"
)

// ParseStatus maps user input onto the closed status set. Matching is
// case-insensitive but the canonical capitalized form is what gets stored.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "green":
		return StatusGreen, nil
	case "yellow":
		return StatusYellow, nil
	case "red":
		return StatusRed, nil
	case "purple":
		return StatusPurple, nil
	case "blue":
		return StatusBlue, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, raw)
	}
}

// PlanStatus is the completion state of an action plan.
type PlanStatus string

const (
	PlanPending    PlanStatus = "pending"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
)

// ParsePlanStatus validates an action plan status filter value.
func ParsePlanStatus(raw string) (PlanStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return PlanPending, nil
	case "in_progress":
		return PlanInProgress, nil
	case "completed":
		return PlanCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown plan status %q", ErrInvalidStatus, raw)
	}
}

// ReviewStatus is the outcome recorded for an evidence submission.
type ReviewStatus string

const (
	ReviewSubmitted ReviewStatus = "submitted"
	ReviewApproved  ReviewStatus = "approved"
	ReviewRejected  ReviewStatus = "rejected"
)

// ParseReviewDecision accepts only the two terminal review outcomes.
func ParseReviewDecision(raw string) (ReviewStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return ReviewApproved, nil
	case "rejected":
		return ReviewRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown review decision %q", ErrInvalidStatus, raw)
	}
}

// Department is an organizational unit recommendations are assigned to.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Recommendation is a tracked audit finding with its follow-up state.
type Recommendation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	DepartmentID string    `json:"department_id"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActionPlan is a remediation step attached to a recommendation.
type ActionPlan struct {
	ID               string     `json:"id"`
	RecommendationID string     `json:"recommendation_id"`
	Description      string     `json:"description"`
	AssignedTo       string     `json:"assigned_to"`
	DueDate          time.Time  `json:"due_date"`
	Status           PlanStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Evidence is an uploaded artifact supporting an action plan.
type Evidence struct {
	ID           string       `json:"id"`
	ActionPlanID string       `json:"action_plan_id"`
	UploadedBy   string       `json:"uploaded_by"`
	FileRef      string       `json:"-"`
	FileURL      string       `json:"file_url"`
	Description  string       `json:"description"`
	ReviewStatus ReviewStatus `json:"review_status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// LogEntry is one row of the durable per-recommendation history.
type LogEntry struct {
	ID               string    `json:"id"`
	RecommendationID string    `json:"recommendation_id"`
	ActorID          string    `json:"actor_id"`
	Action           string    `json:"action"`
	Details          string    `json:"details"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Filter narrows recommendation listings.
type Filter struct {
	DepartmentID string
	Status       Status
	TitleQuery   string
	Limit        int
}

// PlanFilter narrows action plan listings.
type PlanFilter struct {
	AssignedTo string
	Status     PlanStatus
}

// Detail aggregates a recommendation with its plans and evidence.
type Detail struct {
	Recommendation Recommendation `json:"recommendation"`
	Department     *Department    `json:"department,omitempty"`
	Plans          []ActionPlan   `json:"plans"`
	Evidence       []Evidence     `json:"evidence"`
}

// Stats holds per-status recommendation counts for the dashboard.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
