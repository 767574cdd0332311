package workflow

import (
	"fmt"

	"arts.org/internal/auth"
)

// Action names a policy-gated workflow operation. The same names flow into
// the operational audit stream.
type Action string

const (
	ActionRecommendationCreate Action = "recommendation.create"
	ActionStatusChange         Action = "recommendation.status.change"
	ActionPlanCreate           Action = "plan.create"
	ActionPlanToggle           Action = "plan.toggle"
	ActionEvidenceSubmit       Action = "evidence.submit"
	ActionEvidenceReview       Action = "evidence.review"
)

// Authorize decides whether the principal may perform the action against a
// record in the given department. Auditors and directors hold the
// audit-side powers (opening findings, status changes, evidence review) in
// any department; focal persons and staff hold the remediation-side powers
// but only inside their own department.
func Authorize(p auth.Principal, action Action, departmentID string) error {
	switch action {
	case ActionRecommendationCreate, ActionStatusChange, ActionEvidenceReview:
		if p.Privileged() {
			return nil
		}
	case ActionPlanCreate, ActionPlanToggle, ActionEvidenceSubmit:
		if p.Role == auth.RoleFocalPerson || p.Role == auth.RoleStaff {
			if p.DepartmentID != "" && p.DepartmentID == departmentID {
				return nil
			}
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	return fmt.Errorf("%w: %s as %s", ErrUnauthorized, action, p.Role)
}

// CanRead reports whether the principal may see records in the department.
// Privileged roles read everything; everyone else reads their own
// department only.
func CanRead(p auth.Principal, departmentID string) bool {
	if p.Privileged() {
		return true
	}
	return p.DepartmentID != "" && p.DepartmentID == departmentID
}

// ScopeFilter clamps a listing filter to what the principal may read.
// Unprivileged principals are always pinned to their own department; a
// principal with no department sees nothing.
func ScopeFilter(p auth.Principal, f Filter) (Filter, bool) {
	if p.Privileged() {
		return f, true
	}
	if p.DepartmentID == "" {
		return f, false
	}
	f.DepartmentID = p.DepartmentID
	return f, true
}
