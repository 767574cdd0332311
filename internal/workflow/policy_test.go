package workflow

import (
	"errors"
	"testing"

	"arts.org/internal/auth"
)

func TestAuthorizeMatrix(t *testing.T) {
	auditor := auth.Principal{ID: "u-a", Role: auth.RoleAuditor}
	director := auth.Principal{ID: "u-d", Role: auth.RoleDirector, DepartmentID: "D9"}
	focal := auth.Principal{ID: "u-f", Role: auth.RoleFocalPerson, DepartmentID: "D1"}
	staff := auth.Principal{ID: "u-s", Role: auth.RoleStaff, DepartmentID: "D1"}

	cases := []struct {
		name   string
		actor  auth.Principal
		action Action
		dept   string
		allow  bool
	}{
		{"auditor creates recommendation anywhere", auditor, ActionRecommendationCreate, "D2", true},
		{"director creates recommendation anywhere", director, ActionRecommendationCreate, "D1", true},
		{"staff denied recommendation creation in own department", staff, ActionRecommendationCreate, "D1", false},
		{"focal denied recommendation creation in own department", focal, ActionRecommendationCreate, "D1", false},
		{"auditor sets status anywhere", auditor, ActionStatusChange, "D2", true},
		{"director sets status anywhere", director, ActionStatusChange, "D1", true},
		{"auditor reviews evidence", auditor, ActionEvidenceReview, "D1", true},
		{"staff denied status change in own department", staff, ActionStatusChange, "D1", false},
		{"focal denied status change in own department", focal, ActionStatusChange, "D1", false},
		{"focal creates plan in own department", focal, ActionPlanCreate, "D1", true},
		{"staff creates plan in own department", staff, ActionPlanCreate, "D1", true},
		{"focal denied plan in other department", focal, ActionPlanCreate, "D2", false},
		{"staff denied toggle in other department", staff, ActionPlanToggle, "D2", false},
		{"auditor denied plan creation", auditor, ActionPlanCreate, "D1", false},
		{"director denied evidence submission", director, ActionEvidenceSubmit, "D9", false},
		{"staff submits evidence in own department", staff, ActionEvidenceSubmit, "D1", true},
		{"focal denied evidence review", focal, ActionEvidenceReview, "D1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, tc.dept)
			if tc.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allow {
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
			}
		})
	}
}

func TestAuthorizeRejectsUnknownAction(t *testing.T) {
	err := Authorize(auth.Principal{Role: auth.RoleAuditor}, Action("recommendation.delete"), "D1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMutatingActionsDeniedAcrossDepartments(t *testing.T) {
	// Every remediation action is denied for unprivileged roles against a
	// foreign department, and for principals without any department.
	actions := []Action{
		ActionPlanCreate,
		ActionPlanToggle,
		ActionEvidenceSubmit,
	}
	for _, role := range []auth.Role{auth.RoleFocalPerson, auth.RoleStaff} {
		p := auth.Principal{ID: "u", Role: role, DepartmentID: "D1"}
		for _, action := range actions {
			if err := Authorize(p, action, "D2"); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("%s/%s: expected ErrUnauthorized, got %v", role, action, err)
			}
		}
		noDept := auth.Principal{ID: "u", Role: role}
		for _, action := range actions {
			if err := Authorize(noDept, action, "D2"); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("%s/%s without department: expected ErrUnauthorized, got %v", role, action, err)
			}
		}
	}
}

func TestCanReadAndScopeFilter(t *testing.T) {
	auditor := auth.Principal{Role: auth.RoleAuditor}
	staff := auth.Principal{Role: auth.RoleStaff, DepartmentID: "D1"}
	orphan := auth.Principal{Role: auth.RoleFocalPerson}

	if !CanRead(auditor, "D2") {
		t.Fatal("auditor should read any department")
	}
	if !CanRead(staff, "D1") || CanRead(staff, "D2") {
		t.Fatal("staff should read only their own department")
	}
	if CanRead(orphan, "D1") {
		t.Fatal("principal without department should read nothing")
	}

	f, ok := ScopeFilter(auditor, Filter{DepartmentID: "D2"})
	if !ok || f.DepartmentID != "D2" {
		t.Fatalf("auditor filter should pass through, got %+v ok=%v", f, ok)
	}
	f, ok = ScopeFilter(staff, Filter{DepartmentID: "D2"})
	if !ok || f.DepartmentID != "D1" {
		t.Fatalf("staff filter should be pinned to own department, got %+v ok=%v", f, ok)
	}
	if _, ok := ScopeFilter(orphan, Filter{}); ok {
		t.Fatal("orphan filter should report no readable scope")
	}
}
