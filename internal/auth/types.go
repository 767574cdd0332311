package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies what a principal is allowed to do across the service.
type Role string

const (
	RoleAuditor     Role = "auditor"
	RoleDirector    Role = "director"
	RoleFocalPerson Role = "focal_person"
	RoleStaff       Role = "staff"
)

// ParseRole normalizes and validates a role label.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAuditor:
		return RoleAuditor, nil
	case RoleDirector:
		return RoleDirector, nil
	case RoleFocalPerson:
		return RoleFocalPerson, nil
	case RoleStaff:
		return RoleStaff, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

// Privileged reports whether the role sees and mutates data across all departments.
func (r Role) Privileged() bool {
	return r == RoleAuditor || r == RoleDirector
}

// Profile is the persisted account record backing a principal.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	DepartmentID string    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the resolved identity passed explicitly into every policy and
// transition call. It is never stored in mutable process-wide state.
type Principal struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
}

// Privileged reports whether the principal holds an auditor or director role.
func (p Principal) Privileged() bool {
	return p.Role.Privileged()
}
