// Package permissions decides which actor may change which object.
package permissions

import (
	"strings"

	"infra-object-service/internal/apperrors"
	"infra-object-service/internal/confidence"
	"infra-object-service/internal/models"
)

// Role is an actor's role within a tenant.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleEngineer   Role = "ENGINEER"
	RoleTechnician Role = "TECHNICIAN"
	RoleViewer     Role = "VIEWER"
)

// ParseRole accepts any letter case. Unknown roles map to VIEWER.
func ParseRole(s string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleManager, RoleEngineer, RoleTechnician, RoleViewer:
		return r
	}
	return RoleViewer
}

// Elevated reports whether the role may approve, reject and archive.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEngineer
}

// Actor is the caller of an operation.
type Actor struct {
	ID       string
	Role     Role
	TenantID string
}

// System is the actor recorded for automatic changes.
var System = Actor{ID: "system", Role: RoleAdmin}

// Oracle answers permission questions for a specific object.
type Oracle interface {
	CanEdit(a Actor, o *models.ObjectRecord) bool
	CanApprove(a Actor, o *models.ObjectRecord) bool
	CanValidate(a Actor, o *models.ObjectRecord) bool
	CanDeactivate(a Actor, o *models.ObjectRecord) bool
	CanCreate(a Actor) bool
}

// RoleOracle is the default role-based oracle.
type RoleOracle struct{}

func (RoleOracle) CanCreate(a Actor) bool {
	return a.Role != RoleViewer && a.ID != ""
}

func (RoleOracle) CanEdit(a Actor, o *models.ObjectRecord) bool {
	if a.Role.Elevated() {
		return true
	}
	if a.Role == RoleTechnician && o.Criticality == confidence.CriticalityCritical {
		return false
	}
	return a.Role != RoleViewer && a.ID != "" && a.ID == o.CreatedBy
}

func (RoleOracle) CanApprove(a Actor, _ *models.ObjectRecord) bool {
	return a.Role.Elevated()
}

func (r RoleOracle) CanValidate(a Actor, o *models.ObjectRecord) bool {
	return r.CanEdit(a, o)
}

func (RoleOracle) CanDeactivate(a Actor, o *models.ObjectRecord) bool {
	if a.Role.Elevated() {
		return true
	}
	return a.Role != RoleViewer && a.ID != "" && a.ID == o.CreatedBy
}

// Action names a guarded operation in Forbidden errors.
type Action string

const (
	ActionCreate     Action = "create"
	ActionEdit       Action = "edit"
	ActionApprove    Action = "approve"
	ActionValidate   Action = "validate"
	ActionDeactivate Action = "deactivate"
)

// Require returns a Forbidden error when oracle denies action to a on o.
// o may be nil for ActionCreate.
func Require(oracle Oracle, action Action, a Actor, o *models.ObjectRecord) error {
	var ok bool
	switch action {
	case ActionCreate:
		ok = oracle.CanCreate(a)
	case ActionEdit:
		ok = oracle.CanEdit(a, o)
	case ActionApprove:
		ok = oracle.CanApprove(a, o)
	case ActionValidate:
		ok = oracle.CanValidate(a, o)
	case ActionDeactivate:
		ok = oracle.CanDeactivate(a, o)
	}
	if ok {
		return nil
	}
	if o != nil {
		return apperrors.Forbidden("permissions."+string(action), "actor %s (%s) may not %s object %s", a.ID, a.Role, action, o.ID)
	}
	return apperrors.Forbidden("permissions."+string(action), "actor %s (%s) may not %s objects", a.ID, a.Role, action)
}
