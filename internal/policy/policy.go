// Package policy answers who may perform privileged project and platform
// operations. Every decision is computed from the values passed in; callers
// load fresh state before asking.
package policy

import (
	"errors"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// Actor is the identity performing an operation.
type Actor struct {
	UserID     string
	GlobalRole string
}

// ActorFromUser builds an Actor from a loaded user record.
func ActorFromUser(u *models.User) Actor {
	return Actor{UserID: u.ID, GlobalRole: u.GlobalRole}
}

// CanActAsProjectAdmin reports whether userID holds the admin role in p.
func CanActAsProjectAdmin(p *models.Project, userID string) bool {
	if p == nil || userID == "" {
		return false
	}
	m := p.Member(userID)
	return m != nil && m.HasRole(models.RoleAdmin)
}

// CanActAsPlatformAdmin reports whether the actor is a super admin.
func CanActAsPlatformAdmin(a Actor) bool {
	return a.GlobalRole == models.GlobalRoleSuperAdmin
}

// CanManageEvents reports whether u may publish events.
func CanManageEvents(u *models.User) bool {
	return u != nil && (u.IsSuperAdmin() || u.IsEventManager)
}

// RequireProjectAdmin returns ErrForbidden unless the actor administers p.
func RequireProjectAdmin(p *models.Project, a Actor) error {
	if !CanActAsProjectAdmin(p, a.UserID) {
		return ErrForbidden
	}
	return nil
}

// RequirePlatformAdmin returns ErrForbidden unless the actor is a super admin.
func RequirePlatformAdmin(a Actor) error {
	if !CanActAsPlatformAdmin(a) {
		return ErrForbidden
	}
	return nil
}
