// Package roster holds the membership rules of a project: roster
// reconciliation, the join-request lifecycle, comments and the flat
// admin/collaborator projection used in API responses.
package roster

import (
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

// Reconcile computes the complete replacement roster for a project.
//
// When neither list is set the old roster is returned unchanged and changed
// is false. Otherwise admins are processed first, then collaborators. A user
// seen earlier in the same pass gains the role, so duplicate ids merge. Empty
// ids are ignored. A user from the old roster
// keeps invitedAt/invitedBy but restarts from exactly the first role assigned
// in this pass. Unknown users are invited by actorID at now. Users absent from
// both lists are dropped.
func Reconcile(old []models.Membership, adminIDs, collaboratorIDs []string,
	adminsSet, collaboratorsSet bool, actorID string, now time.Time) ([]models.Membership, bool) {
	if !adminsSet && !collaboratorsSet {
		return old, false
	}

	previous := make(map[string]models.Membership, len(old))
	for _, m := range old {
		previous[m.UserID] = m
	}

	var (
		order   []string
		working = make(map[string]*models.Membership)
	)

	assign := func(ids []string, role models.Role) {
		for _, id := range ids {
			if id == "" {
				continue
			}
			if m, seen := working[id]; seen {
				m.AddRole(role)
				continue
			}
			m := &models.Membership{
				UserID:    id,
				Roles:     []models.Role{role},
				InvitedAt: now,
				InvitedBy: actorID,
			}
			if prev, ok := previous[id]; ok {
				m.InvitedAt = prev.InvitedAt
				m.InvitedBy = prev.InvitedBy
			}
			working[id] = m
			order = append(order, id)
		}
	}

	assign(adminIDs, models.RoleAdmin)
	assign(collaboratorIDs, models.RoleCollaborator)

	out := make([]models.Membership, 0, len(order))
	for _, id := range order {
		out = append(out, *working[id])
	}
	return out, true
}
