package roster

import (
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

// RequestJoin moves userID from NONE to PENDING.
func RequestJoin(p *models.Project, userID string) error {
	if p.IsMember(userID) {
		return ErrAlreadyMember
	}
	if p.HasRequested(userID) {
		return ErrAlreadyPending
	}
	p.Requests = append(p.Requests, userID)
	return nil
}

// Approve moves userID from PENDING to MEMBER with the collaborator role.
// The request is always dropped; an existing membership is left as is.
// The caller is responsible for the authorization check.
func Approve(p *models.Project, userID, actorID string, now time.Time) error {
	pending := p.HasRequested(userID)
	member := p.IsMember(userID)
	if !pending && !member {
		return ErrNoPendingRequest
	}

	p.Requests = without(p.Requests, userID)
	if !member {
		p.Members = append(p.Members, models.Membership{
			UserID:    userID,
			Roles:     []models.Role{models.RoleCollaborator},
			InvitedAt: now,
			InvitedBy: actorID,
		})
	}
	return nil
}

// Reject moves userID from PENDING back to NONE.
func Reject(p *models.Project, userID string) error {
	if !p.HasRequested(userID) {
		return ErrNoPendingRequest
	}
	p.Requests = without(p.Requests, userID)
	return nil
}

// RemoveMember drops userID from the roster. An actor can never remove
// themselves through this path.
func RemoveMember(p *models.Project, userID, actorID string) error {
	if userID == actorID {
		return ErrSelfRemoval
	}
	if !p.IsMember(userID) {
		return ErrNotAMember
	}

	kept := p.Members[:0:0]
	for _, m := range p.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	p.Members = kept
	return nil
}

func without(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
