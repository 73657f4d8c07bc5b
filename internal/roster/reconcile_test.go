package roster

import (
	"testing"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	t1 = time.Date(2025, 3, 2, 15, 30, 0, 0, time.UTC)
)

func member(id string, at time.Time, by string, roles ...models.Role) models.Membership {
	return models.Membership{UserID: id, Roles: roles, InvitedAt: at, InvitedBy: by}
}

func TestReconcile_BothListsAbsentLeavesRosterUntouched(t *testing.T) {
	old := []models.Membership{member("u1", t0, "root", models.RoleAdmin)}

	got, changed := Reconcile(old, nil, nil, false, false, "actor", t1)

	assert.False(t, changed)
	assert.Equal(t, old, got)
}

func TestReconcile_EmptyListIsFullReplacement(t *testing.T) {
	old := []models.Membership{
		member("u1", t0, "root", models.RoleAdmin),
		member("u2", t0, "root", models.RoleCollaborator),
	}

	got, changed := Reconcile(old, []string{"u1"}, []string{}, true, true, "actor", t1)

	require.True(t, changed)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestReconcile_UnionAndHistoryPreserved(t *testing.T) {
	old := []models.Membership{member("u1", t0, "root", models.RoleAdmin)}

	got, changed := Reconcile(old, []string{"u1", "u2"}, []string{"u2"}, true, true, "actor", t1)

	require.True(t, changed)
	require.Len(t, got, 2)

	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, []models.Role{models.RoleAdmin}, got[0].Roles)
	assert.Equal(t, t0, got[0].InvitedAt)
	assert.Equal(t, "root", got[0].InvitedBy)

	assert.Equal(t, "u2", got[1].UserID)
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleCollaborator}, got[1].Roles)
	assert.Equal(t, t1, got[1].InvitedAt)
	assert.Equal(t, "actor", got[1].InvitedBy)
}

func TestReconcile_ExistingMemberRolesResetToFirstAssignment(t *testing.T) {
	old := []models.Membership{member("u1", t0, "root", models.RoleAdmin, models.RoleCollaborator)}

	got, _ := Reconcile(old, nil, []string{"u1"}, false, true, "actor", t1)

	require.Len(t, got, 1)
	assert.Equal(t, []models.Role{models.RoleCollaborator}, got[0].Roles)
	assert.Equal(t, t0, got[0].InvitedAt)
	assert.Equal(t, "root", got[0].InvitedBy)
}

func TestReconcile_DropsUsersMissingFromBothLists(t *testing.T) {
	old := []models.Membership{
		member("u1", t0, "root", models.RoleAdmin),
		member("u2", t0, "root", models.RoleCollaborator),
		member("u3", t0, "root", models.RoleViewer),
	}

	got, _ := Reconcile(old, []string{"u2"}, nil, true, false, "actor", t1)

	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].UserID)
	assert.Equal(t, []models.Role{models.RoleAdmin}, got[0].Roles)
}

func TestReconcile_DuplicatesAreIdempotent(t *testing.T) {
	got, _ := Reconcile(nil, []string{"u1", "u1"}, []string{"u2", "u2", "u1"}, true, true, "actor", t1)

	require.Len(t, got, 2)
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleCollaborator}, got[0].Roles)
	assert.Equal(t, []models.Role{models.RoleCollaborator}, got[1].Roles)
}

func TestReconcile_Idempotent(t *testing.T) {
	old := []models.Membership{
		member("u1", t0, "root", models.RoleAdmin),
		member("u9", t0, "root", models.RoleCollaborator),
	}
	admins := []string{"u1", "u3"}
	collabs := []string{"u2", "u3"}

	first, _ := Reconcile(old, admins, collabs, true, true, "actor", t1)
	second, _ := Reconcile(first, admins, collabs, true, true, "actor", t1.Add(time.Hour))

	assert.Equal(t, first, second)
}

func TestReconcile_OutputInvariants(t *testing.T) {
	old := []models.Membership{member("a", t0, "root", models.RoleAdmin)}
	got, _ := Reconcile(old, []string{"a", "b", "c", "b"}, []string{"c", "d", "a", ""}, true, true, "x", t1)

	seen := map[string]bool{}
	for _, m := range got {
		assert.False(t, seen[m.UserID], "duplicate user %s", m.UserID)
		seen[m.UserID] = true
		assert.NotEmpty(t, m.Roles, "empty roles for %s", m.UserID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
}

func ids(ms []models.Membership) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.UserID
	}
	return out
}
