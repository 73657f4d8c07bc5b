package policy

import (
	"testing"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanActAsProjectAdmin(t *testing.T) {
	p := &models.Project{Members: []models.Membership{
		{UserID: "admin", Roles: []models.Role{models.RoleAdmin}},
		{UserID: "both", Roles: []models.Role{models.RoleCollaborator, models.RoleAdmin}},
		{UserID: "collab", Roles: []models.Role{models.RoleCollaborator}},
	}}

	tests := []struct {
		userID string
		want   bool
	}{
		{"admin", true},
		{"both", true},
		{"collab", false},
		{"stranger", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanActAsProjectAdmin(p, tt.userID), tt.userID)
	}
	assert.False(t, CanActAsProjectAdmin(nil, "admin"))
}

func TestSuperAdminIsNotProjectAdmin(t *testing.T) {
	p := &models.Project{}
	a := Actor{UserID: "root", GlobalRole: models.GlobalRoleSuperAdmin}

	assert.True(t, CanActAsPlatformAdmin(a))
	assert.ErrorIs(t, RequireProjectAdmin(p, a), ErrForbidden)
}

func TestRequirePlatformAdmin(t *testing.T) {
	assert.ErrorIs(t, RequirePlatformAdmin(Actor{UserID: "u", GlobalRole: models.GlobalRoleUser}), ErrForbidden)
	assert.NoError(t, RequirePlatformAdmin(Actor{UserID: "u", GlobalRole: models.GlobalRoleSuperAdmin}))
}

func TestCanManageEvents(t *testing.T) {
	assert.False(t, CanManageEvents(nil))
	assert.False(t, CanManageEvents(&models.User{GlobalRole: models.GlobalRoleUser}))
	assert.True(t, CanManageEvents(&models.User{GlobalRole: models.GlobalRoleUser, IsEventManager: true}))
	assert.True(t, CanManageEvents(&models.User{GlobalRole: models.GlobalRoleSuperAdmin}))
}
