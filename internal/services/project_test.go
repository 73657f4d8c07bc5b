package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/policy"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/store/gormstore"
	"github.com/Abhishek40905/ancome-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	superAdmin = policy.Actor{UserID: "root", GlobalRole: models.GlobalRoleSuperAdmin}
	plainUser  = func(id string) policy.Actor { return policy.Actor{UserID: id, GlobalRole: models.GlobalRoleUser} }

	createdAt = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	laterAt   = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc   *ProjectService
	store *gormstore.Store
	ctx   context.Context
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewStore(t)
	f := &fixture{store: s, ctx: testutil.Context(t), clock: createdAt}
	f.svc = NewProjectService(s)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) createNonCode(t *testing.T, admins, collaborators []string) *models.Project {
	t.Helper()
	p, err := f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{
		Name:          "Community Garden",
		Kind:          models.KindNonCode,
		Admins:        models.Some(admins),
		Collaborators: models.Some(collaborators),
	})
	require.NoError(t, err)
	return p
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, field, ve.Field)
}

func TestCreate_RequiresPlatformAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(f.ctx, plainUser("u1"), &CreateProjectRequest{Name: "x", Kind: models.KindNonCode})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{Name: "  ", Kind: models.KindNonCode})
	assertValidation(t, err, "name")

	_, err = f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{Name: "x"})
	assertValidation(t, err, "kind")

	_, err = f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{Name: "x", Kind: "hardware"})
	assertValidation(t, err, "kind")

	_, err = f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{Name: "x", Kind: models.KindCode})
	assertValidation(t, err, "repository_link.url")

	_, err = f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{
		Name: "x", Kind: models.KindNonCode, RepositoryLink: &RepositoryInput{URL: "https://github.com/a/b"},
	})
	assertValidation(t, err, "repository_link")

	projects, err := f.store.ListProjects(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCreate_CodeProject(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{
		Name:           "Campus Map",
		Description:    "<b>Interactive</b> map",
		Kind:           models.KindCode,
		SkillTags:      TagList{"go", "react"},
		RepositoryLink: &RepositoryInput{URL: "https://github.com/acme/campus-map.git"},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^campus-map-\d{4}$`), p.Slug)
	assert.Equal(t, "Interactive map", p.Description)
	assert.Equal(t, models.StatusActive, p.Status)
	require.NotNil(t, p.Repository)
	assert.Equal(t, "acme", p.Repository.Owner)
	assert.Equal(t, "campus-map", p.Repository.Repo)

	loaded, err := f.store.LoadProject(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "react"}, loaded.SkillTags)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestCreate_CreatorIsFirstAdmin(t *testing.T) {
	f := newFixture(t)

	p := f.createNonCode(t, []string{"u1", "root"}, []string{"root", "u1", "u2"})

	view := roster.Project(p, roster.ViewStandard)
	assert.Equal(t, []string{"root", "u1"}, view.Admins)
	assert.Equal(t, []string{"u1", "u2"}, view.Collaborators)

	creator := p.Member("root")
	require.NotNil(t, creator)
	assert.Equal(t, []models.Role{models.RoleAdmin}, creator.Roles)
	assert.Equal(t, "root", creator.InvitedBy)
}

func TestJoinRequestFlow(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, nil)

	requests, err := f.svc.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, requests)

	_, err = f.svc.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	assert.ErrorIs(t, err, roster.ErrAlreadyPending)

	f.clock = laterAt
	updated, err := f.svc.ApproveRequest(f.ctx, superAdmin, p.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, updated.Requests)

	m := updated.Member("u1")
	require.NotNil(t, m)
	assert.Equal(t, []models.Role{models.RoleCollaborator}, m.Roles)
	assert.True(t, laterAt.Equal(m.InvitedAt))

	_, err = f.svc.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	assert.ErrorIs(t, err, roster.ErrAlreadyMember)

	mine, err := f.svc.ProjectsOfUser(f.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)
}

func TestRejectRequest(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, nil)

	_, err := f.svc.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	require.NoError(t, err)

	updated, err := f.svc.RejectRequest(f.ctx, superAdmin, p.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, updated.Requests)
	assert.False(t, updated.IsMember("u1"))

	_, err = f.svc.RejectRequest(f.ctx, superAdmin, p.ID, "u1")
	assert.ErrorIs(t, err, roster.ErrNoPendingRequest)
}

func TestNonAdminAlwaysForbidden(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, []string{"collab"})
	_, err := f.svc.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	require.NoError(t, err)

	collab := plainUser("collab")
	bogus := models.Some(models.ProjectStatus("bogus"))

	_, err = f.svc.ApproveRequest(f.ctx, collab, p.ID, "u1")
	assert.ErrorIs(t, err, policy.ErrForbidden)
	_, err = f.svc.RejectRequest(f.ctx, collab, p.ID, "nobody")
	assert.ErrorIs(t, err, policy.ErrForbidden)
	_, err = f.svc.RemoveMember(f.ctx, collab, p.ID, "collab")
	assert.ErrorIs(t, err, policy.ErrForbidden)
	_, err = f.svc.UpdateSettings(f.ctx, collab, p.ID, &UpdateSettingsRequest{Status: bogus})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	// a super admin outside the roster is not a project admin
	outsider := policy.Actor{UserID: "other-root", GlobalRole: models.GlobalRoleSuperAdmin}
	_, err = f.svc.ApproveRequest(f.ctx, outsider, p.ID, "u1")
	assert.ErrorIs(t, err, policy.ErrForbidden)

	loaded, err := f.store.LoadProject(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Version)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, []string{"u1"})

	_, err := f.svc.RemoveMember(f.ctx, superAdmin, p.ID, "root")
	assert.ErrorIs(t, err, roster.ErrSelfRemoval)

	updated, err := f.svc.RemoveMember(f.ctx, superAdmin, p.ID, "u1")
	require.NoError(t, err)
	assert.False(t, updated.IsMember("u1"))

	_, err = f.svc.RemoveMember(f.ctx, superAdmin, p.ID, "u1")
	assert.ErrorIs(t, err, roster.ErrNotAMember)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, []string{"lead"}, nil)
	lead := plainUser("lead")

	updated, err := f.svc.UpdateSettings(f.ctx, lead, p.ID, &UpdateSettingsRequest{
		Description: models.Some("Weekly planting"),
		SkillTags:   models.Some(TagList{"botany"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Community Garden", updated.Name)
	assert.Equal(t, "Weekly planting", updated.Description)
	assert.Equal(t, []string{"botany"}, updated.SkillTags)

	_, err = f.svc.UpdateSettings(f.ctx, lead, p.ID, &UpdateSettingsRequest{Name: models.Cleared[string]()})
	assertValidation(t, err, "name")

	_, err = f.svc.UpdateSettings(f.ctx, lead, p.ID, &UpdateSettingsRequest{
		RepositoryLink: models.Some(RepositoryInput{URL: "https://github.com/a/b"}),
	})
	assertValidation(t, err, "repository_link")

	_, err = f.svc.UpdateSettings(f.ctx, lead, "missing", &UpdateSettingsRequest{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdminUpdate_ReconcilesRoster(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, []string{"u1"})
	_, err := f.svc.RequestJoin(f.ctx, plainUser("u3"), p.ID)
	require.NoError(t, err)

	f.clock = laterAt
	updated, err := f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &AdminUpdateRequest{
		Admins:        models.Some([]string{"root", "u1"}),
		Collaborators: models.Some([]string{"u1", "u3"}),
	})
	require.NoError(t, err)

	view := roster.Project(updated, roster.ViewStandard)
	assert.Equal(t, []string{"root", "u1"}, view.Admins)
	assert.Equal(t, []string{"u1", "u3"}, view.Collaborators)

	u1 := updated.Member("u1")
	require.NotNil(t, u1)
	assert.True(t, createdAt.Equal(u1.InvitedAt), "invitedAt must survive role changes")
	assert.True(t, laterAt.Equal(updated.Member("u3").InvitedAt))
	assert.Empty(t, updated.Requests, "new members leave the request set")
}

func TestAdminUpdate_OmittedListsKeepRoster(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, []string{"u1"})

	updated, err := f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &AdminUpdateRequest{
		Tags: models.Some(TagList{"outdoor"}),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 2)
	assert.Equal(t, []string{"outdoor"}, updated.Tags)

	updated, err = f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &AdminUpdateRequest{
		Admins: models.Some([]string{"root"}),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 1)
}

func TestAdminUpdate_NullListsKeepRoster(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, []string{"u1"}, []string{"u2"})
	require.Len(t, p.Members, 3)

	var req AdminUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"admins":null,"collaborators":null}`), &req))
	require.True(t, req.Admins.Set)

	updated, err := f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &req)
	require.NoError(t, err)
	assert.Len(t, updated.Members, 3)
	view := roster.Project(updated, roster.ViewStandard)
	assert.Equal(t, []string{"root", "u1"}, view.Admins)

	// a null list next to a real one leaves only the real one in effect
	var partial AdminUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"admins":["root"],"collaborators":null}`), &partial))
	updated, err = f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &partial)
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, roster.Project(updated, roster.ViewStandard).Admins)
}

func TestAdminUpdate_KindSwitch(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.Create(f.ctx, superAdmin, &CreateProjectRequest{
		Name: "Site", Kind: models.KindCode, RepositoryLink: &RepositoryInput{URL: "https://github.com/acme/site"},
	})
	require.NoError(t, err)

	nonCode := models.Some(models.KindNonCode)

	_, err = f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &AdminUpdateRequest{Kind: nonCode})
	assertValidation(t, err, "repository_link")

	req := &AdminUpdateRequest{Kind: nonCode}
	req.RepositoryLink = models.Cleared[RepositoryInput]()
	updated, err := f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.KindNonCode, updated.Kind)
	assert.Nil(t, updated.Repository)

	_, err = f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, &AdminUpdateRequest{Kind: models.Some(models.KindCode)})
	assertValidation(t, err, "repository_link")

	back := &AdminUpdateRequest{Kind: models.Some(models.KindCode)}
	back.RepositoryLink = models.Some(RepositoryInput{URL: "https://github.com/acme/site-v2"})
	updated, err = f.svc.AdminUpdate(f.ctx, superAdmin, p.ID, back)
	require.NoError(t, err)
	assert.Equal(t, models.KindCode, updated.Kind)
	require.NotNil(t, updated.Repository)
	assert.Equal(t, "site-v2", updated.Repository.Repo)
}

func TestAdminUpdate_RequiresPlatformAdmin(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, []string{"lead"}, nil)

	_, err := f.svc.AdminUpdate(f.ctx, plainUser("lead"), p.ID, &AdminUpdateRequest{})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, nil)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, plainUser("u1"), p.ID), policy.ErrForbidden)
	require.NoError(t, f.svc.Delete(f.ctx, superAdmin, p.ID))
	assert.ErrorIs(t, f.svc.Delete(f.ctx, superAdmin, p.ID), store.ErrNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.createNonCode(t, nil, nil)
	f.createNonCode(t, nil, nil)

	_, err := f.svc.List(f.ctx, plainUser("u1"))
	assert.ErrorIs(t, err, policy.ErrForbidden)

	projects, err := f.svc.List(f.ctx, superAdmin)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, nil)

	_, err := f.svc.AddComment(f.ctx, plainUser("u1"), p.ID, "   ")
	assertValidation(t, err, "text")

	updated, err := f.svc.AddComment(f.ctx, plainUser("u1"), p.ID, "When do we meet?")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	commentID := updated.Comments[0].ID

	_, err = f.svc.AddReply(f.ctx, superAdmin, p.ID, "missing", "hi")
	assert.ErrorIs(t, err, roster.ErrCommentNotFound)

	_, err = f.svc.AddReply(f.ctx, superAdmin, p.ID, commentID, "Saturday <script>x</script>")
	require.NoError(t, err)

	comments, err := f.svc.Comments(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "Saturday", comments[0].Replies[0].Text)
	assert.Equal(t, "root", comments[0].Replies[0].AuthorID)
}

// racingStore lets another writer save between our load and our save.
type racingStore struct {
	*gormstore.Store
	raced bool
}

func (r *racingStore) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := r.Store.LoadProject(ctx, id)
	if err != nil || r.raced {
		return p, err
	}
	r.raced = true
	other := p.Clone()
	other.Description = "concurrent edit"
	if err := r.Store.SaveProject(ctx, other, other.Version); err != nil {
		return nil, err
	}
	return p, nil
}

func TestConcurrentWriteIsRejected(t *testing.T) {
	f := newFixture(t)
	p := f.createNonCode(t, nil, nil)

	racing := NewProjectService(&racingStore{Store: f.store})
	_, err := racing.RequestJoin(f.ctx, plainUser("u1"), p.ID)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	loaded, err := f.store.LoadProject(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "concurrent edit", loaded.Description)
	assert.Empty(t, loaded.Requests)
}
