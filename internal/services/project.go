package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/policy"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/utils"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
)

const slugAttempts = 5

type ProjectService struct {
	projects store.Projects
	now      func() time.Time
}

func NewProjectService(projects store.Projects) *ProjectService {
	return &ProjectService{projects: projects, now: time.Now}
}

type CreateProjectRequest struct {
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	Kind           models.ProjectKind        `json:"kind"`
	SkillTags      TagList                   `json:"skill_tags"`
	Tags           TagList                   `json:"tags"`
	RepositoryLink *RepositoryInput          `json:"repository_link"`
	StartDate      *time.Time                `json:"start_date"`
	EndDate        *time.Time                `json:"end_date"`
	Status         models.ProjectStatus      `json:"status"`
	Admins         models.Optional[[]string] `json:"admins"`
	Collaborators  models.Optional[[]string] `json:"collaborators"`
}

// UpdateSettingsRequest is the project-admin partial update. Absent fields
// are left untouched.
type UpdateSettingsRequest struct {
	Name           models.Optional[string]               `json:"name"`
	Description    models.Optional[string]               `json:"description"`
	Status         models.Optional[models.ProjectStatus] `json:"status"`
	SkillTags      models.Optional[TagList]              `json:"skill_tags"`
	RepositoryLink models.Optional[RepositoryInput]      `json:"repository_link"`
}

// AdminUpdateRequest is the platform-admin partial update. Admins and
// Collaborators, when present, replace the roster through roster.Reconcile.
type AdminUpdateRequest struct {
	UpdateSettingsRequest
	Kind          models.Optional[models.ProjectKind] `json:"kind"`
	Tags          models.Optional[TagList]            `json:"tags"`
	StartDate     models.Optional[time.Time]          `json:"start_date"`
	EndDate       models.Optional[time.Time]          `json:"end_date"`
	Admins        models.Optional[[]string]           `json:"admins"`
	Collaborators models.Optional[[]string]           `json:"collaborators"`
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.projects.LoadProject(ctx, id)
}

// List returns every project. Platform admins only.
func (s *ProjectService) List(ctx context.Context, actor policy.Actor) ([]models.Project, error) {
	if err := policy.RequirePlatformAdmin(actor); err != nil {
		return nil, err
	}
	return s.projects.ListProjects(ctx)
}

// ProjectsOfUser lists the projects whose roster contains userID.
func (s *ProjectService) ProjectsOfUser(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projects.FindProjectsByMemberID(ctx, userID)
}

// Create validates req and inserts a new project with the actor as admin.
func (s *ProjectService) Create(ctx context.Context, actor policy.Actor, req *CreateProjectRequest) (*models.Project, error) {
	if err := policy.RequirePlatformAdmin(actor); err != nil {
		return nil, err
	}

	now := s.now()
	name := utils.SanitizeText(req.Name)
	if name == "" {
		return nil, missingField("name")
	}
	if req.Kind == "" {
		return nil, missingField("kind")
	}
	if !req.Kind.Valid() {
		return nil, invalidField("kind", "must be %q or %q", models.KindCode, models.KindNonCode)
	}
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, invalidField("status", "unknown status %q", status)
	}

	var link *models.RepositoryLink
	switch req.Kind {
	case models.KindCode:
		l, err := buildRepositoryLink(req.RepositoryLink, now)
		if err != nil {
			return nil, err
		}
		link = l
	case models.KindNonCode:
		if req.RepositoryLink != nil {
			return nil, invalidField("repository_link", "not allowed for non-code projects")
		}
	}

	// The creator is always the first admin and is never demoted by the lists.
	admins := append([]string{actor.UserID}, excluding(req.Admins.Value, actor.UserID)...)
	collaborators := excluding(req.Collaborators.Value, actor.UserID)
	members, _ := roster.Reconcile(nil, admins, collaborators, true, true, actor.UserID, now)

	p := &models.Project{
		Name:        name,
		Description: utils.SanitizeText(req.Description),
		Kind:        req.Kind,
		Repository:  link,
		SkillTags:   utils.SanitizeList(req.SkillTags),
		Tags:        utils.SanitizeList(req.Tags),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		Members:     members,
		Requests:    []string{},
		Comments:    []models.Comment{},
		CreatedBy:   actor.UserID,
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		p.ID = ""
		p.Slug = utils.UniqueSlug(name)
		err = s.projects.CreateProject(ctx, p)
		if !errors.Is(err, store.ErrDuplicateSlug) {
			break
		}
	}
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateSlug) {
			logger.Error().Err(err).Str("actor_id", actor.UserID).Msg("create project failed")
		}
		return nil, err
	}

	logger.Info().
		Str("project_id", p.ID).
		Str("slug", p.Slug).
		Str("actor_id", actor.UserID).
		Int("members", len(p.Members)).
		Msg("project created")
	return p, nil
}

// UpdateSettings applies a project-admin partial update.
func (s *ProjectService) UpdateSettings(ctx context.Context, actor policy.Actor, id string, req *UpdateSettingsRequest) (*models.Project, error) {
	return s.mutate(ctx, actor, id, "update_settings", func(p *models.Project, now time.Time) error {
		if err := policy.RequireProjectAdmin(p, actor); err != nil {
			return err
		}
		return applySettings(p, req, now)
	})
}

// AuthorizeSettings reports whether the actor may change the settings of
// project id, without touching it.
func (s *ProjectService) AuthorizeSettings(ctx context.Context, actor policy.Actor, id string) error {
	p, err := s.projects.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	return policy.RequireProjectAdmin(p, actor)
}

// AdminUpdate applies a platform-admin partial update including kind, dates,
// tags and the roster.
func (s *ProjectService) AdminUpdate(ctx context.Context, actor policy.Actor, id string, req *AdminUpdateRequest) (*models.Project, error) {
	if err := policy.RequirePlatformAdmin(actor); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, id, "admin_update", func(p *models.Project, now time.Time) error {
		if err := applyKind(p, req, now); err != nil {
			return err
		}
		settings := req.UpdateSettingsRequest
		if req.Kind.Set {
			// link already handled together with the kind switch
			settings.RepositoryLink = models.Optional[RepositoryInput]{}
		}
		if err := applySettings(p, &settings, now); err != nil {
			return err
		}

		if req.Tags.Set {
			p.Tags = utils.SanitizeList(req.Tags.Value)
		}
		if req.StartDate.Set {
			p.StartDate = optionalTime(req.StartDate)
		}
		if req.EndDate.Set {
			p.EndDate = optionalTime(req.EndDate)
		}

		// null lists count as unspecified, like absent ones
		members, changed := roster.Reconcile(p.Members,
			req.Admins.Value, req.Collaborators.Value,
			req.Admins.Set && !req.Admins.Null, req.Collaborators.Set && !req.Collaborators.Null,
			actor.UserID, now)
		if changed {
			p.Members = members
			p.Requests = withoutMembers(p.Requests, p)
		}
		return nil
	})
}

// Delete removes a project. Platform admins only.
func (s *ProjectService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.RequirePlatformAdmin(actor); err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error().Err(err).Str("project_id", id).Msg("delete project failed")
		}
		return err
	}
	logger.Info().Str("project_id", id).Str("actor_id", actor.UserID).Msg("project deleted")
	return nil
}

// RequestJoin files a join request for the actor and returns the pending set.
func (s *ProjectService) RequestJoin(ctx context.Context, actor policy.Actor, id string) ([]string, error) {
	p, err := s.mutate(ctx, actor, id, "request_join", func(p *models.Project, _ time.Time) error {
		return roster.RequestJoin(p, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return p.Requests, nil
}

func (s *ProjectService) ApproveRequest(ctx context.Context, actor policy.Actor, id, userID string) (*models.Project, error) {
	return s.mutate(ctx, actor, id, "approve_request", func(p *models.Project, now time.Time) error {
		if err := policy.RequireProjectAdmin(p, actor); err != nil {
			return err
		}
		return roster.Approve(p, userID, actor.UserID, now)
	})
}

func (s *ProjectService) RejectRequest(ctx context.Context, actor policy.Actor, id, userID string) (*models.Project, error) {
	return s.mutate(ctx, actor, id, "reject_request", func(p *models.Project, _ time.Time) error {
		if err := policy.RequireProjectAdmin(p, actor); err != nil {
			return err
		}
		return roster.Reject(p, userID)
	})
}

func (s *ProjectService) RemoveMember(ctx context.Context, actor policy.Actor, id, userID string) (*models.Project, error) {
	return s.mutate(ctx, actor, id, "remove_member", func(p *models.Project, _ time.Time) error {
		if err := policy.RequireProjectAdmin(p, actor); err != nil {
			return err
		}
		return roster.RemoveMember(p, userID, actor.UserID)
	})
}

// Comments returns the comment thread of a project.
func (s *ProjectService) Comments(ctx context.Context, id string) ([]models.Comment, error) {
	p, err := s.projects.LoadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Comments == nil {
		return []models.Comment{}, nil
	}
	return p.Comments, nil
}

func (s *ProjectService) AddComment(ctx context.Context, actor policy.Actor, id, text string) (*models.Project, error) {
	text = utils.SanitizeText(text)
	if text == "" {
		return nil, missingField("text")
	}
	return s.mutate(ctx, actor, id, "add_comment", func(p *models.Project, now time.Time) error {
		roster.AddComment(p, actor.UserID, text, now)
		return nil
	})
}

func (s *ProjectService) AddReply(ctx context.Context, actor policy.Actor, id, commentID, text string) (*models.Project, error) {
	text = utils.SanitizeText(text)
	if text == "" {
		return nil, missingField("text")
	}
	if commentID == "" {
		return nil, missingField("comment_id")
	}
	return s.mutate(ctx, actor, id, "add_reply", func(p *models.Project, now time.Time) error {
		_, err := roster.AddReply(p, commentID, actor.UserID, text, now)
		return err
	})
}

// mutate runs one load, transform, conditional save cycle. fn works on a
// copy; nothing is written when it fails.
func (s *ProjectService) mutate(ctx context.Context, actor policy.Actor, id, action string,
	fn func(p *models.Project, now time.Time) error) (*models.Project, error) {
	current, err := s.projects.LoadProject(ctx, id)
	if err != nil {
		return nil, err
	}

	p := current.Clone()
	if err := fn(p, s.now()); err != nil {
		return nil, err
	}

	if err := s.projects.SaveProject(ctx, p, current.Version); err != nil {
		if errors.Is(err, store.ErrVersionConflict) || errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Str("project_id", id).Str("action", action).Msg("project save rejected")
		} else {
			logger.Error().Err(err).Str("project_id", id).Str("action", action).Msg("project save failed")
		}
		return nil, err
	}

	logger.Info().
		Str("project_id", p.ID).
		Str("actor_id", actor.UserID).
		Str("action", action).
		Int64("version", p.Version).
		Msg("project updated")
	return p, nil
}

func applySettings(p *models.Project, req *UpdateSettingsRequest, now time.Time) error {
	if req.Name.Set {
		name := utils.SanitizeText(req.Name.Value)
		if name == "" {
			return missingField("name")
		}
		p.Name = name
	}
	if req.Description.Set {
		p.Description = utils.SanitizeText(req.Description.Value)
	}
	if req.Status.Set {
		if !req.Status.Value.Valid() {
			return invalidField("status", "unknown status %q", req.Status.Value)
		}
		p.Status = req.Status.Value
	}
	if req.SkillTags.Set {
		p.SkillTags = utils.SanitizeList(req.SkillTags.Value)
	}
	if req.RepositoryLink.Set {
		if p.Kind != models.KindCode {
			return invalidField("repository_link", "not allowed for non-code projects")
		}
		in, ok := req.RepositoryLink.Get()
		if !ok {
			return invalidField("repository_link", "code projects require a repository link")
		}
		link, err := buildRepositoryLink(&in, now)
		if err != nil {
			return err
		}
		p.Repository = link
	}
	return nil
}

// applyKind switches the project kind. Leaving code requires the caller to
// clear the repository link explicitly; entering code requires a new link.
func applyKind(p *models.Project, req *AdminUpdateRequest, now time.Time) error {
	if !req.Kind.Set {
		return nil
	}
	kind, ok := req.Kind.Get()
	if !ok || !kind.Valid() {
		return invalidField("kind", "must be %q or %q", models.KindCode, models.KindNonCode)
	}

	switch kind {
	case models.KindNonCode:
		if req.RepositoryLink.Set && !req.RepositoryLink.Null {
			return invalidField("repository_link", "not allowed for non-code projects")
		}
		if p.Repository != nil && !req.RepositoryLink.Null {
			return invalidField("repository_link", "must be cleared explicitly when switching to non-code")
		}
		p.Repository = nil
	case models.KindCode:
		if in, ok := req.RepositoryLink.Get(); ok {
			link, err := buildRepositoryLink(&in, now)
			if err != nil {
				return err
			}
			p.Repository = link
		} else if p.Repository == nil || req.RepositoryLink.Set {
			return missingField("repository_link")
		}
	}
	p.Kind = kind
	return nil
}

func optionalTime(o models.Optional[time.Time]) *time.Time {
	t, ok := o.Get()
	if !ok {
		return nil
	}
	return &t
}

func excluding(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" && id != drop {
			out = append(out, id)
		}
	}
	return out
}

func withoutMembers(requests []string, p *models.Project) []string {
	out := make([]string, 0, len(requests))
	for _, id := range requests {
		if !p.IsMember(id) {
			out = append(out, id)
		}
	}
	return out
}
