package roster

import (
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

// Variant selects which roles count as collaborators in a projection.
type Variant int

const (
	// ViewStandard lists members holding the collaborator role.
	ViewStandard Variant = iota
	// ViewListing also counts viewers, as the platform-admin listing does.
	ViewListing
)

// View is the flat role partition returned to API callers.
type View struct {
	Admins        []string `json:"admins"`
	Collaborators []string `json:"collaborators"`
}

// Project derives the admin/collaborator lists from the roster.
func Project(p *models.Project, variant Variant) View {
	v := View{Admins: []string{}, Collaborators: []string{}}
	for i := range p.Members {
		m := &p.Members[i]
		if m.HasRole(models.RoleAdmin) {
			v.Admins = append(v.Admins, m.UserID)
		}
		if m.HasRole(models.RoleCollaborator) || (variant == ViewListing && m.HasRole(models.RoleViewer)) {
			v.Collaborators = append(v.Collaborators, m.UserID)
		}
	}
	return v
}

// ProjectView is a project as rendered by the API: roster internals are
// replaced by the flat lists.
type ProjectView struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	Description   string                 `json:"description"`
	Kind          models.ProjectKind     `json:"kind"`
	Repository    *models.RepositoryLink `json:"repository_link,omitempty"`
	SkillTags     []string               `json:"skill_tags"`
	Tags          []string               `json:"tags"`
	Status        models.ProjectStatus   `json:"status"`
	StartDate     *time.Time             `json:"start_date,omitempty"`
	EndDate       *time.Time             `json:"end_date,omitempty"`
	Admins        []string               `json:"admins"`
	Collaborators []string               `json:"collaborators"`
	Requests      []string               `json:"requests"`
	Comments      []models.Comment       `json:"comments,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	Version       int64                  `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Render builds the API view of p. withComments controls whether the comment
// thread is included; listings strip it.
func Render(p *models.Project, variant Variant, withComments bool) ProjectView {
	v := Project(p, variant)
	out := ProjectView{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Kind:          p.Kind,
		Repository:    p.Repository,
		SkillTags:     nonNil(p.SkillTags),
		Tags:          nonNil(p.Tags),
		Status:        p.Status,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Admins:        v.Admins,
		Collaborators: v.Collaborators,
		Requests:      nonNil(p.Requests),
		CreatedBy:     p.CreatedBy,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if withComments {
		out.Comments = p.Comments
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
