package models

import (
	"time"
)

type ProjectKind string

const (
	KindCode    ProjectKind = "code"
	KindNonCode ProjectKind = "non-code"
)

func (k ProjectKind) Valid() bool {
	return k == KindCode || k == KindNonCode
}

type ProjectStatus string

const (
	StatusActive   ProjectStatus = "active"
	StatusPaused   ProjectStatus = "paused"
	StatusArchived ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusArchived:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "collaborator"
	RoleContributor  Role = "contributor" // reserved
	RoleViewer       Role = "viewer"      // reserved
)

// Membership is one entry of a project's roster.
// InvitedAt and InvitedBy are written once when the entry is first created.
type Membership struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Roles     []Role    `bson:"roles" json:"roles"`
	InvitedAt time.Time `bson:"invited_at" json:"invited_at"`
	InvitedBy string    `bson:"invited_by" json:"invited_by"`
}

// HasRole reports whether the membership carries role r.
func (m *Membership) HasRole(r Role) bool {
	for _, have := range m.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// AddRole appends r unless already present.
func (m *Membership) AddRole(r Role) {
	if !m.HasRole(r) {
		m.Roles = append(m.Roles, r)
	}
}

// RepositoryLink describes the external repository of a code project.
type RepositoryLink struct {
	URL          string     `bson:"url" json:"url"`
	Owner        string     `bson:"owner" json:"owner"`
	Repo         string     `bson:"repo" json:"repo"`
	LastSyncedAt *time.Time `bson:"last_synced_at,omitempty" json:"last_synced_at,omitempty"`
}

type Reply struct {
	ID        string    `bson:"id" json:"id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Comment struct {
	ID        string    `bson:"id" json:"id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Replies   []Reply   `bson:"replies" json:"replies"`
}

// Project is the aggregate root. Members, requests and comments are embedded
// and always written together with the project row.
type Project struct {
	ID          string          `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name        string          `gorm:"size:200;not null" bson:"name" json:"name"`
	Slug        string          `gorm:"uniqueIndex;size:250;not null" bson:"slug" json:"slug"`
	Description string          `gorm:"type:text" bson:"description" json:"description"`
	Kind        ProjectKind     `gorm:"size:20;not null" bson:"kind" json:"kind"`
	Repository  *RepositoryLink `gorm:"serializer:json;type:text" bson:"repository,omitempty" json:"repository,omitempty"`
	SkillTags   []string        `gorm:"serializer:json;type:text" bson:"skill_tags" json:"skill_tags"`
	Tags        []string        `gorm:"serializer:json;type:text" bson:"tags" json:"tags"`
	StartDate   *time.Time      `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     *time.Time      `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Status      ProjectStatus   `gorm:"size:20;default:active" bson:"status" json:"status"`
	Members     []Membership    `gorm:"serializer:json;type:text" bson:"members" json:"members"`
	Requests    []string        `gorm:"serializer:json;type:text" bson:"requests" json:"requests"`
	Comments    []Comment       `gorm:"serializer:json;type:text" bson:"comments" json:"comments"`
	CreatedBy   string          `gorm:"size:36" bson:"created_by" json:"created_by"`
	Version     int64           `gorm:"not null;default:1" bson:"version" json:"version"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// Member returns the roster entry for userID, or nil.
func (p *Project) Member(userID string) *Membership {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i]
		}
	}
	return nil
}

func (p *Project) IsMember(userID string) bool {
	return p.Member(userID) != nil
}

func (p *Project) HasRequested(userID string) bool {
	for _, id := range p.Requests {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment returns the comment with the given id, or nil.
func (p *Project) Comment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// Clone returns a deep copy so a mutation can be computed without touching
// the loaded value.
func (p *Project) Clone() *Project {
	cp := *p
	if p.Repository != nil {
		repo := *p.Repository
		cp.Repository = &repo
	}
	cp.SkillTags = append([]string(nil), p.SkillTags...)
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Requests = append([]string(nil), p.Requests...)
	cp.Members = make([]Membership, len(p.Members))
	for i, m := range p.Members {
		m.Roles = append([]Role(nil), m.Roles...)
		cp.Members[i] = m
	}
	cp.Comments = make([]Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.Replies = append([]Reply(nil), c.Replies...)
		cp.Comments[i] = c
	}
	return &cp
}
