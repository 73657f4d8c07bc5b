// Package store defines the persistence boundary. Implementations live in
// gormstore (sqlite, mysql, postgres) and mongostore.
package store

import (
	"context"
	"errors"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
	ErrDuplicateSlug   = errors.New("slug already in use")
)

// Projects persists whole project aggregates.
type Projects interface {
	LoadProject(ctx context.Context, id string) (*models.Project, error)
	// CreateProject inserts p with version 1. ErrDuplicateSlug when the slug
	// is taken.
	CreateProject(ctx context.Context, p *models.Project) error
	// SaveProject rewrites p only if the stored version equals
	// expectedVersion, then bumps p.Version and p.UpdatedAt.
	SaveProject(ctx context.Context, p *models.Project, expectedVersion int64) error
	DeleteProject(ctx context.Context, id string) error
	// FindProjectsByMemberID returns the projects whose roster contains
	// userID, most recently updated first.
	FindProjectsByMemberID(ctx context.Context, userID string) ([]models.Project, error)
	// ListProjects returns every project, newest first.
	ListProjects(ctx context.Context) ([]models.Project, error)
}

type Users interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	// UpsertUser creates the user on first login or refreshes the profile
	// fields and last login. ExternalID, GlobalRole and IsEventManager of an
	// existing record are never overwritten.
	UpsertUser(ctx context.Context, u *models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, externalID, globalRole string, eventManager bool) (*models.User, error)
}

type Events interface {
	// CreateEvent returns ErrDuplicateSlug when the slug is taken.
	CreateEvent(ctx context.Context, e *models.Event) error
	// ListEvents returns events by date, latest first.
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type AuditLogs interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	Projects
	Users
	Events
	AuditLogs
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
