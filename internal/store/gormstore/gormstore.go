// Package gormstore implements store.Store on top of gorm for the sqlite,
// mysql and postgres drivers.
package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an opened connection. The schema must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for tooling.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicateSlug
	}
	return err
}

// Projects

func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Version = 1

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return duplicate(err)
		}
		return syncMembers(tx, p)
	})
}

func (s *Store) SaveProject(ctx context.Context, p *models.Project, expectedVersion int64) error {
	p.Version = expectedVersion + 1
	p.UpdatedAt = time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(p).
			Where("version = ?", expectedVersion).
			Select("*").
			Omit("id", "slug", "created_at", "created_by").
			Updates(p)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Project{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return store.ErrNotFound
			}
			return store.ErrVersionConflict
		}
		return syncMembers(tx, p)
	})
	if err != nil {
		p.Version = expectedVersion
		return err
	}
	return nil
}

// syncMembers rewrites the project_members lookup rows from p.Members.
func syncMembers(tx *gorm.DB, p *models.Project) error {
	if err := tx.Where("project_id = ?", p.ID).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	if len(p.Members) == 0 {
		return nil
	}
	rows := make([]models.ProjectMember, 0, len(p.Members))
	for _, m := range p.Members {
		roles := make([]string, len(m.Roles))
		for i, r := range m.Roles {
			roles[i] = string(r)
		}
		rows = append(rows, models.ProjectMember{
			ProjectID: p.ID,
			UserID:    m.UserID,
			Roles:     strings.Join(roles, ","),
		})
	}
	return tx.Create(&rows).Error
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error
	})
}

func (s *Store) FindProjectsByMemberID(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Select("projects.*").
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Find(&projects).Error
	return projects, err
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// Users

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now()
	var saved models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("external_id = ?", u.ExternalID).First(&saved).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			saved = *u
			if saved.ID == "" {
				saved.ID = uuid.New().String()
			}
			if saved.GlobalRole == "" {
				saved.GlobalRole = models.GlobalRoleUser
			}
			saved.LastLogin = &now
			return tx.Create(&saved).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"username":     u.Username,
			"display_name": u.DisplayName,
			"avatar_url":   u.AvatarURL,
			"email":        u.Email,
			"last_login":   now,
		}
		if err := tx.Model(&saved).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", saved.ID).First(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (s *Store) UpdateUserRole(ctx context.Context, externalID, globalRole string, eventManager bool) (*models.User, error) {
	u, err := s.FindUserByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(u).Updates(map[string]interface{}{
		"global_role":      globalRole,
		"is_event_manager": eventManager,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.FindUserByID(ctx, u.ID)
}

// Events

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return duplicate(s.db.WithContext(ctx).Create(e).Error)
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Order("date DESC").Find(&events).Error
	return events, err
}

// Audit logs

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, err
}
