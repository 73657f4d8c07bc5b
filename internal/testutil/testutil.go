// Package testutil provides an isolated in-memory store and fixtures for
// tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store/gormstore"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore returns a migrated sqlite store private to t.
func NewStore(t *testing.T) *gormstore.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormstore.New(db)
}

// Context returns a context bounded for a single test.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CreateUser inserts a user with the given GitHub login and role.
func CreateUser(t *testing.T, s *gormstore.Store, login, globalRole string) *models.User {
	t.Helper()
	u, err := s.UpsertUser(Context(t), &models.User{
		ExternalID:  login,
		Username:    login,
		DisplayName: login,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	if globalRole != "" && globalRole != u.GlobalRole {
		u, err = s.UpdateUserRole(Context(t), login, globalRole, u.IsEventManager)
		if err != nil {
			t.Fatalf("set role for %s: %v", login, err)
		}
	}
	return u
}

// CreateProject inserts a non-code project whose roster holds adminID as admin.
func CreateProject(t *testing.T, s *gormstore.Store, name, adminID string) *models.Project {
	t.Helper()
	now := time.Now()
	p := &models.Project{
		Name:   name,
		Slug:   fmt.Sprintf("%s-%s", name, uuid.New().String()[:8]),
		Kind:   models.KindNonCode,
		Status: models.StatusActive,
		Members: []models.Membership{{
			UserID:    adminID,
			Roles:     []models.Role{models.RoleAdmin},
			InvitedAt: now,
			InvitedBy: adminID,
		}},
		Requests:  []string{},
		CreatedBy: adminID,
	}
	if err := s.CreateProject(Context(t), p); err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}
