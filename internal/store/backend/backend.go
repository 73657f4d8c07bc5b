// Package backend opens the store selected by the database config.
package backend

import (
	"context"

	"github.com/Abhishek40905/ancome-backend/internal/config"
	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/store/gormstore"
	"github.com/Abhishek40905/ancome-backend/internal/store/mongostore"
)

// Open connects the configured backend and prepares its schema. SQL drivers
// go through gorm with AutoMigrate, "mongo" through the document store with
// its indexes.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (store.Store, error) {
	if cfg.Driver == "mongo" {
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	}

	db, err := models.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}
	return gormstore.New(db), nil
}
