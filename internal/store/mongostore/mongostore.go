// Package mongostore implements store.Store on MongoDB. A project is one
// document with its roster, requests and comments embedded.
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Store struct {
	client   *mongo.Client
	projects *mongo.Collection
	users    *mongo.Collection
	events   *mongo.Collection
	audit    *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials uri and returns a store bound to database name.
func Connect(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return New(client, client.Database(name)), nil
}

func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		projects: db.Collection("projects"),
		users:    db.Collection("users"),
		events:   db.Collection("events"),
		audit:    db.Collection("audit_logs"),
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.projects.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_projects_slug"),
		},
		{
			Keys:    bson.D{{Key: "members.user_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_projects_member"),
		},
	}); err != nil {
		return err
	}
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_users_external_id"),
	}); err != nil {
		return err
	}
	if _, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_events_slug"),
	}); err != nil {
		return err
	}
	_, err := s.audit.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_audit_created"),
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	err := c.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Projects

func (s *Store) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	return findOne[models.Project](ctx, s.projects, bson.M{"_id": id})
}

func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.projects.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateSlug
	}
	return err
}

func (s *Store) SaveProject(ctx context.Context, p *models.Project, expectedVersion int64) error {
	p.Version = expectedVersion + 1
	p.UpdatedAt = time.Now().UTC()

	res, err := s.projects.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": expectedVersion}, p)
	if err == nil && res.MatchedCount == 0 {
		var count int64
		count, err = s.projects.CountDocuments(ctx, bson.M{"_id": p.ID})
		switch {
		case err != nil:
		case count == 0:
			err = store.ErrNotFound
		default:
			err = store.ErrVersionConflict
		}
	}
	if err != nil {
		p.Version = expectedVersion
		return err
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FindProjectsByMemberID(ctx context.Context, userID string) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return findAll[models.Project](ctx, s.projects, bson.M{"members.user_id": userID}, opts)
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[models.Project](ctx, s.projects, bson.M{}, opts)
}

// Users

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"_id": id})
}

func (s *Store) FindUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"external_id": externalID})
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	globalRole := u.GlobalRole
	if globalRole == "" {
		globalRole = models.GlobalRoleUser
	}

	update := bson.M{
		"$set": bson.M{
			"username":     u.Username,
			"display_name": u.DisplayName,
			"avatar_url":   u.AvatarURL,
			"email":        u.Email,
			"last_login":   now,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"_id":              uuid.New().String(),
			"global_role":      globalRole,
			"is_event_manager": u.IsEventManager,
			"created_at":       now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"external_id": u.ExternalID}, update, opts).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findAll[models.User](ctx, s.users, bson.M{}, opts)
}

func (s *Store) UpdateUserRole(ctx context.Context, externalID, globalRole string, eventManager bool) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"global_role":      globalRole,
		"is_event_manager": eventManager,
		"updated_at":       time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"external_id": externalID}, update, opts).Decode(&saved)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Events

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.events.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateSlug
	}
	return err
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Event](ctx, s.events, bson.M{}, opts)
}

// Audit logs

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := s.audit.InsertOne(ctx, l)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.AuditLog](ctx, s.audit, bson.M{}, opts)
}
