package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/Abhishek40905/ancome-backend/internal/policy"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/internal/utils"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
)

type EventService struct {
	events store.Events
	users  store.Users
}

func NewEventService(events store.Events, users store.Users) *EventService {
	return &EventService{events: events, users: users}
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
}

// EventCreator is the public author info attached to listed events.
type EventCreator struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type EventView struct {
	models.Event
	Creator *EventCreator `json:"creator,omitempty"`
}

// Create publishes a new upcoming event. Only super admins and event
// managers may publish.
func (s *EventService) Create(ctx context.Context, user *models.User, req *CreateEventRequest) (*models.Event, error) {
	if !policy.CanManageEvents(user) {
		return nil, policy.ErrForbidden
	}

	e := &models.Event{
		Title:       utils.SanitizeText(req.Title),
		Slug:        utils.Slugify(req.Slug),
		Description: utils.SanitizeText(req.Description),
		Date:        req.Date,
		Time:        strings.TrimSpace(req.Time),
		Location:    utils.SanitizeText(req.Location),
		Category:    utils.SanitizeText(req.Category),
		Status:      models.EventUpcoming,
		CreatedBy:   user.ID,
	}
	switch {
	case e.Title == "":
		return nil, missingField("title")
	case e.Slug == "":
		return nil, missingField("slug")
	case e.Description == "":
		return nil, missingField("description")
	case e.Date.IsZero():
		return nil, missingField("date")
	case e.Category == "":
		return nil, missingField("category")
	}
	if e.Location == "" {
		e.Location = "TBD"
	}

	if err := s.events.CreateEvent(ctx, e); err != nil {
		if !errors.Is(err, store.ErrDuplicateSlug) {
			logger.Error().Err(err).Str("slug", e.Slug).Msg("create event failed")
		}
		return nil, err
	}

	logger.Info().Str("event_id", e.ID).Str("slug", e.Slug).Str("actor_id", user.ID).Msg("event created")
	return e, nil
}

// List returns every event, latest date first, with its creator resolved.
func (s *EventService) List(ctx context.Context) ([]EventView, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	creators := make(map[string]*EventCreator)
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		creator, seen := creators[e.CreatedBy]
		if !seen {
			if u, err := s.users.FindUserByID(ctx, e.CreatedBy); err == nil {
				creator = &EventCreator{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			creators[e.CreatedBy] = creator
		}
		out = append(out, EventView{Event: e, Creator: creator})
	}
	return out, nil
}
