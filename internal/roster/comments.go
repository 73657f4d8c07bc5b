package roster

import (
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
	"github.com/google/uuid"
)

// AddComment appends a new top-level comment and returns it.
func AddComment(p *models.Project, authorID, text string, now time.Time) models.Comment {
	c := models.Comment{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: now,
		Replies:   []models.Reply{},
	}
	p.Comments = append(p.Comments, c)
	return c
}

// AddReply appends a reply to the comment addressed by commentID.
func AddReply(p *models.Project, commentID, authorID, text string, now time.Time) (models.Reply, error) {
	c := p.Comment(commentID)
	if c == nil {
		return models.Reply{}, ErrCommentNotFound
	}
	r := models.Reply{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: now,
	}
	c.Replies = append(c.Replies, r)
	return r, nil
}
