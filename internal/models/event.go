package models

import "time"

const (
	EventUpcoming  = "upcoming"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

// Event is a dated listing (workshop, hackathon, seminar).
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title       string    `gorm:"size:200;not null" bson:"title" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:250;not null" bson:"slug" json:"slug"`
	Description string    `gorm:"type:text;not null" bson:"description" json:"description"`
	Date        time.Time `gorm:"index" bson:"date" json:"date"`
	Time        string    `gorm:"size:50" bson:"time" json:"time"` // "10:00 AM", "48 Hours"
	Location    string    `gorm:"size:200;default:TBD" bson:"location" json:"location"`
	Category    string    `gorm:"size:100;not null" bson:"category" json:"category"`
	Status      string    `gorm:"size:20;default:upcoming" bson:"status" json:"status"`
	CreatedBy   string    `gorm:"size:36;not null" bson:"created_by" json:"created_by"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (Event) TableName() string { return "events" }
