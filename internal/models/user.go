package models

import (
	"time"
)

const (
	GlobalRoleUser       = "user"
	GlobalRoleSuperAdmin = "super_admin"
)

// User represents a platform account created on first GitHub login.
type User struct {
	ID             string     `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	ExternalID     string     `gorm:"uniqueIndex;size:100;not null" bson:"external_id" json:"external_id"` // GitHub login
	Username       string     `gorm:"size:100" bson:"username" json:"username"`
	DisplayName    string     `gorm:"size:200" bson:"display_name" json:"display_name"`
	AvatarURL      string     `gorm:"size:500" bson:"avatar_url" json:"avatar_url"`
	Email          string     `gorm:"size:255" bson:"email" json:"email"`
	GlobalRole     string     `gorm:"size:20;default:user" bson:"global_role" json:"global_role"` // user, super_admin
	IsEventManager bool       `gorm:"default:false" bson:"is_event_manager" json:"is_event_manager"`
	LastLogin      *time.Time `bson:"last_login,omitempty" json:"last_login"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsSuperAdmin reports whether the user holds the platform-wide admin role.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.GlobalRole == GlobalRoleSuperAdmin
}

// UserSummary is the public projection used by user listings.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	GlobalRole     string `json:"global_role"`
	IsEventManager bool   `json:"is_event_manager"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		GlobalRole:     u.GlobalRole,
		IsEventManager: u.IsEventManager,
	}
}
