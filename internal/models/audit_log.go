package models

import "time"

// AuditLog records a privileged write operation.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Module    string    `gorm:"size:100;index" bson:"module" json:"module"`
	Action    string    `gorm:"size:200;index" bson:"action" json:"action"`
	Message   string    `gorm:"type:text" bson:"message" json:"message"`
	UserID    string    `gorm:"size:36;index" bson:"user_id,omitempty" json:"user_id"`
	IP        string    `gorm:"size:50" bson:"ip" json:"ip"`
	UserAgent string    `gorm:"size:500" bson:"user_agent" json:"user_agent"`
	Status    int       `bson:"status" json:"status"`
	Extra     string    `gorm:"type:text" bson:"extra" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" bson:"created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
