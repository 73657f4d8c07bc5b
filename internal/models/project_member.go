package models

// ProjectMember is a denormalised lookup row (project_id, user_id) kept in
// sync with Project.Members on every save. It backs "projects of a user"
// queries on SQL backends where the roster itself is a JSON column.
type ProjectMember struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID string `gorm:"uniqueIndex:idx_project_user;size:36;not null" json:"project_id"`
	UserID    string `gorm:"uniqueIndex:idx_project_user;index;size:36;not null" json:"user_id"`
	Roles     string `gorm:"size:100" json:"roles"` // comma separated, informational
}

func (ProjectMember) TableName() string { return "project_members" }
