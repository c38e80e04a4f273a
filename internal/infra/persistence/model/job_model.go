package model

import (
	"time"

	"github.com/google/uuid"
)

// JobModel mirrors the 'videos' table. PostgreSQL generates UUIDs via
// gen_random_uuid(). Status transitions past 'pending' are written by the
// external job processor, never by this service.
type JobModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	VideoURL  string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(32);not null;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (JobModel) TableName() string {
	return "videos"
}
