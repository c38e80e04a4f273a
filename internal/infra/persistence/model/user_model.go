package model

import (
	"time"

	"github.com/google/uuid"
)

// UserIdentityModel mirrors the 'user_identities' table. The id is the
// identity provider's user id, so the database never generates it.
type UserIdentityModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Email        string    `gorm:"type:varchar(255)"`
	RefreshToken string    `gorm:"type:text;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserIdentityModel) TableName() string {
	return "user_identities"
}
