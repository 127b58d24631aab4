package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email              string    `gorm:"uniqueIndex;not null"`
	FullName           string    `gorm:"not null"`
	HashedPassword     string    `gorm:"not null"`
	Phone              *string
	Country            string `gorm:"not null"`
	ProfilePictureURL  *string
	RandomProfileColor int       `gorm:"not null"`
	IsActive           bool      `gorm:"not null"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
