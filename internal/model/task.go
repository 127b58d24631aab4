package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"not null"`
	Description  *string
	Status       TaskStatus `gorm:"type:varchar(20);not null"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`

	Author   User  `gorm:"foreignKey:AuthorID"`
	Assignee *User `gorm:"foreignKey:AssignedToID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
