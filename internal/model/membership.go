package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership grants a non-admin user access to a project.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_project_member"`
	MemberID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_project_member;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Member User `gorm:"foreignKey:MemberID"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
