package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire format of Project.DueDate.
const DateLayout = "2006-01-02"

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description *string
	PictureURL  *string       `gorm:"column:project_picture_url"`
	DueDate     time.Time     `gorm:"type:date;not null"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null"`
	AdminID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time     `gorm:"autoCreateTime"`

	Admin       User         `gorm:"foreignKey:AdminID"`
	Memberships []Membership `gorm:"foreignKey:ProjectID"`
	Tasks       []Task       `gorm:"foreignKey:ProjectID"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether userID owns the project.
func (p *Project) IsAdmin(userID uuid.UUID) bool {
	return p.AdminID == userID
}

// HasMember reports whether userID has a membership row. Memberships must be loaded.
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.Memberships {
		if m.MemberID == userID {
			return true
		}
	}
	return false
}

// IsParticipant is IsAdmin or HasMember.
func (p *Project) IsParticipant(userID uuid.UUID) bool {
	return p.IsAdmin(userID) || p.HasMember(userID)
}
