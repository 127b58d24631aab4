package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetTicketTTL is how long a password reset link stays redeemable.
const ResetTicketTTL = 2 * time.Hour

type PasswordResetTicket struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	UserEmail string    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (t *PasswordResetTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NewPasswordResetTicket issues a ticket with a fresh random token.
func NewPasswordResetTicket(email string, now time.Time) *PasswordResetTicket {
	return &PasswordResetTicket{
		Token:     uuid.NewString(),
		UserEmail: email,
		ExpiresAt: now.Add(ResetTicketTTL),
		CreatedAt: now,
	}
}

// ValidAt reports whether the ticket can still be redeemed at now.
func (t *PasswordResetTicket) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
