package repository

import (
	"context"
	"errors"
	"time"

	"echoboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketRepository struct {
	db *gorm.DB
}

type TicketRepositoryInterface interface {
	Issue(ctx context.Context, ticket *model.PasswordResetTicket, notify func(*model.PasswordResetTicket) error) error
	Redeem(ctx context.Context, token, hashedPassword string, now time.Time) error
}

var _ TicketRepositoryInterface = (*TicketRepository)(nil)

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Issue stores ticket and runs notify in the same transaction. Expired
// tickets of the same email are purged; live ones are left alone.
func (r *TicketRepository) Issue(ctx context.Context, ticket *model.PasswordResetTicket, notify func(*model.PasswordResetTicket) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_email = ? AND expires_at <= ?", ticket.UserEmail, ticket.CreatedAt).
			Delete(&model.PasswordResetTicket{}).Error; err != nil {
			return err
		}
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		if notify != nil {
			return notify(ticket)
		}
		return nil
	})
}

// Redeem replaces the password of the ticket's user and consumes the
// ticket. Unknown, expired and already used tokens all yield
// ErrInvalidResetTicket.
func (r *TicketRepository) Redeem(ctx context.Context, token, hashedPassword string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.PasswordResetTicket
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&ticket).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetTicket
		}
		if err != nil {
			return err
		}
		if !ticket.ValidAt(now) {
			return errExpiredResetTicket
		}

		updated := tx.Model(&model.User{}).
			Where("email = ?", ticket.UserEmail).
			Update("hashed_password", hashedPassword)
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			return ErrInvalidResetTicket
		}

		deleted := tx.Where("id = ?", ticket.ID).Delete(&model.PasswordResetTicket{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			return ErrInvalidResetTicket
		}
		return nil
	})
}
