package repository

import (
	"errors"

	"echoboard/internal/apperr"

	"gorm.io/gorm"
)

// Common repository errors
var (
	ErrUserNotFound       = apperr.E(apperr.NotFound, "User not found")
	ErrProjectNotFound    = apperr.E(apperr.NotFound, "Project not found")
	ErrTaskNotFound       = apperr.E(apperr.NotFound, "Task not found")
	ErrMemberNotFound     = apperr.E(apperr.NotFound, "User is not a member of this project")
	ErrEmailTaken         = apperr.E(apperr.Conflict, "A user with this email already exists")
	ErrAlreadyMember      = apperr.E(apperr.Conflict, "User is already a member of this project")
	ErrInvalidResetTicket = apperr.E(apperr.NotFound, "Invalid or expired token")

	// Answered like ErrInvalidResetTicket; the kind only tells logs apart.
	errExpiredResetTicket = apperr.E(apperr.Expired, ErrInvalidResetTicket.Msg)
)

// translate maps driver level unique violations onto conflict, given the
// domain error to use.
func translate(err error, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
