package handler

import (
	"strings"
	"time"

	"echoboard/internal/apperr"
	"echoboard/internal/auth"
	"echoboard/internal/mail"
	"echoboard/internal/model"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// PasswordHandler serves the restore-password flow.
type PasswordHandler struct {
	users       repository.UserRepositoryInterface
	tickets     repository.TicketRepositoryInterface
	mailer      mail.Sender
	frontendURL string
	now         func() time.Time
}

func NewPasswordHandler(
	users repository.UserRepositoryInterface,
	tickets repository.TicketRepositoryInterface,
	mailer mail.Sender,
	frontendURL string,
) *PasswordHandler {
	return &PasswordHandler{
		users:       users,
		tickets:     tickets,
		mailer:      mailer,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// WithClock replaces time.Now.
func (h *PasswordHandler) WithClock(now func() time.Time) *PasswordHandler {
	h.now = now
	return h
}

type RestorePasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// RequestReset godoc
// @Summary      Email a password reset link
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body RestorePasswordRequest true "Account email"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /restore-password [post]
func (h *PasswordHandler) RequestReset(c *gin.Context) {
	var req RestorePasswordRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, repository.ErrUserNotFound)
		return
	}

	ticket := model.NewPasswordResetTicket(user.Email, h.now())
	err = h.tickets.Issue(c.Request.Context(), ticket, func(t *model.PasswordResetTicket) error {
		if err := h.mailer.SendPasswordReset(t.UserEmail, h.ResetLink(t.Token)); err != nil {
			return apperr.Wrap(apperr.Upstream, "Could not send the password reset email", err)
		}
		return nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset email sent", nil)
}

// ResetLink is the frontend page that redeems token.
func (h *PasswordHandler) ResetLink(token string) string {
	return h.frontendURL + "/restore-password/" + token
}

// ResetPassword godoc
// @Summary      Redeem a reset token and set a new password
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        token path string true "Reset token"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /restore-password/{token} [post]
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bind(c, &req) {
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.tickets.Redeem(c.Request.Context(), c.Param("token"), hash, h.now()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password updated successfully", nil)
}
