package handler

import (
	"math/rand/v2"
	"net/http"
	"strings"

	"echoboard/internal/apperr"
	"echoboard/internal/auth"
	"echoboard/internal/mail"
	"echoboard/internal/model"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenGenerator issues access tokens for a user id.
type TokenGenerator interface {
	GenerateToken(userID string) (string, error)
}

type UserHandler struct {
	users  repository.UserRepositoryInterface
	tokens TokenGenerator
	mailer mail.Sender
}

func NewUserHandler(users repository.UserRepositoryInterface, tokens TokenGenerator, mailer mail.Sender) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, mailer: mailer}
}

var errInvalidCredentials = apperr.E(apperr.Unauthenticated, "Invalid credentials")

type RegisterRequest struct {
	FullName          string  `json:"full_name" binding:"required,min=2"`
	Email             string  `json:"email" binding:"required,email"`
	Password          string  `json:"password" binding:"required,min=6"`
	Country           string  `json:"country" binding:"required"`
	Phone             *string `json:"phone"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Msg         string       `json:"msg"`
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	Phone             *string `json:"phone"`
	Country           *string `json:"country"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	CurrentPassword   string  `json:"current_password"`
	NewPassword       string  `json:"new_password" binding:"omitempty,min=6"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "New account"
// @Success      201 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Failure      409 {object} map[string]any
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" || strings.TrimSpace(req.Country) == "" {
		response.Error(c, apperr.E(apperr.Validation, "full_name and country must not be blank"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	user := &model.User{
		Email:              req.Email,
		FullName:           req.FullName,
		HashedPassword:     hash,
		Phone:              optional(req.Phone),
		Country:            strings.TrimSpace(req.Country),
		ProfilePictureURL:  optional(req.ProfilePictureURL),
		RandomProfileColor: rand.IntN(10),
		IsActive:           true,
	}

	err = h.users.Register(c.Request.Context(), user, func(u *model.User) error {
		if err := h.mailer.SendWelcome(u.Email, u.FullName); err != nil {
			return apperr.Wrap(apperr.Upstream, "Could not send the welcome email", err)
		}
		return nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "ok", gin.H{"new_user": newUserResponse(user)})
}

// Login godoc
// @Summary      Exchange credentials for an access token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} map[string]any
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		response.Error(c, errInvalidCredentials)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Msg:         "Login successful",
		AccessToken: token,
		User:        newUserResponse(user),
	})
}

// JWTCheck godoc
// @Summary      Check that the bearer token is still valid
// @Tags         Users
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /jwtcheck [get]
func (h *UserHandler) JWTCheck(c *gin.Context) {
	response.OK(c, "Token is valid", nil)
}

func (h *UserHandler) currentUser(c *gin.Context) (*model.User, bool) {
	userID, ok := actor(c)
	if !ok {
		return nil, false
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if user == nil {
		response.Error(c, repository.ErrUserNotFound)
		return nil, false
	}
	return user, true
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	response.OK(c, "ok", gin.H{"user": newUserResponse(user)})
}

// UpdateProfile godoc
// @Summary      Update profile fields and optionally the password
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Changed fields"
// @Success      200 {object} map[string]any
// @Failure      401 {object} map[string]any
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bind(c, &req) {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			response.Error(c, apperr.E(apperr.Validation, "full_name must not be blank"))
			return
		}
		user.FullName = name
	}
	if req.Country != nil {
		user.Country = strings.TrimSpace(*req.Country)
	}
	if req.Phone != nil {
		user.Phone = optional(req.Phone)
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = optional(req.ProfilePictureURL)
	}

	if req.NewPassword != "" {
		if !auth.CheckPassword(user.HashedPassword, req.CurrentPassword) {
			response.Error(c, apperr.E(apperr.Unauthenticated, "Current password is incorrect"))
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			response.Error(c, err)
			return
		}
		user.HashedPassword = hash
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile updated", gin.H{"user": newUserResponse(user)})
}

// DeleteUser godoc
// @Summary      Delete the current account and everything it owns
// @Tags         Users
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /user [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), user); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User deleted", nil)
}

// Lookup godoc
// @Summary      Find a user by exact email
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} map[string]any
// @Router       /user [get]
func (h *UserHandler) Lookup(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, apperr.E(apperr.Validation, "email query parameter is required"))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.OK(c, "User not found", gin.H{"found": false})
		return
	}
	response.OK(c, "ok", gin.H{"found": true, "user": newUserResponse(user)})
}
