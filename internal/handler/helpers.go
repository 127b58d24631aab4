package handler

import (
	"context"

	"echoboard/internal/apperr"
	"echoboard/internal/middleware"
	"echoboard/internal/model"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNotAuthenticated = apperr.E(apperr.Unauthenticated, "Not authenticated")

// actor returns the authenticated user id, answering 401 when it is missing.
func actor(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, errNotAuthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses a path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperr.E(apperr.Validation, "Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes the JSON body into req, answering 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperr.Wrap(apperr.Validation, "Invalid request body", err))
		return false
	}
	return true
}

// loadProject fetches a project with its admin and members.
func loadProject(ctx context.Context, projects repository.ProjectRepositoryInterface, id uuid.UUID) (*model.Project, error) {
	project, err := projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, repository.ErrProjectNotFound
	}
	return project, nil
}

// optional returns nil for blank strings.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
