package handler

import (
	"echoboard/internal/ai"
	"echoboard/internal/apperr"
	"echoboard/internal/model"
	"echoboard/internal/policy"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AIHandler struct {
	gen      ai.Generator
	users    repository.UserRepositoryInterface
	projects repository.ProjectRepositoryInterface
	tasks    repository.TaskRepositoryInterface
}

func NewAIHandler(
	gen ai.Generator,
	users repository.UserRepositoryInterface,
	projects repository.ProjectRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
) *AIHandler {
	return &AIHandler{gen: gen, users: users, projects: projects, tasks: tasks}
}

type SuggestDescriptionRequest struct {
	Title     string  `json:"title" binding:"required"`
	ProjectID *string `json:"project_id"`
}

// SuggestDescription godoc
// @Summary      Draft a task description from its title
// @Tags         AI
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body SuggestDescriptionRequest true "Task title and optional project"
// @Success      200 {object} map[string]any
// @Failure      500 {object} map[string]any
// @Router       /ai/suggest-description [post]
func (h *AIHandler) SuggestDescription(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req SuggestDescriptionRequest
	if !bind(c, &req) {
		return
	}

	var project *model.Project
	if req.ProjectID != nil && *req.ProjectID != "" {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			response.Error(c, apperr.E(apperr.Validation, "Invalid project_id format"))
			return
		}
		project, err = loadProject(c.Request.Context(), h.projects, projectID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := policy.CanViewProject(project, userID); err != nil {
			response.Error(c, err)
			return
		}
	}

	suggestion, err := h.gen.Generate(c.Request.Context(), ai.DescriptionPrompt(req.Title, project))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"suggestion": suggestion})
}

// Standup godoc
// @Summary      Standup summary of the caller's open tasks
// @Tags         AI
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      500 {object} map[string]any
// @Router       /ai/standup [post]
func (h *AIHandler) Standup(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, repository.ErrUserNotFound)
		return
	}

	admin, err := h.projects.GetAdministered(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.projects.GetMemberOf(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	titles := make(map[string]string, len(admin)+len(member))
	for _, p := range append(admin, member...) {
		titles[p.ID.String()] = p.Title
	}

	tasks, err := h.tasks.GetForUser(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	open := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := titles[t.ProjectID.String()]; ok && t.Status != model.TaskDone {
			open = append(open, t)
		}
	}

	standup, err := h.gen.Generate(ctx, ai.StandupPrompt(user.FullName, open, titles))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"standup": standup})
}
