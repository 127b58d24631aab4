package handler

import (
	"strings"
	"time"

	"echoboard/internal/apperr"
	"echoboard/internal/model"
	"echoboard/internal/policy"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects repository.ProjectRepositoryInterface
	users    repository.UserRepositoryInterface
	tasks    repository.TaskRepositoryInterface
}

func NewProjectHandler(
	projects repository.ProjectRepositoryInterface,
	users repository.UserRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
) *ProjectHandler {
	return &ProjectHandler{projects: projects, users: users, tasks: tasks}
}

type CreateProjectRequest struct {
	Title             string   `json:"title" binding:"required"`
	DueDate           string   `json:"due_date" binding:"required"`
	Description       *string  `json:"description"`
	ProjectPictureURL *string  `json:"project_picture_url"`
	Status            string   `json:"status"`
	Members           []string `json:"members"`
}

type UpdateProjectRequest struct {
	Title             *string `json:"title"`
	DueDate           *string `json:"due_date"`
	Description       *string `json:"description"`
	ProjectPictureURL *string `json:"project_picture_url"`
	Status            *string `json:"status"`
}

var errBlankTitle = apperr.E(apperr.Validation, "title must not be blank")

func parseDueDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.E(apperr.Validation, "due_date must use the YYYY-MM-DD format")
	}
	return d, nil
}

// parseProjectStatus applies the status rules: blank means def, anything
// outside the closed set is rejected.
func parseProjectStatus(s string, def model.ProjectStatus) (model.ProjectStatus, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	status, ok := model.ParseProjectStatus(s)
	if !ok {
		return "", apperr.E(apperr.Validation, "Unknown project status: "+s)
	}
	return status, nil
}

// Create godoc
// @Summary      Create a project, optionally with initial members
// @Tags         Projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project"
// @Success      201 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /project [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if !bind(c, &req) {
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		response.Error(c, errBlankTitle)
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := parseProjectStatus(req.Status, model.ProjectInProgress)
	if err != nil {
		response.Error(c, err)
		return
	}

	project := &model.Project{
		Title:       title,
		Description: optional(req.Description),
		PictureURL:  optional(req.ProjectPictureURL),
		DueDate:     dueDate,
		Status:      status,
		AdminID:     userID,
	}

	// Members are resolved before anything is written; one bad entry
	// aborts the whole creation.
	members, failures, err := resolveMembers(c.Request.Context(), h.users, project, req.Members)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(failures) > 0 {
		response.ErrorWith(c, failures[0].err, gin.H{"errors": failures})
		return
	}

	if err := h.projects.Create(c.Request.Context(), project, userIDs(members)); err != nil {
		response.Error(c, err)
		return
	}

	created, err := loadProject(c.Request.Context(), h.projects, project.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "ok", gin.H{"new_project": newProjectResponse(created)})
}

// List godoc
// @Summary      Projects the caller administers or belongs to
// @Tags         Projects
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}

	admin, err := h.projects.GetAdministered(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.projects.GetMemberOf(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	msg := "Projects retrieved successfully"
	if len(admin) == 0 && len(member) == 0 {
		msg = "No projects found for this user"
	}
	response.OK(c, msg, gin.H{
		"user_projects": gin.H{
			"admin":  newProjectResponses(admin),
			"member": newProjectResponses(member),
		},
	})
}

// Get godoc
// @Summary      Project with admin, members and visible tasks
// @Tags         Projects
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} map[string]any
// @Failure      403 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /project/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanViewProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	tasks, err := h.tasks.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "ok", gin.H{"project": ProjectDetailResponse{
		ProjectResponse: newProjectResponse(project),
		Tasks:           newTaskResponses(policy.VisibleTasks(project, tasks, userID)),
	}})
}

// Update godoc
// @Summary      Partially update a project (admin only)
// @Tags         Projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body UpdateProjectRequest true "Changed fields"
// @Success      200 {object} map[string]any
// @Router       /project/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if !bind(c, &req) {
		return
	}

	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanManageProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			response.Error(c, errBlankTitle)
			return
		}
		project.Title = title
	}
	if req.DueDate != nil {
		d, err := parseDueDate(*req.DueDate)
		if err != nil {
			response.Error(c, err)
			return
		}
		project.DueDate = d
	}
	if req.Description != nil {
		project.Description = optional(req.Description)
	}
	if req.ProjectPictureURL != nil {
		project.PictureURL = optional(req.ProjectPictureURL)
	}
	if req.Status != nil {
		status, err := parseProjectStatus(*req.Status, project.Status)
		if err != nil {
			response.Error(c, err)
			return
		}
		project.Status = status
	}

	if err := h.projects.Update(c.Request.Context(), project); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Project updated", gin.H{"project": newProjectResponse(project)})
}

// Delete godoc
// @Summary      Delete a project with its tasks and memberships (admin only)
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      200 {object} map[string]any
// @Router       /project/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanManageProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), projectID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Project deleted", nil)
}
