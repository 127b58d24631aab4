package handler

import (
	"strings"

	"echoboard/internal/apperr"
	"echoboard/internal/model"
	"echoboard/internal/policy"
	"echoboard/internal/repository"
	"echoboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	projects repository.ProjectRepositoryInterface
	tasks    repository.TaskRepositoryInterface
}

func NewTaskHandler(projects repository.ProjectRepositoryInterface, tasks repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{projects: projects, tasks: tasks}
}

type CreateTaskRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
	AssignedToID *string `json:"assigned_to_id"`
}

// UpdateTaskRequest: an empty assigned_to_id clears the assignment.
type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	AssignedToID *string `json:"assigned_to_id"`
}

func parseTaskStatus(s string, def model.TaskStatus) (model.TaskStatus, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	status, ok := model.ParseTaskStatus(s)
	if !ok {
		return "", apperr.E(apperr.Validation, "Unknown task status: "+s)
	}
	return status, nil
}

// assignee validates raw as a new assignee of a task in p. A blank raw
// means no assignee.
func assignee(p *model.Project, actorID uuid.UUID, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.E(apperr.Validation, "Invalid assigned_to_id format")
	}
	if err := policy.CheckAssignment(p, actorID, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// projectFor loads the :id project and answers the request on failure.
func (h *TaskHandler) projectFor(c *gin.Context) (*model.Project, uuid.UUID, bool) {
	userID, ok := actor(c)
	if !ok {
		return nil, uuid.Nil, false
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return nil, uuid.Nil, false
	}
	project, err := loadProject(c.Request.Context(), h.projects, projectID)
	if err != nil {
		response.Error(c, err)
		return nil, uuid.Nil, false
	}
	return project, userID, true
}

// List godoc
// @Summary      Tasks of a project visible to the caller
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} map[string]any
// @Router       /project/{id}/task [get]
func (h *TaskHandler) List(c *gin.Context) {
	project, userID, ok := h.projectFor(c)
	if !ok {
		return
	}
	if err := policy.CanViewProject(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	tasks, err := h.tasks.GetByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"tasks": newTaskResponses(policy.VisibleTasks(project, tasks, userID))})
}

// Get godoc
// @Summary      One task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        task_id path string true "Task ID"
// @Success      200 {object} map[string]any
// @Failure      403 {object} map[string]any
// @Router       /project/{id}/task/{task_id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	project, userID, ok := h.projectFor(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), project.ID, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanViewTask(project, task, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"task": newTaskResponse(task)})
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Failure      403 {object} map[string]any
// @Router       /project/{id}/task [post]
func (h *TaskHandler) Create(c *gin.Context) {
	project, userID, ok := h.projectFor(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !bind(c, &req) {
		return
	}

	if err := policy.CanCreateTask(project, userID); err != nil {
		response.Error(c, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		response.Error(c, errBlankTitle)
		return
	}
	status, err := parseTaskStatus(req.Status, model.TaskInProgress)
	if err != nil {
		response.Error(c, err)
		return
	}

	task := &model.Task{
		Title:       title,
		Description: optional(req.Description),
		Status:      status,
		ProjectID:   project.ID,
		AuthorID:    userID,
	}
	if req.AssignedToID != nil {
		task.AssignedToID, err = assignee(project, userID, *req.AssignedToID)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.tasks.GetByID(c.Request.Context(), project.ID, task.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Task created", gin.H{"new_task": newTaskResponse(created)})
}

// Update godoc
// @Summary      Update a task (author or admin)
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        task_id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Changed fields"
// @Success      200 {object} map[string]any
// @Router       /project/{id}/task/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	project, userID, ok := h.projectFor(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !bind(c, &req) {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), project.ID, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanModifyTask(project, task, userID); err != nil {
		response.Error(c, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			response.Error(c, errBlankTitle)
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = optional(req.Description)
	}
	if req.Status != nil {
		task.Status, err = parseTaskStatus(*req.Status, task.Status)
		if err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.AssignedToID != nil {
		task.AssignedToID, err = assignee(project, userID, *req.AssignedToID)
		if err != nil {
			response.Error(c, err)
			return
		}
		task.Assignee = nil
	}

	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.tasks.GetByID(c.Request.Context(), project.ID, task.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Task updated", gin.H{"task": newTaskResponse(updated)})
}

// Delete godoc
// @Summary      Delete a task (author or admin)
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        task_id path string true "Task ID"
// @Success      200 {object} map[string]any
// @Router       /project/{id}/task/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	project, userID, ok := h.projectFor(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), project.ID, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := policy.CanModifyTask(project, task, userID); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), project.ID, taskID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Task deleted", nil)
}
