package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"echoboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, projectID, taskID uuid.UUID) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// GetByID retrieves a task of the given project
func (r *TaskRepository) GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		First(&task, "id = ? AND project_id = ?", taskID, projectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByProjectID retrieves all tasks of a project, newest first
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetForUser retrieves the tasks a user authored or is assigned to
func (r *TaskRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Where("author_id = ? OR assigned_to_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update writes the editable columns of a task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(task).
		Omit(clause.Associations).
		Select("title", "description", "status", "assigned_to_id").
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task of the given project
func (r *TaskRepository) Delete(ctx context.Context, projectID, taskID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ? AND project_id = ?", taskID, projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
