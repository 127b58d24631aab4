package repository

import (
	"context"
	"errors"

	"echoboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *model.Project, memberIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetAdministered(ctx context.Context, adminID uuid.UUID) ([]model.Project, error)
	GetMemberOf(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project and its initial memberships atomically.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, memberIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		for _, memberID := range memberIDs {
			m := model.Membership{ProjectID: project.ID, MemberID: memberID}
			if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
				return translate(err, ErrAlreadyMember)
			}
			project.Memberships = append(project.Memberships, m)
		}
		return nil
	})
}

// GetByID loads the project with its admin and members, or nil, nil.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Preload("Memberships.Member").
		Where("id = ?", id).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) GetAdministered(ctx context.Context, adminID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Preload("Memberships.Member").
		Where("admin_id = ?", adminID).
		Order("due_date").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) GetMemberOf(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Preload("Memberships.Member").
		Joins("JOIN memberships ON memberships.project_id = projects.id").
		Where("memberships.member_id = ?", userID).
		Order("projects.due_date").
		Find(&projects).Error
	return projects, err
}

// Update writes the editable columns; associations are never touched.
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Model(project).
		Omit(clause.Associations).
		Select("title", "description", "project_picture_url", "due_date", "status").
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes the project with its tasks and memberships.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}
