package repository

import (
	"context"
	"errors"

	"echoboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Register(ctx context.Context, user *model.User, welcome func(*model.User) error) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User) error
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Register inserts user and runs welcome inside the same transaction, so a
// failed welcome leaves no account behind. welcome may be nil.
func (r *UserRepository) Register(ctx context.Context, user *model.User, welcome func(*model.User) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return translate(err, ErrEmailTaken)
		}
		if welcome != nil {
			return welcome(user)
		}
		return nil
	})
}

// FindByEmail returns nil, nil when no user has this exact email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	var users []model.User
	if len(emails) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&users).Error
	return users, err
}

// GetByID returns nil, nil when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes the mutable profile columns and the password hash.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(user).
		Select("full_name", "phone", "country", "profile_picture_url", "hashed_password").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the account and everything hanging off it: administered
// projects with their tasks and memberships, the user's memberships and
// authored tasks, assignments to the user and pending reset tickets.
func (r *UserRepository) Delete(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projectIDs []uuid.UUID
		if err := tx.Model(&model.Project{}).Where("admin_id = ?", user.ID).Pluck("id", &projectIDs).Error; err != nil {
			return err
		}
		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&model.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&model.Membership{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", projectIDs).Delete(&model.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("member_id = ?", user.ID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("assigned_to_id = ?", user.ID).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_email = ?", user.Email).Delete(&model.PasswordResetTicket{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", user.ID).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
