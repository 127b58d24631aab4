package repository

import (
	"context"

	"echoboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

type MembershipRepositoryInterface interface {
	AddMembers(ctx context.Context, projectID uuid.UUID, memberIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error
}

var _ MembershipRepositoryInterface = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// AddMembers inserts all memberships in one transaction.
func (r *MembershipRepository) AddMembers(ctx context.Context, projectID uuid.UUID, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, memberID := range memberIDs {
			m := model.Membership{ProjectID: projectID, MemberID: memberID}
			if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
				return translate(err, ErrAlreadyMember)
			}
		}
		return nil
	})
}

// RemoveMember deletes the membership and clears the member's assignments
// in that project, so no task stays assigned to a non-member.
func (r *MembershipRepository) RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ? AND member_id = ?", projectID, memberID).Delete(&model.Membership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return tx.Model(&model.Task{}).
			Where("project_id = ? AND assigned_to_id = ?", projectID, memberID).
			Update("assigned_to_id", nil).Error
	})
}
