package repository

import (
	"context"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleRepository account role lookups
type RoleRepository interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	FindRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error)
	Grant(ctx context.Context, userID, role string) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *roleRepository) FindRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var roles []domain.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("role ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		result[role.UserID] = append(result[role.UserID], role.Role)
	}
	return result, nil
}

// Grant adds a role; granting an existing role is a no-op
func (r *roleRepository) Grant(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.UserRole{UserID: userID, Role: role}).Error
}
