package repository

import (
	"context"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

// CascadeResult counts rows removed by DeleteAccountCascade
type CascadeResult struct {
	Messages     int64 `json:"messages"`
	ProfileViews int64 `json:"profile_views"`
	Roles        int64 `json:"roles"`
	Preferences  int64 `json:"preferences"`
	Profiles     int64 `json:"profiles"`
}

// AccountRepository multi-table account operations
type AccountRepository interface {
	DeleteAccountCascade(ctx context.Context, userID string) (*CascadeResult, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// DeleteAccountCascade removes an account's messages (sent or received), the
// views of its profile, its roles, its preferences and its profile in one
// transaction. Running it for an already-deleted account deletes nothing.
func (r *accountRepository) DeleteAccountCascade(ctx context.Context, userID string) (*CascadeResult, error) {
	result := &CascadeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sender_user_id = ? OR receiver_id = ?", userID, userID).Delete(&domain.Message{})
		if res.Error != nil {
			return res.Error
		}
		result.Messages = res.RowsAffected

		res = tx.Where("profile_id IN (?)",
			tx.Model(&domain.Profile{}).Select("id").Where("user_id = ?", userID),
		).Delete(&domain.ProfileView{})
		if res.Error != nil {
			return res.Error
		}
		result.ProfileViews = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&domain.UserRole{})
		if res.Error != nil {
			return res.Error
		}
		result.Roles = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&domain.AccountPreference{})
		if res.Error != nil {
			return res.Error
		}
		result.Preferences = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&domain.Profile{})
		if res.Error != nil {
			return res.Error
		}
		result.Profiles = res.RowsAffected

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
