package migration

import (
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by the service
func Models() []interface{} {
	return []interface{}{
		&domain.Profile{},
		&domain.Message{},
		&domain.ProfileView{},
		&domain.UserRole{},
		&domain.AccountPreference{},
	}
}

// Run executes AutoMigrate for all tables. Existing tables only gain
// missing columns and indexes.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
