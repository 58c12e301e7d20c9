package db

import (
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running auto migration...")
	return AutoMigrateAll(s.db)
}
