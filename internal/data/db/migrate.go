package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/amrdb/internal/domain"
)

// AutoMigrateAll creates or alters every table, one model at a time so a
// failure names the table it stopped at.
func AutoMigrateAll(db *gorm.DB) error {
	for _, model := range types.Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrate %T: %w", model, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("schema migrated", "driver", s.driver, "tables", len(types.Models()))
	return nil
}
