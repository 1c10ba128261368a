package db

import (
	"fmt"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog (indicator structure)
		// =========================
		&types.GovernanceArea{},
		&types.Institution{},
		&types.Indicator{},
		&types.ChecklistItem{},

		// =========================
		// Assessment cycle
		// =========================
		&types.Assessment{},
		&types.ChecklistResponse{},
		&types.ValidationRecord{},
	)
}

func EnsureAssessmentIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// Lookup of all responses for one sub-indicator during re-evaluation.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_checklist_response_indicator
		ON checklist_response(assessment_id, indicator_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_checklist_response_indicator: %w", err)
	}
	// Pending-validation scans during finalize.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_validation_record_pending
		ON validation_record(assessment_id)
		WHERE validation_status IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_validation_record_pending: %w", err)
	}
	return nil
}

func EnsureCatalogIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_indicator_bbi
		ON indicator(institution_id)
		WHERE institution_id IS NOT NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_indicator_bbi: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_checklist_item_indicator_order
		ON checklist_item(indicator_id, sort_order);
	`).Error; err != nil {
		return fmt.Errorf("create idx_checklist_item_indicator_order: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCatalogIndexes(s.db); err != nil {
		s.log.Error("Catalog index migration failed", "error", err)
		return err
	}
	if err := EnsureAssessmentIndexes(s.db); err != nil {
		s.log.Error("Assessment index migration failed", "error", err)
		return err
	}
	return nil
}
