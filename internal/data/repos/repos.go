package repos

import (
	"github.com/barangaylink/sglgb-backend/internal/data/repos/assess"
	"github.com/barangaylink/sglgb-backend/internal/data/repos/catalog"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AssessmentRepo = assess.AssessmentRepo
type ChecklistResponseRepo = assess.ChecklistResponseRepo
type ValidationRecordRepo = assess.ValidationRecordRepo

type GovernanceAreaRepo = catalog.GovernanceAreaRepo
type InstitutionRepo = catalog.InstitutionRepo
type IndicatorRepo = catalog.IndicatorRepo
type ChecklistItemRepo = catalog.ChecklistItemRepo

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return assess.NewAssessmentRepo(db, baseLog)
}
func NewChecklistResponseRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistResponseRepo {
	return assess.NewChecklistResponseRepo(db, baseLog)
}
func NewValidationRecordRepo(db *gorm.DB, baseLog *logger.Logger) ValidationRecordRepo {
	return assess.NewValidationRecordRepo(db, baseLog)
}

func NewGovernanceAreaRepo(db *gorm.DB, baseLog *logger.Logger) GovernanceAreaRepo {
	return catalog.NewGovernanceAreaRepo(db, baseLog)
}
func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return catalog.NewInstitutionRepo(db, baseLog)
}
func NewIndicatorRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRepo {
	return catalog.NewIndicatorRepo(db, baseLog)
}
func NewChecklistItemRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistItemRepo {
	return catalog.NewChecklistItemRepo(db, baseLog)
}
