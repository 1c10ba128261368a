package app

import (
	"gorm.io/gorm"

	"github.com/barangaylink/sglgb-backend/internal/data/repos"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type Repos struct {
	Assessments repos.AssessmentRepo
	Responses   repos.ChecklistResponseRepo
	Validations repos.ValidationRecordRepo

	Areas        repos.GovernanceAreaRepo
	Institutions repos.InstitutionRepo
	Indicators   repos.IndicatorRepo
	Items        repos.ChecklistItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Assessments:  repos.NewAssessmentRepo(db, log),
		Responses:    repos.NewChecklistResponseRepo(db, log),
		Validations:  repos.NewValidationRecordRepo(db, log),
		Areas:        repos.NewGovernanceAreaRepo(db, log),
		Institutions: repos.NewInstitutionRepo(db, log),
		Indicators:   repos.NewIndicatorRepo(db, log),
		Items:        repos.NewChecklistItemRepo(db, log),
	}
}
