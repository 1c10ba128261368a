package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/barangaylink/sglgb-backend/internal/data/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/data/repos"
	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// AssessmentService owns the non-workflow lifecycle of assessment rows:
// opening one per barangay per year and serving reads. Status mutation goes
// through WorkflowService exclusively.
type AssessmentService interface {
	Create(ctx context.Context, barangayID uuid.UUID, year int) (*types.Assessment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Assessment, error)
	GetByBarangayYear(ctx context.Context, barangayID uuid.UUID, year int) (*types.Assessment, error)
	ListByStatus(ctx context.Context, statuses []string) ([]*types.Assessment, error)
}

type assessmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	assessments repos.AssessmentRepo
}

func NewAssessmentService(db *gorm.DB, baseLog *logger.Logger, assessments repos.AssessmentRepo) AssessmentService {
	return &assessmentService{
		db:          db,
		log:         baseLog.With("service", "AssessmentService"),
		assessments: assessments,
	}
}

func (s *assessmentService) Create(ctx context.Context, barangayID uuid.UUID, year int) (*types.Assessment, error) {
	if barangayID == uuid.Nil {
		return nil, dataagg.ValidationError("barangay id is required")
	}
	if year < 2000 || year > 2200 {
		return nil, dataagg.ValidationError(fmt.Sprintf("implausible assessment year %d", year))
	}
	row := &types.Assessment{
		BarangayID: barangayID,
		Year:       year,
		Status:     string(workflow.StatusDraft),
	}
	created, err := s.assessments.Create(dbctx.Context{Ctx: ctx}, []*types.Assessment{row})
	if err != nil {
		// The unique (barangay_id, year) index rejects a second open
		// assessment for the same cycle; MapError turns that into a conflict.
		return nil, dataagg.MapError("assessment_service.create", err)
	}
	s.log.Info("assessment opened", "assessment_id", created[0].ID, "barangay_id", barangayID, "year", year)
	return created[0], nil
}

func (s *assessmentService) Get(ctx context.Context, id uuid.UUID) (*types.Assessment, error) {
	if id == uuid.Nil {
		return nil, dataagg.ValidationError("assessment id is required")
	}
	row, err := s.assessments.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, dataagg.MapError("assessment_service.get", err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "assessment_service.get", fmt.Sprintf("assessment %s not found", id), nil)
	}
	return row, nil
}

func (s *assessmentService) GetByBarangayYear(ctx context.Context, barangayID uuid.UUID, year int) (*types.Assessment, error) {
	if barangayID == uuid.Nil {
		return nil, dataagg.ValidationError("barangay id is required")
	}
	row, err := s.assessments.GetByBarangayYear(dbctx.Context{Ctx: ctx}, barangayID, year)
	if err != nil {
		return nil, dataagg.MapError("assessment_service.get_by_barangay_year", err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "assessment_service.get_by_barangay_year", fmt.Sprintf("no assessment for barangay %s in %d", barangayID, year), nil)
	}
	return row, nil
}

func (s *assessmentService) ListByStatus(ctx context.Context, statuses []string) ([]*types.Assessment, error) {
	rows, err := s.assessments.ListByStatus(dbctx.Context{Ctx: ctx}, statuses)
	if err != nil {
		return nil, dataagg.MapError("assessment_service.list_by_status", err)
	}
	return rows, nil
}
