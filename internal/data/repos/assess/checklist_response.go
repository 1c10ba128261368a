package assess

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type ChecklistResponseRepo interface {
	Upsert(dbc dbctx.Context, responses []*types.ChecklistResponse) ([]*types.ChecklistResponse, error)
	GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ChecklistResponse, error)
	GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) ([]*types.ChecklistResponse, error)
	DeleteByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) error
}

type checklistResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistResponseRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistResponseRepo {
	return &checklistResponseRepo{
		db:  db,
		log: baseLog.With("repo", "ChecklistResponseRepo"),
	}
}

// Upsert writes responses keyed by (assessment, indicator, checklist item),
// overwriting the typed value columns on conflict. Saving the same answers
// twice leaves the table unchanged.
func (r *checklistResponseRepo) Upsert(dbc dbctx.Context, responses []*types.ChecklistResponse) ([]*types.ChecklistResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(responses) == 0 {
		return []*types.ChecklistResponse{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "assessment_id"},
				{Name: "indicator_id"},
				{Name: "checklist_item_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"checked", "count", "answer", "updated_at"}),
		}).
		Create(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *checklistResponseRepo) GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ChecklistResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChecklistResponse
	if assessmentID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("assessment_id = ?", assessmentID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *checklistResponseRepo) GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) ([]*types.ChecklistResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChecklistResponse
	if assessmentID == uuid.Nil || indicatorID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("assessment_id = ? AND indicator_id = ?", assessmentID, indicatorID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *checklistResponseRepo) DeleteByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if assessmentID == uuid.Nil || indicatorID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Where("assessment_id = ? AND indicator_id = ?", assessmentID, indicatorID).
		Delete(&types.ChecklistResponse{}).Error
}
