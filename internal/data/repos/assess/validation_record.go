package assess

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type ValidationRecordRepo interface {
	UpsertRecommendation(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, recommended string) (*types.ValidationRecord, error)
	SetValidationStatus(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, status *string, validatedBy *uuid.UUID, at time.Time) (int64, error)
	GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ValidationRecord, error)
	GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) (*types.ValidationRecord, error)
	ClearValidationByAreaIndicators(dbc dbctx.Context, assessmentID uuid.UUID, indicatorIDs []uuid.UUID) error
}

type validationRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValidationRecordRepo(db *gorm.DB, baseLog *logger.Logger) ValidationRecordRepo {
	return &validationRecordRepo{
		db:  db,
		log: baseLog.With("repo", "ValidationRecordRepo"),
	}
}

// UpsertRecommendation writes the evaluator's recommendation for one
// sub-indicator. Re-running the evaluator refreshes the recommendation but
// never touches an existing validator decision.
func (r *validationRecordRepo) UpsertRecommendation(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, recommended string) (*types.ValidationRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	rec := &types.ValidationRecord{
		ID:                uuid.New(),
		AssessmentID:      assessmentID,
		IndicatorID:       indicatorID,
		RecommendedStatus: recommended,
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "assessment_id"},
				{Name: "indicator_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"recommended_status", "updated_at"}),
		}).
		Create(rec).Error; err != nil {
		return nil, err
	}
	// The conflict path keeps the existing primary key, so re-read for the
	// canonical row.
	out, err := r.GetByIndicator(dbc, assessmentID, indicatorID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return rec, nil
	}
	return out, nil
}

// SetValidationStatus records the validator's decision, or resets it when
// status is nil. Returns the number of rows touched; zero means no record
// exists yet for the sub-indicator.
func (r *validationRecordRepo) SetValidationStatus(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, status *string, validatedBy *uuid.UUID, at time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{
		"validation_status": status,
		"validated_by":      validatedBy,
		"updated_at":        at,
	}
	if status == nil {
		updates["validated_at"] = nil
		updates["validated_by"] = nil
	} else {
		updates["validated_at"] = at
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ValidationRecord{}).
		Where("assessment_id = ? AND indicator_id = ?", assessmentID, indicatorID).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *validationRecordRepo) GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ValidationRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ValidationRecord
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

func (r *validationRecordRepo) GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) (*types.ValidationRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if assessmentID == uuid.Nil || indicatorID == uuid.Nil {
		return nil, nil
	}
	var rec types.ValidationRecord
	err := transaction.WithContext(dbc.Ctx).
		Where("assessment_id = ? AND indicator_id = ?", assessmentID, indicatorID).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		return nil, nil
	}
	return &rec, nil
}

// ClearValidationByAreaIndicators resets validator decisions for the given
// sub-indicators, used when a calibration round reopens their governance
// areas.
func (r *validationRecordRepo) ClearValidationByAreaIndicators(dbc dbctx.Context, assessmentID uuid.UUID, indicatorIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if assessmentID == uuid.Nil || len(indicatorIDs) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ValidationRecord{}).
		Where("assessment_id = ? AND indicator_id IN ?", assessmentID, indicatorIDs).
		Updates(map[string]interface{}{
			"validation_status": nil,
			"validated_by":      nil,
			"validated_at":      nil,
		}).Error
}
