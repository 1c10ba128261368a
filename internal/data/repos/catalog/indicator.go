package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type IndicatorRepo interface {
	Create(dbc dbctx.Context, indicators []*types.Indicator) ([]*types.Indicator, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Indicator, error)
	ListActive(dbc dbctx.Context) ([]*types.Indicator, error)
	ListActiveByArea(dbc dbctx.Context, areaID uuid.UUID) ([]*types.Indicator, error)
	ListSubIndicators(dbc dbctx.Context, parentID uuid.UUID) ([]*types.Indicator, error)
	ListBBIByInstitution(dbc dbctx.Context, institutionID uuid.UUID) ([]*types.Indicator, error)
}

type indicatorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndicatorRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRepo {
	return &indicatorRepo{
		db:  db,
		log: baseLog.With("repo", "IndicatorRepo"),
	}
}

func (r *indicatorRepo) Create(dbc dbctx.Context, indicators []*types.Indicator) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(indicators) == 0 {
		return []*types.Indicator{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&indicators).Error; err != nil {
		return nil, err
	}
	return indicators, nil
}

func (r *indicatorRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Indicator
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *indicatorRepo) ListActive(dbc dbctx.Context) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Indicator
	if err := transaction.WithContext(dbc.Ctx).
		Where("active = ?", true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *indicatorRepo) ListActiveByArea(dbc dbctx.Context, areaID uuid.UUID) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Indicator
	if areaID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("governance_area_id = ? AND active = ?", areaID, true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *indicatorRepo) ListSubIndicators(dbc dbctx.Context, parentID uuid.UUID) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Indicator
	if parentID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("parent_id = ? AND active = ?", parentID, true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *indicatorRepo) ListBBIByInstitution(dbc dbctx.Context, institutionID uuid.UUID) ([]*types.Indicator, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Indicator
	if institutionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("institution_id = ? AND is_bbi = ? AND active = ?", institutionID, true, true).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
