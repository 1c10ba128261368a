package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type ChecklistItemRepo interface {
	Create(dbc dbctx.Context, items []*types.ChecklistItem) ([]*types.ChecklistItem, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ChecklistItem, error)
	ListByIndicator(dbc dbctx.Context, indicatorID uuid.UUID) ([]*types.ChecklistItem, error)
	ListByIndicators(dbc dbctx.Context, indicatorIDs []uuid.UUID) ([]*types.ChecklistItem, error)
}

type checklistItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChecklistItemRepo(db *gorm.DB, baseLog *logger.Logger) ChecklistItemRepo {
	return &checklistItemRepo{
		db:  db,
		log: baseLog.With("repo", "ChecklistItemRepo"),
	}
}

func (r *checklistItemRepo) Create(dbc dbctx.Context, items []*types.ChecklistItem) ([]*types.ChecklistItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.ChecklistItem{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *checklistItemRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ChecklistItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChecklistItem
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

func (r *checklistItemRepo) ListByIndicator(dbc dbctx.Context, indicatorID uuid.UUID) ([]*types.ChecklistItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChecklistItem
	if indicatorID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("indicator_id = ?", indicatorID).
		Order("sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *checklistItemRepo) ListByIndicators(dbc dbctx.Context, indicatorIDs []uuid.UUID) ([]*types.ChecklistItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChecklistItem
	if len(indicatorIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("indicator_id IN ?", indicatorIDs).
		Order("indicator_id, sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
