package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type GovernanceAreaRepo interface {
	Create(dbc dbctx.Context, areas []*types.GovernanceArea) ([]*types.GovernanceArea, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.GovernanceArea, error)
	GetByCode(dbc dbctx.Context, code string) (*types.GovernanceArea, error)
	ListAll(dbc dbctx.Context) ([]*types.GovernanceArea, error)
}

type governanceAreaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGovernanceAreaRepo(db *gorm.DB, baseLog *logger.Logger) GovernanceAreaRepo {
	return &governanceAreaRepo{
		db:  db,
		log: baseLog.With("repo", "GovernanceAreaRepo"),
	}
}

func (r *governanceAreaRepo) Create(dbc dbctx.Context, areas []*types.GovernanceArea) ([]*types.GovernanceArea, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(areas) == 0 {
		return []*types.GovernanceArea{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *governanceAreaRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.GovernanceArea, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GovernanceArea
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

func (r *governanceAreaRepo) GetByCode(dbc dbctx.Context, code string) (*types.GovernanceArea, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if code == "" {
		return nil, nil
	}
	var area types.GovernanceArea
	err := transaction.WithContext(dbc.Ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&area).Error
	if err != nil {
		return nil, err
	}
	if area.ID == uuid.Nil {
		return nil, nil
	}
	return &area, nil
}

func (r *governanceAreaRepo) ListAll(dbc dbctx.Context) ([]*types.GovernanceArea, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GovernanceArea
	if err := transaction.WithContext(dbc.Ctx).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
