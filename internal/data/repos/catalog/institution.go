package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type InstitutionRepo interface {
	Create(dbc dbctx.Context, institutions []*types.Institution) ([]*types.Institution, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Institution, error)
	ListAll(dbc dbctx.Context) ([]*types.Institution, error)
}

type institutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return &institutionRepo{
		db:  db,
		log: baseLog.With("repo", "InstitutionRepo"),
	}
}

func (r *institutionRepo) Create(dbc dbctx.Context, institutions []*types.Institution) ([]*types.Institution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(institutions) == 0 {
		return []*types.Institution{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *institutionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Institution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Institution
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

func (r *institutionRepo) ListAll(dbc dbctx.Context) ([]*types.Institution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Institution
	if err := transaction.WithContext(dbc.Ctx).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
