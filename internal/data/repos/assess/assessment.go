package assess

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	Create(dbc dbctx.Context, assessments []*types.Assessment) ([]*types.Assessment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error)
	GetByBarangayYear(dbc dbctx.Context, barangayID uuid.UUID, year int) (*types.Assessment, error)
	ListByStatus(dbc dbctx.Context, statuses []string) ([]*types.Assessment, error)
	UpdateFieldsByVersion(dbc dbctx.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}) (int64, error)
	SaveRollupSnapshot(dbc dbctx.Context, id uuid.UUID, snapshot datatypes.JSON) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{
		db:  db,
		log: baseLog.With("repo", "AssessmentRepo"),
	}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, assessments []*types.Assessment) ([]*types.Assessment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(assessments) == 0 {
		return []*types.Assessment{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var a types.Assessment
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

// GetByIDForUpdate locks the row for the duration of the surrounding
// transaction. Callers must pass a non-nil dbc.Tx.
func (r *assessmentRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var a types.Assessment
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

func (r *assessmentRepo) GetByBarangayYear(dbc dbctx.Context, barangayID uuid.UUID, year int) (*types.Assessment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if barangayID == uuid.Nil || year == 0 {
		return nil, nil
	}
	var a types.Assessment
	err := transaction.WithContext(dbc.Ctx).
		Where("barangay_id = ? AND year = ?", barangayID, year).
		Limit(1).
		Find(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

func (r *assessmentRepo) ListByStatus(dbc dbctx.Context, statuses []string) ([]*types.Assessment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Assessment
	if len(statuses) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("status IN ?", statuses).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFieldsByVersion applies updates only when the stored version still
// matches expectedVersion, and returns the number of rows touched. A zero
// return with no error means the compare-and-set lost.
func (r *assessmentRepo) UpdateFieldsByVersion(dbc dbctx.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Assessment{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SaveRollupSnapshot caches the latest compliance rollup on the row. The
// snapshot is advisory and deliberately not version-guarded: a newer rollup
// always supersedes an older one.
func (r *assessmentRepo) SaveRollupSnapshot(dbc dbctx.Context, id uuid.UUID, snapshot datatypes.JSON) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Assessment{}).
		Where("id = ?", id).
		Update("last_rollup", snapshot).Error
}
