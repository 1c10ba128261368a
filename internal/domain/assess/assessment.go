package assess

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment is one barangay's submission for one assessment year. It is
// never hard-deleted; every role action advances its status. Version is the
// optimistic-concurrency marker: every state-mutating write bumps it and is
// guarded by a compare-and-set on the previous value.
type Assessment struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	BarangayID uuid.UUID `gorm:"type:uuid;not null;index:idx_assessment_brgy_year,unique" json:"barangay_id"`
	Year       int       `gorm:"column:year;not null;index:idx_assessment_brgy_year,unique" json:"year"`

	// DRAFT|SUBMITTED|IN_REVIEW|REWORK|AWAITING_FINAL_VALIDATION|AWAITING_MLGOO_APPROVAL|COMPLETED
	Status  string `gorm:"column:status;not null;index" json:"status"`
	Version int    `gorm:"column:version;not null;default:0" json:"version"`

	// ReworkCount tracks the ordinary (assessor-triggered) rework cycle and
	// never exceeds 1. Calibration rounds are tracked separately per
	// governance area.
	ReworkCount int `gorm:"column:rework_count;not null;default:0" json:"rework_count"`

	// CalibrationScope holds the governance-area ids of the open calibration
	// request, when the assessment sits in a calibration-triggered REWORK.
	CalibrationScope datatypes.JSON `gorm:"column:calibration_scope;type:jsonb" json:"calibration_scope,omitempty"`
	// CalibrationRounds maps governance-area id -> completed rounds.
	CalibrationRounds datatypes.JSON `gorm:"column:calibration_rounds;type:jsonb" json:"calibration_rounds,omitempty"`

	// LastRollup caches the most recent compliance rollup, so calibration
	// resubmits can recompute only the reopened areas against it.
	LastRollup datatypes.JSON `gorm:"column:last_rollup;type:jsonb" json:"last_rollup,omitempty"`

	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assessment) TableName() string { return "assessment" }
