package assess

import (
	"time"

	"github.com/google/uuid"
)

// ValidationRecord holds the evaluator's recommendation and the validator's
// confirmation for one sub-indicator of one assessment. A non-null
// ValidationStatus always wins over RecommendedStatus downstream; resetting
// it to null reverts aggregation to the recommendation.
type ValidationRecord struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_validation_unique,unique" json:"assessment_id"`
	IndicatorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_validation_unique,unique" json:"indicator_id"`

	// PASS, FAIL or NO_DATA, computed by the evaluator for the current
	// response snapshot.
	RecommendedStatus string `gorm:"column:recommended_status;not null" json:"recommended_status"`

	// PASS|FAIL, or null meaning pending/use recommendation.
	ValidationStatus *string `gorm:"column:validation_status" json:"validation_status,omitempty"`

	ValidatedBy *uuid.UUID `gorm:"type:uuid" json:"validated_by,omitempty"`
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ValidationRecord) TableName() string { return "validation_record" }

// Confirmed returns the status downstream aggregation must use: the
// validator's decision when present, the recommendation otherwise.
func (r *ValidationRecord) Confirmed() string {
	if r == nil {
		return ""
	}
	if r.ValidationStatus != nil && *r.ValidationStatus != "" {
		return *r.ValidationStatus
	}
	return r.RecommendedStatus
}
