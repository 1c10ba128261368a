package assess

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistResponse is the BLGU's answer to one checklist item of one
// sub-indicator within one assessment. Exactly one of the typed value fields
// is meaningful, matching the item's kind.
type ChecklistResponse struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	AssessmentID    uuid.UUID `gorm:"type:uuid;not null;index:idx_response_unique,unique" json:"assessment_id"`
	IndicatorID     uuid.UUID `gorm:"type:uuid;not null;index:idx_response_unique,unique" json:"indicator_id"`
	ChecklistItemID uuid.UUID `gorm:"type:uuid;not null;index:idx_response_unique,unique" json:"checklist_item_id"`

	Checked *bool   `gorm:"column:checked" json:"checked,omitempty"`
	Count   *int    `gorm:"column:count" json:"count,omitempty"`
	Answer  *string `gorm:"column:answer" json:"answer,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChecklistResponse) TableName() string { return "checklist_response" }
