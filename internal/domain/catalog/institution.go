package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Institution is a barangay-based institution (BBI) whose operational
// functionality is derived from the confirmed verdicts of its contributing
// indicators. Functionality thresholds are policy configuration keyed by
// institution code, never stored on the row.
type Institution struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Code string `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name string `gorm:"column:name;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Institution) TableName() string { return "institution" }
