package catalog

import (
	"time"

	"github.com/google/uuid"
)

const (
	AreaTypeCore    = "core"
	AreaTypeNonCore = "non_core"
)

// GovernanceArea is a thematic grouping of indicators. Core areas count
// toward the N-of-M certification rule; non-core areas have their own
// minimum.
type GovernanceArea struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Code string `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name string `gorm:"column:name;not null" json:"name"`

	// core|non_core
	AreaType string `gorm:"column:area_type;not null;index" json:"area_type"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GovernanceArea) TableName() string { return "governance_area" }
