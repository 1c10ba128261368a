package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Indicator is a hierarchical unit of assessment. Rows with a nil ParentID
// are top-level indicators; rows with a ParentID are sub-indicators carrying
// checklist items. Indicator definitions are administrator-owned
// configuration, versioned independently of assessments.
type Indicator struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent   *Indicator `gorm:"constraint:OnDelete:CASCADE;foreignKey:ParentID;references:ID" json:"parent,omitempty"`

	GovernanceAreaID uuid.UUID       `gorm:"type:uuid;not null;index" json:"governance_area_id"`
	GovernanceArea   *GovernanceArea `gorm:"constraint:OnDelete:RESTRICT;foreignKey:GovernanceAreaID;references:ID" json:"governance_area,omitempty"`

	Code string `gorm:"column:code;not null;index" json:"code"`
	Name string `gorm:"column:name;not null" json:"name"`

	// ALL_ITEMS_REQUIRED or ANY_ITEM_REQUIRED: how checklist items (for
	// sub-indicators) or sub-indicator verdicts (for indicators) combine.
	ValidationRule string `gorm:"column:validation_rule;not null" json:"validation_rule"`

	// IsBBI marks the indicator as contributing to an institution
	// functionality calculation.
	IsBBI         bool       `gorm:"column:is_bbi;not null;default:false;index" json:"is_bbi"`
	InstitutionID *uuid.UUID `gorm:"type:uuid;index" json:"institution_id,omitempty"`

	// ProfilingOnly indicators are collected for reporting and never count
	// toward governance-area pass/fail.
	ProfilingOnly bool `gorm:"column:profiling_only;not null;default:false" json:"profiling_only"`

	// Required controls whether the sub-indicator participates in its
	// parent's verdict.
	Required bool `gorm:"column:required;not null;default:true" json:"required"`

	Version int  `gorm:"column:version;not null;default:1" json:"version"`
	Active  bool `gorm:"column:active;not null;default:true;index" json:"active"`

	SortOrder int `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Indicator) TableName() string { return "indicator" }

const (
	ItemKindCheckbox = "checkbox"
	ItemKindCount    = "count"
	ItemKindYesNo    = "yes_no"
	// Informational items are displayed but never evaluated.
	ItemKindNote = "note"
)

// ChecklistItem is one entry in a sub-indicator's checklist schema.
type ChecklistItem struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	IndicatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"indicator_id"`
	Indicator   *Indicator `gorm:"constraint:OnDelete:CASCADE;foreignKey:IndicatorID;references:ID" json:"indicator,omitempty"`

	// checkbox|count|yes_no|note
	Kind  string `gorm:"column:kind;not null" json:"kind"`
	Label string `gorm:"column:label;not null" json:"label"`

	Required bool `gorm:"column:required;not null;default:true" json:"required"`

	// ExpectedYes sets the polarity a yes_no item must match to be satisfied.
	ExpectedYes bool `gorm:"column:expected_yes;not null;default:true" json:"expected_yes"`
	// MinCount is the satisfaction floor for count items.
	MinCount int `gorm:"column:min_count;not null;default:1" json:"min_count"`

	SortOrder int `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChecklistItem) TableName() string { return "checklist_item" }
