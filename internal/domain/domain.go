package domain

import (
	"github.com/barangaylink/sglgb-backend/internal/domain/assess"
	"github.com/barangaylink/sglgb-backend/internal/domain/catalog"
)

// Persistence models, re-exported so repos and services can import one
// package.

type Assessment = assess.Assessment
type ChecklistResponse = assess.ChecklistResponse
type ValidationRecord = assess.ValidationRecord
type AuditEvent = assess.AuditEvent
type VerdictEvent = assess.VerdictEvent

type GovernanceArea = catalog.GovernanceArea
type Institution = catalog.Institution
type Indicator = catalog.Indicator
type ChecklistItem = catalog.ChecklistItem

const (
	AreaTypeCore    = catalog.AreaTypeCore
	AreaTypeNonCore = catalog.AreaTypeNonCore

	ItemKindCheckbox = catalog.ItemKindCheckbox
	ItemKindCount    = catalog.ItemKindCount
	ItemKindYesNo    = catalog.ItemKindYesNo
	ItemKindNote     = catalog.ItemKindNote
)
