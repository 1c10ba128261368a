package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
)

var AssessmentAggregateContract = Contract{
	Name:             "Assess.AssessmentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns assessment status progression, rework/calibration counters, and validation record writes under one serialized transaction per assessment.",
}

// AssessmentAggregate owns every state-mutating write against one
// assessment. All methods serialize on the assessment row (SELECT ... FOR
// UPDATE) and guard status writes with a version compare-and-set; a lost CAS
// surfaces as CodeConflict carrying a workflow.StaleStateError cause so
// callers can retry once.
type AssessmentAggregate interface {
	Aggregate

	// Transition applies a workflow action atomically: machine guards,
	// rework/calibration bookkeeping, version bump.
	Transition(ctx context.Context, in TransitionAssessmentInput) (TransitionAssessmentResult, error)

	// SetValidationStatus confirms, overrides, or resets (nil status) the
	// validator decision for one sub-indicator.
	SetValidationStatus(ctx context.Context, in SetValidationStatusInput) (SetValidationStatusResult, error)

	// RecordRecommendation persists the evaluator's computed verdict for a
	// sub-indicator's current response snapshot.
	RecordRecommendation(ctx context.Context, in RecordRecommendationInput) (RecordRecommendationResult, error)
}

type TransitionAssessmentInput struct {
	AssessmentID    uuid.UUID
	ExpectedVersion int
	Action          workflow.Action
	Actor           workflow.Actor
	// CalibrationScope names the governance areas of a calibration request.
	CalibrationScope []uuid.UUID
	At               time.Time
}

type TransitionAssessmentResult struct {
	AssessmentID uuid.UUID
	FromStatus   workflow.Status
	ToStatus     workflow.Status
	Version      int
	ReworkCount  int
	// CalibrationScope echoes the scope now active on the assessment.
	CalibrationScope []uuid.UUID
	// AreasAffected names the governance areas a calibration action touched:
	// the scope being opened on send_for_calibration, the scope just closed
	// on submit_for_calibration. Empty for every other action.
	AreasAffected []uuid.UUID
	At            time.Time
}

type SetValidationStatusInput struct {
	AssessmentID uuid.UUID
	IndicatorID  uuid.UUID
	// Status is PASS or FAIL; nil resets the record to automatic
	// (use-recommendation) mode.
	Status *string
	Actor  workflow.Actor
	At     time.Time
}

type SetValidationStatusResult struct {
	RecordID          uuid.UUID
	RecommendedStatus string
	ValidationStatus  *string
	At                time.Time
}

type RecordRecommendationInput struct {
	AssessmentID uuid.UUID
	IndicatorID  uuid.UUID
	Recommended  string
	At           time.Time
}

type RecordRecommendationResult struct {
	RecordID    uuid.UUID
	Recommended string
	At          time.Time
}
