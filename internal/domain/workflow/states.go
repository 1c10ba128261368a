package workflow

import "github.com/google/uuid"

// Status is an assessment's lifecycle state.
type Status string

const (
	StatusDraft                   Status = "DRAFT"
	StatusSubmitted               Status = "SUBMITTED"
	StatusInReview                Status = "IN_REVIEW"
	StatusRework                  Status = "REWORK"
	StatusAwaitingFinalValidation Status = "AWAITING_FINAL_VALIDATION"
	StatusAwaitingMLGOOApproval   Status = "AWAITING_MLGOO_APPROVAL"
	// StatusCompleted is terminal: no action transitions out of it.
	StatusCompleted Status = "COMPLETED"
)

// Action is a role-scoped operation on an assessment.
type Action string

const (
	ActionSubmit                 Action = "submit"
	ActionStartReview            Action = "start_review"
	ActionSendForRework          Action = "send_for_rework"
	ActionResubmit               Action = "resubmit"
	ActionFinalizeAssessorReview Action = "finalize_assessor_review"
	ActionSetValidationStatus    Action = "set_validation_status"
	ActionFinalizeValidation     Action = "finalize_validation"
	ActionSendForCalibration     Action = "send_for_calibration"
	ActionSubmitForCalibration   Action = "submit_for_calibration"
	ActionApprove                Action = "approve"
)

// Role is the acting user's function in the assessment workflow.
type Role string

const (
	RoleBLGU      Role = "BLGU"
	RoleAssessor  Role = "ASSESSOR"
	RoleValidator Role = "VALIDATOR"
	RoleMLGOO     Role = "MLGOO"
)

// Actor is the resolved identity the role gate evaluates. Identity
// resolution is an external collaborator's job; the engine treats this as an
// opaque input.
type Actor struct {
	UserID     uuid.UUID
	Role       Role
	BarangayID *uuid.UUID
	// GovernanceAreaIDs is the validator's assignment scope. Empty for
	// roles without an area restriction.
	GovernanceAreaIDs []uuid.UUID
}

// HasArea reports whether the actor's assignment covers a governance area.
func (a Actor) HasArea(areaID uuid.UUID) bool {
	for _, id := range a.GovernanceAreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}

// State is the workflow-relevant slice of an assessment, independent of
// persistence.
type State struct {
	Status Status
	// ReworkCount is the ordinary rework cycle counter, bounded to 1.
	ReworkCount int
	// CalibrationScope is the governance-area scope of the open calibration
	// request, set while the assessment sits in a calibration REWORK.
	CalibrationScope []uuid.UUID
	// CalibrationRounds maps governance-area id -> completed calibration
	// rounds.
	CalibrationRounds map[uuid.UUID]int
}

// InCalibration reports whether the current REWORK was calibration-triggered.
func (s State) InCalibration() bool {
	return s.Status == StatusRework && len(s.CalibrationScope) > 0
}

// ValidationOpen reports whether validators may set or reset validation
// statuses in the current state.
func ValidationOpen(s Status) bool {
	return s == StatusInReview || s == StatusAwaitingFinalValidation
}
