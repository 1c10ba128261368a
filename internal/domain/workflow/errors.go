package workflow

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// InvalidTransitionError reports an action that is not legal from the
// current state, naming the actions that are.
type InvalidTransitionError struct {
	Current Status
	Action  Action
	Allowed []Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed from state %q (allowed: %v)", e.Action, e.Current, e.Allowed)
}

// ScopeViolationError reports an actor whose role or assignment does not
// cover the target.
type ScopeViolationError struct {
	Role   Role
	Action Action
	// Reason distinguishes wrong-role denials from out-of-scope denials.
	Reason string
	AreaID *uuid.UUID
}

func (e *ScopeViolationError) Error() string {
	if e.AreaID != nil {
		return fmt.Sprintf("role %q may not %s: %s (governance area %s)", e.Role, e.Action, e.Reason, e.AreaID)
	}
	return fmt.Sprintf("role %q may not %s: %s", e.Role, e.Action, e.Reason)
}

// ReworkBudgetExhaustedError reports an ordinary rework request after the
// single-cycle budget was spent.
type ReworkBudgetExhaustedError struct {
	Count int
}

func (e *ReworkBudgetExhaustedError) Error() string {
	return fmt.Sprintf("ordinary rework budget exhausted (%d cycle already used); finalize instead", e.Count)
}

// CalibrationBudgetExhaustedError reports a calibration request for an area
// whose configured round budget is spent.
type CalibrationBudgetExhaustedError struct {
	AreaID uuid.UUID
	Rounds int
	Max    int
}

func (e *CalibrationBudgetExhaustedError) Error() string {
	return fmt.Sprintf("calibration budget exhausted for governance area %s (%d of %d rounds used)", e.AreaID, e.Rounds, e.Max)
}

// IncompleteValidationError reports a finalize attempt while sub-indicators
// remain pending.
type IncompleteValidationError struct {
	Pending int
}

func (e *IncompleteValidationError) Error() string {
	return fmt.Sprintf("finalize rejected: %d sub-indicator(s) still pending validation", e.Pending)
}

// StaleStateError reports an optimistic-concurrency conflict. Callers should
// reload and retry once before surfacing it.
type StaleStateError struct {
	AssessmentID    uuid.UUID
	ExpectedVersion int
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("assessment %s changed concurrently (expected version %d)", e.AssessmentID, e.ExpectedVersion)
}

// ErrCalibrationScopeRequired rejects calibration requests without at least
// one governance area.
var ErrCalibrationScopeRequired = errors.New("calibration requires at least one governance area in scope")

// IsBusinessRejection reports whether err is an expected, user-facing
// workflow rejection rather than an infrastructure failure.
func IsBusinessRejection(err error) bool {
	var (
		it *InvalidTransitionError
		sv *ScopeViolationError
		rb *ReworkBudgetExhaustedError
		cb *CalibrationBudgetExhaustedError
		iv *IncompleteValidationError
	)
	return errors.As(err, &it) ||
		errors.As(err, &sv) ||
		errors.As(err, &rb) ||
		errors.As(err, &cb) ||
		errors.As(err, &iv) ||
		errors.Is(err, ErrCalibrationScopeRequired)
}
