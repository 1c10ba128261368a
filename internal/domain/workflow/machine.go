package workflow

import "github.com/google/uuid"

// Config carries the configurable workflow invariants. Both values come from
// the compliance policy file, never from constants in this package.
type Config struct {
	// MaxCalibrationRounds bounds calibration cycles per governance area.
	MaxCalibrationRounds int
	// RequireApproval routes finalize_validation through
	// AWAITING_MLGOO_APPROVAL instead of completing immediately.
	RequireApproval bool
}

// maxOrdinaryRework is the data invariant of §ordinary rework: one cycle,
// ever. Calibration rounds have their own configurable budget.
const maxOrdinaryRework = 1

// transitions lists which actions are legal from each status. Targets that
// depend on guards or configuration are resolved in Apply.
var transitions = map[Status][]Action{
	StatusDraft:                   {ActionSubmit},
	StatusSubmitted:               {ActionStartReview, ActionSendForRework, ActionFinalizeAssessorReview},
	StatusInReview:                {ActionSendForRework, ActionFinalizeAssessorReview, ActionSetValidationStatus},
	StatusRework:                  {ActionResubmit, ActionSubmitForCalibration},
	StatusAwaitingFinalValidation: {ActionSetValidationStatus, ActionFinalizeValidation, ActionSendForCalibration},
	StatusAwaitingMLGOOApproval:   {ActionApprove, ActionSendForCalibration},
	StatusCompleted:               {},
}

// AllowedActions returns the actions legal from a status, for denial
// messages and API discovery.
func AllowedActions(s Status) []Action {
	acts := transitions[s]
	out := make([]Action, len(acts))
	copy(out, acts)
	return out
}

func actionAllowed(s Status, a Action) bool {
	for _, act := range transitions[s] {
		if act == a {
			return true
		}
	}
	return false
}

// Apply computes the successor state for an action. It is pure: the caller
// owns persistence and concurrency. Guards are enforced here so that every
// writer, whatever its entry point, meets the same invariants.
func Apply(st State, action Action, scope []uuid.UUID, cfg Config) (State, error) {
	if !actionAllowed(st.Status, action) {
		return st, &InvalidTransitionError{Current: st.Status, Action: action, Allowed: AllowedActions(st.Status)}
	}

	next := st
	next.CalibrationScope = append([]uuid.UUID(nil), st.CalibrationScope...)
	next.CalibrationRounds = make(map[uuid.UUID]int, len(st.CalibrationRounds))
	for k, v := range st.CalibrationRounds {
		next.CalibrationRounds[k] = v
	}

	switch action {
	case ActionSubmit:
		next.Status = StatusSubmitted

	case ActionStartReview:
		next.Status = StatusInReview

	case ActionSendForRework:
		if st.ReworkCount >= maxOrdinaryRework {
			return st, &ReworkBudgetExhaustedError{Count: st.ReworkCount}
		}
		next.Status = StatusRework
		next.ReworkCount = st.ReworkCount + 1
		next.CalibrationScope = nil

	case ActionResubmit:
		if st.InCalibration() {
			// A calibration rework resolves through submit_for_calibration.
			return st, &InvalidTransitionError{Current: st.Status, Action: action, Allowed: []Action{ActionSubmitForCalibration}}
		}
		next.Status = StatusSubmitted

	case ActionFinalizeAssessorReview:
		next.Status = StatusAwaitingFinalValidation

	case ActionFinalizeValidation:
		if cfg.RequireApproval {
			next.Status = StatusAwaitingMLGOOApproval
		} else {
			next.Status = StatusCompleted
		}

	case ActionSendForCalibration:
		if len(scope) == 0 {
			return st, ErrCalibrationScopeRequired
		}
		max := cfg.MaxCalibrationRounds
		if max < 1 {
			max = 1
		}
		for _, areaID := range scope {
			if rounds := st.CalibrationRounds[areaID]; rounds >= max {
				return st, &CalibrationBudgetExhaustedError{AreaID: areaID, Rounds: rounds, Max: max}
			}
		}
		for _, areaID := range scope {
			next.CalibrationRounds[areaID]++
		}
		next.Status = StatusRework
		next.CalibrationScope = append([]uuid.UUID(nil), scope...)

	case ActionSubmitForCalibration:
		if !st.InCalibration() {
			// An ordinary rework resolves through resubmit.
			return st, &InvalidTransitionError{Current: st.Status, Action: action, Allowed: []Action{ActionResubmit}}
		}
		next.Status = StatusAwaitingFinalValidation
		next.CalibrationScope = nil

	case ActionApprove:
		next.Status = StatusCompleted

	case ActionSetValidationStatus:
		// Not a status transition; legality alone matters here.

	default:
		return st, &InvalidTransitionError{Current: st.Status, Action: action, Allowed: AllowedActions(st.Status)}
	}

	return next, nil
}
