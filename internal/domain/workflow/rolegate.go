package workflow

import "github.com/google/uuid"

// Target binds an action attempt to what it touches: the assessment's
// barangay and, for validation writes, the governance area of the
// sub-indicator.
type Target struct {
	BarangayID       uuid.UUID
	GovernanceAreaID *uuid.UUID
}

// roleActions maps each action to the single role that may invoke it. The
// gate is the one source of truth for enforcement; any role checks in a
// presentation layer are advisory only.
var roleActions = map[Action]Role{
	ActionSubmit:                 RoleBLGU,
	ActionResubmit:               RoleBLGU,
	ActionSubmitForCalibration:   RoleBLGU,
	ActionStartReview:            RoleAssessor,
	ActionSendForRework:          RoleAssessor,
	ActionFinalizeAssessorReview: RoleAssessor,
	ActionSetValidationStatus:    RoleValidator,
	ActionFinalizeValidation:     RoleValidator,
	ActionSendForCalibration:     RoleMLGOO,
	ActionApprove:                RoleMLGOO,
}

// CanPerform decides whether an actor may invoke an action given the current
// state and the target's scope. Every denial carries a distinguishable
// reason rather than a bare "forbidden".
func CanPerform(action Action, actor Actor, st State, target Target) error {
	want, known := roleActions[action]
	if !known || actor.Role != want {
		return &ScopeViolationError{Role: actor.Role, Action: action, Reason: "action reserved for role " + string(want)}
	}

	if !actionAllowed(st.Status, action) {
		return &InvalidTransitionError{Current: st.Status, Action: action, Allowed: AllowedActions(st.Status)}
	}

	switch actor.Role {
	case RoleBLGU:
		// BLGU users act only on their own barangay's assessment.
		if actor.BarangayID == nil || *actor.BarangayID != target.BarangayID {
			return &ScopeViolationError{Role: actor.Role, Action: action, Reason: "assessment belongs to another barangay"}
		}
	case RoleValidator:
		// Validators mutate only records under their assigned areas.
		if action == ActionSetValidationStatus {
			if target.GovernanceAreaID == nil {
				return &ScopeViolationError{Role: actor.Role, Action: action, Reason: "governance area not resolved for target sub-indicator"}
			}
			if !actor.HasArea(*target.GovernanceAreaID) {
				return &ScopeViolationError{Role: actor.Role, Action: action, Reason: "governance area outside assignment", AreaID: target.GovernanceAreaID}
			}
		}
	}

	// send_for_rework has a budget guard beyond state legality; surface it
	// here so callers get the specific denial before attempting the write.
	if action == ActionSendForRework && st.ReworkCount >= maxOrdinaryRework {
		return &ReworkBudgetExhaustedError{Count: st.ReworkCount}
	}

	return nil
}
