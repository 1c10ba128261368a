package assess

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is emitted for every transition attempt, successful or denied.
// Storage of the audit trail belongs to an external collaborator; the engine
// only guarantees emission.
type AuditEvent struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	ActorID      uuid.UUID `json:"actor_id"`
	Role         string    `json:"role"`
	Action       string    `json:"action"`
	FromState    string    `json:"from_state"`
	ToState      string    `json:"to_state,omitempty"`
	Allowed      bool      `json:"allowed"`
	DenialReason string    `json:"denial_reason,omitempty"`
	At           time.Time `json:"at"`
}

// VerdictEvent is emitted after every finalize-type transition for the
// notification subsystem. OverallVerdict is only set on terminal
// transitions.
type VerdictEvent struct {
	AssessmentID            uuid.UUID   `json:"assessment_id"`
	NewStatus               string      `json:"new_status"`
	GovernanceAreasAffected []uuid.UUID `json:"governance_areas_affected,omitempty"`
	OverallVerdict          string      `json:"overall_verdict,omitempty"`
	At                      time.Time   `json:"at"`
}
