package aggregates

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_StaleStateIsConflictWithTypedCause(t *testing.T) {
	cause := &workflow.StaleStateError{AssessmentID: uuid.New(), ExpectedVersion: 3}
	err := MapError("op", cause)
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	var stale *workflow.StaleStateError
	if !errors.As(err, &stale) || stale.ExpectedVersion != 3 {
		t.Fatalf("typed cause must survive mapping: %v", err)
	}
}

func TestMapError_WorkflowRejections(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{
			name: "invalid transition",
			in:   &workflow.InvalidTransitionError{Current: workflow.StatusCompleted, Action: workflow.ActionSubmit},
			want: domainagg.CodePreconditionFailed,
		},
		{
			name: "scope violation",
			in:   &workflow.ScopeViolationError{Role: workflow.RoleBLGU, Action: workflow.ActionApprove, Reason: "wrong role"},
			want: domainagg.CodeValidation,
		},
		{
			name: "rework budget",
			in:   &workflow.ReworkBudgetExhaustedError{Count: 1},
			want: domainagg.CodeInvariantViolation,
		},
		{
			name: "calibration budget",
			in:   &workflow.CalibrationBudgetExhaustedError{AreaID: uuid.New(), Rounds: 3, Max: 3},
			want: domainagg.CodeInvariantViolation,
		},
		{
			name: "incomplete validation",
			in:   &workflow.IncompleteValidationError{Pending: 2},
			want: domainagg.CodeInvariantViolation,
		},
		{
			name: "missing calibration scope",
			in:   workflow.ErrCalibrationScopeRequired,
			want: domainagg.CodeValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.in)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want code %q, got %q (%v)", tc.want, domainagg.CodeOf(err), err)
			}
		})
	}
}
