package aggregates

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
)

func TestPendingValidationsAnchorsOnCatalog(t *testing.T) {
	parent := &types.Indicator{ID: uuid.New(), Required: true, Active: true}
	subDecided := &types.Indicator{ID: uuid.New(), ParentID: &parent.ID, Required: true, Active: true}
	subUndecided := &types.Indicator{ID: uuid.New(), ParentID: &parent.ID, Required: true, Active: true}
	// Never evaluated: no validation record exists for this one at all.
	subNeverEvaluated := &types.Indicator{ID: uuid.New(), ParentID: &parent.ID, Required: true, Active: true}

	inds := []*types.Indicator{parent, subDecided, subUndecided, subNeverEvaluated}
	records := []*types.ValidationRecord{
		{IndicatorID: subDecided.ID, RecommendedStatus: "PASS", ValidationStatus: strPtr("PASS")},
		{IndicatorID: subUndecided.ID, RecommendedStatus: "PASS"},
	}

	if got := pendingValidations(inds, records); got != 2 {
		t.Fatalf("expected 2 pending (undecided + never evaluated), got %d", got)
	}

	records = append(records, &types.ValidationRecord{IndicatorID: subUndecided.ID, ValidationStatus: strPtr("FAIL")})
	records = append(records, &types.ValidationRecord{IndicatorID: subNeverEvaluated.ID, ValidationStatus: strPtr("PASS")})
	if got := pendingValidations(inds, records); got != 0 {
		t.Fatalf("expected 0 pending once every sub-indicator is decided, got %d", got)
	}
}

func TestPendingValidationsSkipsUnscoredSubIndicators(t *testing.T) {
	scored := &types.Indicator{ID: uuid.New(), Required: true, Active: true}
	profiling := &types.Indicator{ID: uuid.New(), Required: true, Active: true, ProfilingOnly: true}

	inds := []*types.Indicator{
		scored,
		profiling,
		// Optional and inactive sub-indicators never block finalization.
		{ID: uuid.New(), ParentID: &scored.ID, Required: false, Active: true},
		{ID: uuid.New(), ParentID: &scored.ID, Required: true, Active: false},
		// Sub-indicators under a profiling-only parent are informational.
		{ID: uuid.New(), ParentID: &profiling.ID, Required: true, Active: true},
	}

	if got := pendingValidations(inds, nil); got != 0 {
		t.Fatalf("expected 0 pending, got %d", got)
	}
}
