package assess

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/data/repos/testutil"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
)

func TestValidationRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewValidationRecordRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	area := testutil.SeedGovernanceArea(t, dbc.Ctx, tx, "FA", "core")
	parent := testutil.SeedIndicator(t, dbc.Ctx, tx, area.ID, nil, "ALL_ITEMS_REQUIRED")
	sub := testutil.SeedIndicator(t, dbc.Ctx, tx, area.ID, &parent.ID, "ALL_ITEMS_REQUIRED")
	assessment := testutil.SeedAssessment(t, dbc.Ctx, tx, "IN_REVIEW")

	rec, err := repo.UpsertRecommendation(dbc, assessment.ID, sub.ID, "PASS")
	if err != nil {
		t.Fatalf("UpsertRecommendation: %v", err)
	}
	if rec.RecommendedStatus != "PASS" {
		t.Fatalf("UpsertRecommendation: unexpected record %+v", rec)
	}

	// Re-running the evaluator refreshes the recommendation in place and
	// must hand back the row that actually exists, not a discarded insert.
	refreshed, err := repo.UpsertRecommendation(dbc, assessment.ID, sub.ID, "FAIL")
	if err != nil {
		t.Fatalf("UpsertRecommendation (refresh): %v", err)
	}
	if refreshed.ID != rec.ID {
		t.Fatalf("UpsertRecommendation (refresh): expected existing row %s, got %s", rec.ID, refreshed.ID)
	}
	got, err := repo.GetByIndicator(dbc, assessment.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetByIndicator: %v", err)
	}
	if got == nil || got.RecommendedStatus != "FAIL" || got.ValidationStatus != nil {
		t.Fatalf("GetByIndicator: unexpected record %+v", got)
	}
	if got.ID != rec.ID {
		t.Fatalf("refresh must not allocate a new row: %s vs %s", got.ID, rec.ID)
	}

	validator := uuid.New()
	status := "PASS"
	n, err := repo.SetValidationStatus(dbc, assessment.ID, sub.ID, &status, &validator, time.Now().UTC())
	if err != nil {
		t.Fatalf("SetValidationStatus: %v", err)
	}
	if n != 1 {
		t.Fatalf("SetValidationStatus: expected 1 row, got %d", n)
	}

	got, err = repo.GetByIndicator(dbc, assessment.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetByIndicator (after set): %v", err)
	}
	if got.ValidationStatus == nil || *got.ValidationStatus != "PASS" {
		t.Fatalf("SetValidationStatus did not stick: %+v", got)
	}
	if got.Confirmed() != "PASS" {
		t.Fatalf("Confirmed: expected override to win, got %q", got.Confirmed())
	}

	// Reset reverts the confirmed status to the recommendation.
	n, err = repo.SetValidationStatus(dbc, assessment.ID, sub.ID, nil, nil, time.Now().UTC())
	if err != nil {
		t.Fatalf("SetValidationStatus (reset): %v", err)
	}
	if n != 1 {
		t.Fatalf("SetValidationStatus (reset): expected 1 row, got %d", n)
	}
	got, err = repo.GetByIndicator(dbc, assessment.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetByIndicator (after reset): %v", err)
	}
	if got.ValidationStatus != nil || got.ValidatedBy != nil || got.ValidatedAt != nil {
		t.Fatalf("reset must clear validator fields: %+v", got)
	}
	if got.Confirmed() != "FAIL" {
		t.Fatalf("Confirmed after reset: expected recommendation, got %q", got.Confirmed())
	}

	// Clearing by indicator set is the calibration path.
	status = "FAIL"
	if _, err := repo.SetValidationStatus(dbc, assessment.ID, sub.ID, &status, &validator, time.Now().UTC()); err != nil {
		t.Fatalf("SetValidationStatus (pre-clear): %v", err)
	}
	if err := repo.ClearValidationByAreaIndicators(dbc, assessment.ID, []uuid.UUID{sub.ID}); err != nil {
		t.Fatalf("ClearValidationByAreaIndicators: %v", err)
	}
	got, err = repo.GetByIndicator(dbc, assessment.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetByIndicator (after clear): %v", err)
	}
	if got.ValidationStatus != nil {
		t.Fatalf("clear must reset validator decision: %+v", got)
	}
}
