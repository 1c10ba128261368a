package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	assessrepos "github.com/barangaylink/sglgb-backend/internal/data/repos/assess"
	catalogrepos "github.com/barangaylink/sglgb-backend/internal/data/repos/catalog"
	repotest "github.com/barangaylink/sglgb-backend/internal/data/repos/testutil"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
)

func TestAssessmentAggregateTransitionHappyPath(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	agg := NewAssessmentAggregate(AssessmentAggregateDeps{
		Base: BaseDeps{
			DB:       tx,
			Runner:   NewGormTxRunner(tx),
			CASGuard: NewCASGuard(tx),
		},
		Assessments: assessrepos.NewAssessmentRepo(tx, log),
		Validations: assessrepos.NewValidationRecordRepo(tx, log),
		Indicators:  catalogrepos.NewIndicatorRepo(tx, log),
		Workflow:    workflow.Config{MaxCalibrationRounds: 3, RequireApproval: true},
	})

	ctx := context.Background()
	row := repotest.SeedAssessment(t, ctx, tx, string(workflow.StatusDraft))
	blgu := workflow.Actor{UserID: uuid.New(), Role: workflow.RoleBLGU, BarangayID: &row.BarangayID}

	res, err := agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:    row.ID,
		ExpectedVersion: 0,
		Action:          workflow.ActionSubmit,
		Actor:           blgu,
		At:              time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Transition submit: %v", err)
	}
	if res.FromStatus != workflow.StatusDraft || res.ToStatus != workflow.StatusSubmitted {
		t.Fatalf("unexpected transition: %+v", res)
	}
	if res.Version != 1 {
		t.Fatalf("version: want=1 got=%d", res.Version)
	}

	repo := assessrepos.NewAssessmentRepo(tx, log)
	got, err := repo.GetByID(dbctx.Context{Ctx: ctx, Tx: tx}, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != string(workflow.StatusSubmitted) || got.Version != 1 {
		t.Fatalf("persisted row: %+v", got)
	}
	if got.SubmittedAt == nil {
		t.Fatalf("submitted_at should be set on submit")
	}
}

func TestAssessmentAggregateTransitionStaleVersion(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	agg := NewAssessmentAggregate(AssessmentAggregateDeps{
		Base: BaseDeps{
			DB:       tx,
			Runner:   NewGormTxRunner(tx),
			CASGuard: NewCASGuard(tx),
		},
		Assessments: assessrepos.NewAssessmentRepo(tx, log),
		Validations: assessrepos.NewValidationRecordRepo(tx, log),
		Indicators:  catalogrepos.NewIndicatorRepo(tx, log),
		Workflow:    workflow.Config{MaxCalibrationRounds: 3, RequireApproval: true},
	})

	ctx := context.Background()
	row := repotest.SeedAssessment(t, ctx, tx, string(workflow.StatusDraft))
	blgu := workflow.Actor{UserID: uuid.New(), Role: workflow.RoleBLGU, BarangayID: &row.BarangayID}

	_, err := agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:    row.ID,
		ExpectedVersion: 7,
		Action:          workflow.ActionSubmit,
		Actor:           blgu,
	})
	if err == nil {
		t.Fatalf("expected stale version rejection")
	}
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("want conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	var stale *workflow.StaleStateError
	if !errors.As(err, &stale) {
		t.Fatalf("want StaleStateError cause, got %v", err)
	}
}

func TestAssessmentAggregateFinalizeRequiresCompleteValidation(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	validations := assessrepos.NewValidationRecordRepo(tx, log)
	agg := NewAssessmentAggregate(AssessmentAggregateDeps{
		Base: BaseDeps{
			DB:       tx,
			Runner:   NewGormTxRunner(tx),
			CASGuard: NewCASGuard(tx),
		},
		Assessments: assessrepos.NewAssessmentRepo(tx, log),
		Validations: validations,
		Indicators:  catalogrepos.NewIndicatorRepo(tx, log),
		Workflow:    workflow.Config{MaxCalibrationRounds: 3, RequireApproval: true},
	})

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	area := repotest.SeedGovernanceArea(t, ctx, tx, "DP", "core")
	parent := repotest.SeedIndicator(t, ctx, tx, area.ID, nil, "ALL_ITEMS_REQUIRED")
	sub := repotest.SeedIndicator(t, ctx, tx, area.ID, &parent.ID, "ALL_ITEMS_REQUIRED")
	subLate := repotest.SeedIndicator(t, ctx, tx, area.ID, &parent.ID, "ALL_ITEMS_REQUIRED")
	row := repotest.SeedAssessment(t, ctx, tx, string(workflow.StatusAwaitingFinalValidation))
	// subLate deliberately gets no record: its responses were never
	// evaluated, and that must block finalization just like an undecided
	// record does.
	repotest.SeedValidationRecord(t, ctx, tx, row.ID, sub.ID, "PASS")

	validator := workflow.Actor{
		UserID:            uuid.New(),
		Role:              workflow.RoleValidator,
		GovernanceAreaIDs: []uuid.UUID{area.ID},
	}

	_, err := agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:    row.ID,
		ExpectedVersion: 0,
		Action:          workflow.ActionFinalizeValidation,
		Actor:           validator,
	})
	if err == nil {
		t.Fatalf("expected finalize to fail while validation pending")
	}
	var incomplete *workflow.IncompleteValidationError
	if !errors.As(err, &incomplete) || incomplete.Pending != 2 {
		t.Fatalf("want IncompleteValidationError(2), got %v", err)
	}

	// Confirm the existing record; the never-evaluated sub-indicator must
	// still hold finalization back.
	setRes, err := agg.SetValidationStatus(ctx, domainagg.SetValidationStatusInput{
		AssessmentID: row.ID,
		IndicatorID:  sub.ID,
		Status:       strPtr("PASS"),
		Actor:        validator,
	})
	if err != nil {
		t.Fatalf("SetValidationStatus: %v", err)
	}
	if setRes.ValidationStatus == nil || *setRes.ValidationStatus != "PASS" {
		t.Fatalf("unexpected set result: %+v", setRes)
	}

	_, err = agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:    row.ID,
		ExpectedVersion: 0,
		Action:          workflow.ActionFinalizeValidation,
		Actor:           validator,
	})
	if !errors.As(err, &incomplete) || incomplete.Pending != 1 {
		t.Fatalf("never-evaluated sub-indicator must block finalize, got %v", err)
	}

	// Evaluate and confirm the straggler, then finalize for real.
	if _, err := agg.RecordRecommendation(ctx, domainagg.RecordRecommendationInput{
		AssessmentID: row.ID,
		IndicatorID:  subLate.ID,
		Recommended:  "PASS",
	}); err != nil {
		t.Fatalf("RecordRecommendation: %v", err)
	}
	if _, err := agg.SetValidationStatus(ctx, domainagg.SetValidationStatusInput{
		AssessmentID: row.ID,
		IndicatorID:  subLate.ID,
		Status:       strPtr("PASS"),
		Actor:        validator,
	}); err != nil {
		t.Fatalf("SetValidationStatus (straggler): %v", err)
	}

	res, err := agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:    row.ID,
		ExpectedVersion: 0,
		Action:          workflow.ActionFinalizeValidation,
		Actor:           validator,
	})
	if err != nil {
		t.Fatalf("Transition finalize: %v", err)
	}
	if res.ToStatus != workflow.StatusAwaitingMLGOOApproval {
		t.Fatalf("finalize with approval policy: want=%s got=%s", workflow.StatusAwaitingMLGOOApproval, res.ToStatus)
	}

	rec, err := validations.GetByIndicator(dbc, row.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetByIndicator: %v", err)
	}
	if rec.ValidatedBy == nil || *rec.ValidatedBy != validator.UserID {
		t.Fatalf("validated_by should record the validator: %+v", rec)
	}
}

func TestAssessmentAggregateRecommendationFrozenAfterCompletion(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	agg := NewAssessmentAggregate(AssessmentAggregateDeps{
		Base: BaseDeps{
			DB:       tx,
			Runner:   NewGormTxRunner(tx),
			CASGuard: NewCASGuard(tx),
		},
		Assessments: assessrepos.NewAssessmentRepo(tx, log),
		Validations: assessrepos.NewValidationRecordRepo(tx, log),
		Indicators:  catalogrepos.NewIndicatorRepo(tx, log),
		Workflow:    workflow.Config{MaxCalibrationRounds: 3, RequireApproval: true},
	})

	ctx := context.Background()
	area := repotest.SeedGovernanceArea(t, ctx, tx, "DP", "core")
	parent := repotest.SeedIndicator(t, ctx, tx, area.ID, nil, "ALL_ITEMS_REQUIRED")
	sub := repotest.SeedIndicator(t, ctx, tx, area.ID, &parent.ID, "ALL_ITEMS_REQUIRED")
	row := repotest.SeedAssessment(t, ctx, tx, string(workflow.StatusCompleted))

	_, err := agg.RecordRecommendation(ctx, domainagg.RecordRecommendationInput{
		AssessmentID: row.ID,
		IndicatorID:  sub.ID,
		Recommended:  "PASS",
	})
	if err == nil {
		t.Fatalf("expected recommendation on a completed assessment to be rejected")
	}
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("want conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestAssessmentAggregateCalibrationClearsScopedValidations(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	validations := assessrepos.NewValidationRecordRepo(tx, log)
	agg := NewAssessmentAggregate(AssessmentAggregateDeps{
		Base: BaseDeps{
			DB:       tx,
			Runner:   NewGormTxRunner(tx),
			CASGuard: NewCASGuard(tx),
		},
		Assessments: assessrepos.NewAssessmentRepo(tx, log),
		Validations: validations,
		Indicators:  catalogrepos.NewIndicatorRepo(tx, log),
		Workflow:    workflow.Config{MaxCalibrationRounds: 3, RequireApproval: true},
	})

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	areaA := repotest.SeedGovernanceArea(t, ctx, tx, "FA", "core")
	areaB := repotest.SeedGovernanceArea(t, ctx, tx, "SP", "core")
	subA := repotest.SeedIndicator(t, ctx, tx, areaA.ID, nil, "ALL_ITEMS_REQUIRED")
	subB := repotest.SeedIndicator(t, ctx, tx, areaB.ID, nil, "ALL_ITEMS_REQUIRED")
	row := repotest.SeedAssessment(t, ctx, tx, string(workflow.StatusAwaitingFinalValidation))

	repotest.SeedValidationRecord(t, ctx, tx, row.ID, subA.ID, "FAIL")
	repotest.SeedValidationRecord(t, ctx, tx, row.ID, subB.ID, "PASS")
	status := "PASS"
	validatedBy := uuid.New()
	if _, err := validations.SetValidationStatus(dbc, row.ID, subA.ID, &status, &validatedBy, time.Now().UTC()); err != nil {
		t.Fatalf("pre-set validation: %v", err)
	}
	if _, err := validations.SetValidationStatus(dbc, row.ID, subB.ID, &status, &validatedBy, time.Now().UTC()); err != nil {
		t.Fatalf("pre-set validation: %v", err)
	}

	mlgoo := workflow.Actor{UserID: uuid.New(), Role: workflow.RoleMLGOO}
	res, err := agg.Transition(ctx, domainagg.TransitionAssessmentInput{
		AssessmentID:     row.ID,
		ExpectedVersion:  0,
		Action:           workflow.ActionSendForCalibration,
		Actor:            mlgoo,
		CalibrationScope: []uuid.UUID{areaA.ID},
	})
	if err != nil {
		t.Fatalf("Transition send_for_calibration: %v", err)
	}
	if res.ToStatus != workflow.StatusRework {
		t.Fatalf("calibration target: want=%s got=%s", workflow.StatusRework, res.ToStatus)
	}
	if len(res.CalibrationScope) != 1 || res.CalibrationScope[0] != areaA.ID {
		t.Fatalf("calibration scope not carried: %+v", res.CalibrationScope)
	}

	recA, err := validations.GetByIndicator(dbc, row.ID, subA.ID)
	if err != nil {
		t.Fatalf("GetByIndicator A: %v", err)
	}
	if recA.ValidationStatus != nil {
		t.Fatalf("scoped validation must reset: %+v", recA)
	}
	recB, err := validations.GetByIndicator(dbc, row.ID, subB.ID)
	if err != nil {
		t.Fatalf("GetByIndicator B: %v", err)
	}
	if recB.ValidationStatus == nil || *recB.ValidationStatus != "PASS" {
		t.Fatalf("out-of-scope validation must survive: %+v", recB)
	}
}

func strPtr(s string) *string { return &s }
