package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/barangaylink/sglgb-backend/internal/data/repos"
	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/compliance"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
)

type AssessmentAggregateDeps struct {
	Base BaseDeps

	Assessments repos.AssessmentRepo
	Validations repos.ValidationRecordRepo
	Indicators  repos.IndicatorRepo

	// Workflow carries the policy-derived invariants (calibration budget,
	// approval routing).
	Workflow workflow.Config
}

type assessmentAggregate struct {
	deps AssessmentAggregateDeps
}

func NewAssessmentAggregate(deps AssessmentAggregateDeps) domainagg.AssessmentAggregate {
	deps.Base = deps.Base.withDefaults()
	return &assessmentAggregate{deps: deps}
}

func (a *assessmentAggregate) Contract() domainagg.Contract {
	return domainagg.AssessmentAggregateContract
}

func (a *assessmentAggregate) Transition(ctx context.Context, in domainagg.TransitionAssessmentInput) (domainagg.TransitionAssessmentResult, error) {
	const op = "Assess.Assessment.Transition"
	var out domainagg.TransitionAssessmentResult
	if in.AssessmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing assessment_id", nil)
	}
	if strings.TrimSpace(string(in.Action)) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing action", nil)
	}
	if a.deps.Assessments == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment aggregate repos not configured", nil)
	}

	at := in.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Assessments.GetByIDForUpdate(dbc, in.AssessmentID)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("assessment not found: %s", in.AssessmentID), nil)
		}
		if in.ExpectedVersion >= 0 && row.Version != in.ExpectedVersion {
			return &workflow.StaleStateError{AssessmentID: row.ID, ExpectedVersion: in.ExpectedVersion}
		}

		st, err := stateFromRow(row)
		if err != nil {
			return err
		}

		if err := workflow.CanPerform(in.Action, in.Actor, st, workflow.Target{BarangayID: row.BarangayID}); err != nil {
			return err
		}

		next, err := workflow.Apply(st, in.Action, in.CalibrationScope, a.deps.Workflow)
		if err != nil {
			return err
		}

		// finalize_validation demands a decided status on every scored
		// sub-indicator in the catalog; approval inherits the guarantee.
		// Counting is anchored on the catalog, not on existing records: a
		// sub-indicator whose responses were never evaluated has no record
		// at all and is just as pending as an undecided one.
		if in.Action == workflow.ActionFinalizeValidation {
			if a.deps.Validations == nil || a.deps.Indicators == nil {
				return domainagg.NewError(domainagg.CodeInternal, op, "assessment aggregate repos not configured", nil)
			}
			inds, err := a.deps.Indicators.ListActive(dbc)
			if err != nil {
				return err
			}
			records, err := a.deps.Validations.GetByAssessment(dbc, row.ID)
			if err != nil {
				return err
			}
			if pending := pendingValidations(inds, records); pending > 0 {
				return &workflow.IncompleteValidationError{Pending: pending}
			}
		}

		scopeJSON, roundsJSON, err := calibrationJSON(next)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"status":             string(next.Status),
			"version":            row.Version + 1,
			"rework_count":       next.ReworkCount,
			"calibration_scope":  scopeJSON,
			"calibration_rounds": roundsJSON,
			"updated_at":         at,
		}
		switch in.Action {
		case workflow.ActionSubmit, workflow.ActionResubmit, workflow.ActionSubmitForCalibration:
			updates["submitted_at"] = at
		}
		if next.Status == workflow.StatusCompleted {
			updates["completed_at"] = at
		}

		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, "assessment", row.ID, row.Version, updates)
		if err != nil {
			return err
		}
		if !ok {
			return &workflow.StaleStateError{AssessmentID: row.ID, ExpectedVersion: row.Version}
		}

		// A calibration round reopens its areas: validator decisions on
		// their sub-indicators revert to pending.
		if in.Action == workflow.ActionSendForCalibration {
			if err := a.clearScopedValidations(dbc, row.ID, in.CalibrationScope); err != nil {
				return err
			}
		}

		// Calibration resubmits clear the scope from the successor state,
		// so the reopened areas are taken from the state being left.
		var areasAffected []uuid.UUID
		switch in.Action {
		case workflow.ActionSendForCalibration:
			areasAffected = append([]uuid.UUID(nil), next.CalibrationScope...)
		case workflow.ActionSubmitForCalibration:
			areasAffected = append([]uuid.UUID(nil), st.CalibrationScope...)
		}

		out = domainagg.TransitionAssessmentResult{
			AssessmentID:     row.ID,
			FromStatus:       st.Status,
			ToStatus:         next.Status,
			Version:          row.Version + 1,
			ReworkCount:      next.ReworkCount,
			CalibrationScope: append([]uuid.UUID(nil), next.CalibrationScope...),
			AreasAffected:    areasAffected,
			At:               at,
		}
		return nil
	})
	return out, err
}

func (a *assessmentAggregate) SetValidationStatus(ctx context.Context, in domainagg.SetValidationStatusInput) (domainagg.SetValidationStatusResult, error) {
	const op = "Assess.Assessment.SetValidationStatus"
	var out domainagg.SetValidationStatusResult
	if in.AssessmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing assessment_id", nil)
	}
	if in.IndicatorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing indicator_id", nil)
	}
	if in.Status != nil {
		switch compliance.Verdict(strings.TrimSpace(*in.Status)) {
		case compliance.VerdictPass, compliance.VerdictFail:
		default:
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("validation status must be PASS or FAIL, got %q", *in.Status), nil)
		}
	}
	if a.deps.Assessments == nil || a.deps.Validations == nil || a.deps.Indicators == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment aggregate repos not configured", nil)
	}

	at := in.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Assessments.GetByIDForUpdate(dbc, in.AssessmentID)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("assessment not found: %s", in.AssessmentID), nil)
		}

		st, err := stateFromRow(row)
		if err != nil {
			return err
		}

		inds, err := a.deps.Indicators.GetByIDs(dbc, []uuid.UUID{in.IndicatorID})
		if err != nil {
			return err
		}
		if len(inds) == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("indicator not found: %s", in.IndicatorID), nil)
		}
		areaID := inds[0].GovernanceAreaID

		if err := workflow.CanPerform(workflow.ActionSetValidationStatus, in.Actor, st, workflow.Target{
			BarangayID:       row.BarangayID,
			GovernanceAreaID: &areaID,
		}); err != nil {
			return err
		}

		var validatedBy *uuid.UUID
		if in.Status != nil && in.Actor.UserID != uuid.Nil {
			id := in.Actor.UserID
			validatedBy = &id
		}
		n, err := a.deps.Validations.SetValidationStatus(dbc, in.AssessmentID, in.IndicatorID, in.Status, validatedBy, at)
		if err != nil {
			return err
		}
		if n == 0 {
			return domainagg.NewError(domainagg.CodeNotFound, op, "no validation record for sub-indicator; responses were never evaluated", nil)
		}

		rec, err := a.deps.Validations.GetByIndicator(dbc, in.AssessmentID, in.IndicatorID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domainagg.NewError(domainagg.CodeInternal, op, "validation record vanished mid-transaction", nil)
		}

		out = domainagg.SetValidationStatusResult{
			RecordID:          rec.ID,
			RecommendedStatus: rec.RecommendedStatus,
			ValidationStatus:  rec.ValidationStatus,
			At:                at,
		}
		return nil
	})
	return out, err
}

func (a *assessmentAggregate) RecordRecommendation(ctx context.Context, in domainagg.RecordRecommendationInput) (domainagg.RecordRecommendationResult, error) {
	const op = "Assess.Assessment.RecordRecommendation"
	var out domainagg.RecordRecommendationResult
	if in.AssessmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing assessment_id", nil)
	}
	if in.IndicatorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing indicator_id", nil)
	}
	switch compliance.Verdict(strings.TrimSpace(in.Recommended)) {
	case compliance.VerdictPass, compliance.VerdictFail, compliance.VerdictNoData:
	default:
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("recommendation must be PASS, FAIL or NO_DATA, got %q", in.Recommended), nil)
	}
	if a.deps.Validations == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "assessment aggregate repos not configured", nil)
	}

	at := in.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// The status guard doubles as the row lock: touching updated_at
		// under the IN clause serializes against a concurrent transition
		// and rejects assessments past final validation.
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "assessment", in.AssessmentID, recommendationOpenStatuses, map[string]any{"updated_at": at})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "assessment is closed to recommendation changes"); err != nil {
			return err
		}

		rec, err := a.deps.Validations.UpsertRecommendation(dbc, in.AssessmentID, in.IndicatorID, strings.TrimSpace(in.Recommended))
		if err != nil {
			return err
		}
		out = domainagg.RecordRecommendationResult{
			RecordID:    rec.ID,
			Recommended: rec.RecommendedStatus,
			At:          at,
		}
		return nil
	})
	return out, err
}

// recommendationOpenStatuses are the statuses during which evaluator
// recommendations may still change. Approval routing and completion freeze
// them.
var recommendationOpenStatuses = []string{
	string(workflow.StatusDraft),
	string(workflow.StatusSubmitted),
	string(workflow.StatusInReview),
	string(workflow.StatusRework),
	string(workflow.StatusAwaitingFinalValidation),
}

// pendingValidations counts the sub-indicators finalize_validation still
// waits on. Every active, required sub-indicator of a scored parent must
// carry a validator decision; sub-indicators of profiling-only parents are
// never scored.
func pendingValidations(inds []*types.Indicator, records []*types.ValidationRecord) int {
	profiling := make(map[uuid.UUID]bool)
	for _, ind := range inds {
		if ind.ParentID == nil && ind.ProfilingOnly {
			profiling[ind.ID] = true
		}
	}
	decided := make(map[uuid.UUID]bool, len(records))
	for _, rec := range records {
		if rec.ValidationStatus != nil {
			decided[rec.IndicatorID] = true
		}
	}
	pending := 0
	for _, ind := range inds {
		if ind.ParentID == nil || !ind.Required || !ind.Active {
			continue
		}
		if profiling[*ind.ParentID] {
			continue
		}
		if !decided[ind.ID] {
			pending++
		}
	}
	return pending
}

func (a *assessmentAggregate) clearScopedValidations(dbc dbctx.Context, assessmentID uuid.UUID, scope []uuid.UUID) error {
	if a.deps.Indicators == nil || a.deps.Validations == nil {
		return nil
	}
	var indicatorIDs []uuid.UUID
	for _, areaID := range scope {
		inds, err := a.deps.Indicators.ListActiveByArea(dbc, areaID)
		if err != nil {
			return err
		}
		for _, ind := range inds {
			indicatorIDs = append(indicatorIDs, ind.ID)
		}
	}
	return a.deps.Validations.ClearValidationByAreaIndicators(dbc, assessmentID, indicatorIDs)
}

// stateFromRow rebuilds the pure workflow state from the persisted columns.
func stateFromRow(row *types.Assessment) (workflow.State, error) {
	st := workflow.State{
		Status:            workflow.Status(row.Status),
		ReworkCount:       row.ReworkCount,
		CalibrationRounds: map[uuid.UUID]int{},
	}
	if len(row.CalibrationScope) > 0 {
		if err := json.Unmarshal(row.CalibrationScope, &st.CalibrationScope); err != nil {
			return st, InvariantError("calibration_scope column is not a uuid list: " + err.Error())
		}
	}
	if len(row.CalibrationRounds) > 0 {
		if err := json.Unmarshal(row.CalibrationRounds, &st.CalibrationRounds); err != nil {
			return st, InvariantError("calibration_rounds column is not a uuid->int map: " + err.Error())
		}
	}
	return st, nil
}

// calibrationJSON serializes the successor state's calibration bookkeeping
// for the status write.
func calibrationJSON(next workflow.State) (datatypes.JSON, datatypes.JSON, error) {
	var scopeJSON datatypes.JSON
	if len(next.CalibrationScope) > 0 {
		b, err := json.Marshal(next.CalibrationScope)
		if err != nil {
			return nil, nil, err
		}
		scopeJSON = datatypes.JSON(b)
	} else {
		scopeJSON = datatypes.JSON([]byte("[]"))
	}
	rounds := next.CalibrationRounds
	if rounds == nil {
		rounds = map[uuid.UUID]int{}
	}
	b, err := json.Marshal(rounds)
	if err != nil {
		return nil, nil, err
	}
	return scopeJSON, datatypes.JSON(b), nil
}
