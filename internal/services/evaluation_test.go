package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/compliance"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
)

type evaluationFixture struct {
	svc        EvaluationService
	aggregate  *fakeAssessmentAggregate
	assessment *types.Assessment
	indicator  *types.Indicator
	items      []*types.ChecklistItem
	actor      workflow.Actor
}

// newEvaluationFixture builds a DRAFT assessment with one sub-indicator
// carrying a checkbox, a count, and an informational note item.
func newEvaluationFixture(t *testing.T, status string) *evaluationFixture {
	t.Helper()

	barangayID := uuid.New()
	areaID := uuid.New()
	parentID := uuid.New()

	assessment := &types.Assessment{
		ID:         uuid.New(),
		BarangayID: barangayID,
		Year:       2026,
		Status:     status,
	}
	indicator := &types.Indicator{
		ID:               uuid.New(),
		ParentID:         &parentID,
		GovernanceAreaID: areaID,
		Code:             "1.1.1",
		ValidationRule:   string(compliance.RuleAllItemsRequired),
		Required:         true,
		Active:           true,
	}
	items := []*types.ChecklistItem{
		{ID: uuid.New(), IndicatorID: indicator.ID, Kind: types.ItemKindCheckbox, Required: true},
		{ID: uuid.New(), IndicatorID: indicator.ID, Kind: types.ItemKindCount, Required: true, MinCount: 2},
		{ID: uuid.New(), IndicatorID: indicator.ID, Kind: types.ItemKindNote, Required: false},
	}

	aggregate := &fakeAssessmentAggregate{}
	itemRepo := &fakeChecklistItemRepo{}
	if _, err := itemRepo.Create(dbcBg(), items); err != nil {
		t.Fatalf("seed items: %v", err)
	}
	indicatorRepo := &fakeIndicatorRepo{}
	if _, err := indicatorRepo.Create(dbcBg(), []*types.Indicator{indicator}); err != nil {
		t.Fatalf("seed indicator: %v", err)
	}

	svc := NewEvaluationService(EvaluationServiceDeps{
		Log:         testLogger(t),
		Runner:      passthroughRunner{},
		Aggregate:   aggregate,
		Assessments: newFakeAssessmentRepo(assessment),
		Indicators:  indicatorRepo,
		Items:       itemRepo,
		Responses:   &fakeChecklistResponseRepo{},
		Validations: &fakeValidationRecordRepo{},
	})

	return &evaluationFixture{
		svc:        svc,
		aggregate:  aggregate,
		assessment: assessment,
		indicator:  indicator,
		items:      items,
		actor:      workflow.Actor{UserID: uuid.New(), Role: workflow.RoleBLGU, BarangayID: &barangayID},
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestEvaluationServiceSaveResponsesRecommendsPass(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusDraft))

	res, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        fx.actor,
		Answers: []AnswerInput{
			{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)},
			{ChecklistItemID: fx.items[1].ID, Count: intPtr(3)},
		},
	})
	if err != nil {
		t.Fatalf("SaveResponses: %v", err)
	}
	if res.Verdict != compliance.VerdictPass {
		t.Fatalf("verdict: want=%s got=%s", compliance.VerdictPass, res.Verdict)
	}
	if fx.aggregate.recommendCalls != 1 {
		t.Fatalf("recommendation calls: want=1 got=%d", fx.aggregate.recommendCalls)
	}
	if fx.aggregate.lastRecommend.Recommended != string(compliance.VerdictPass) {
		t.Fatalf("recorded recommendation: got %q", fx.aggregate.lastRecommend.Recommended)
	}
}

func TestEvaluationServiceUnansweredRequiredItemFails(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusDraft))

	// Only the checkbox is answered; the required count item stays
	// unsatisfied, so ALL_ITEMS_REQUIRED fails.
	res, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        fx.actor,
		Answers:      []AnswerInput{{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)}},
	})
	if err != nil {
		t.Fatalf("SaveResponses: %v", err)
	}
	if res.Verdict != compliance.VerdictFail {
		t.Fatalf("verdict: want=%s got=%s", compliance.VerdictFail, res.Verdict)
	}
}

func TestEvaluationServiceRejectsWrongRole(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusDraft))
	actor := workflow.Actor{UserID: uuid.New(), Role: workflow.RoleAssessor}

	_, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        actor,
		Answers:      []AnswerInput{{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)}},
	})
	if err == nil {
		t.Fatalf("SaveResponses: expected rejection for non-BLGU actor")
	}
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("error code: want=%s got=%s", domainagg.CodeValidation, domainagg.CodeOf(err))
	}
	if fx.aggregate.recommendCalls != 0 {
		t.Fatalf("no recommendation expected on rejection")
	}
}

func TestEvaluationServiceRejectsReadOnlyStatus(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusSubmitted))

	_, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        fx.actor,
		Answers:      []AnswerInput{{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)}},
	})
	if err == nil {
		t.Fatalf("SaveResponses: expected rejection in SUBMITTED")
	}
	if !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("error code: want=%s got=%s", domainagg.CodePreconditionFailed, domainagg.CodeOf(err))
	}
}

func TestEvaluationServiceCalibrationScopeRestrictsEdits(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusRework))

	// Open calibration on a different governance area.
	otherArea := uuid.New()
	fx.assessment.CalibrationScope = datatypes.JSON([]byte(`["` + otherArea.String() + `"]`))

	_, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        fx.actor,
		Answers:      []AnswerInput{{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)}},
	})
	if err == nil {
		t.Fatalf("SaveResponses: expected scope rejection")
	}
	var sv *workflow.ScopeViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected scope violation cause, got %v", err)
	}

	// Scoping the indicator's own area lets the edit through.
	fx.assessment.CalibrationScope = datatypes.JSON([]byte(`["` + fx.indicator.GovernanceAreaID.String() + `"]`))
	if _, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Actor:        fx.actor,
		Answers:      []AnswerInput{{ChecklistItemID: fx.items[0].ID, Checked: boolPtr(true)}},
	}); err != nil {
		t.Fatalf("SaveResponses inside scope: %v", err)
	}
}

func TestEvaluationServiceRejectsAnswerKindMismatch(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusDraft))

	cases := []struct {
		name   string
		answer AnswerInput
	}{
		{
			name:   "count_for_checkbox",
			answer: AnswerInput{ChecklistItemID: fx.items[0].ID, Count: intPtr(1)},
		},
		{
			name:   "note_item",
			answer: AnswerInput{ChecklistItemID: fx.items[2].ID, Checked: boolPtr(true)},
		},
		{
			name:   "unknown_item",
			answer: AnswerInput{ChecklistItemID: uuid.New(), Checked: boolPtr(true)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.SaveResponses(context.Background(), SaveResponsesInput{
				AssessmentID: fx.assessment.ID,
				IndicatorID:  fx.indicator.ID,
				Actor:        fx.actor,
				Answers:      []AnswerInput{tc.answer},
			})
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("error code: want=%s got=%s", domainagg.CodeValidation, domainagg.CodeOf(err))
			}
		})
	}
}

func TestEvaluationServiceReevaluateWithoutResponsesIsNoData(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusDraft))

	res, err := fx.svc.Reevaluate(context.Background(), fx.assessment.ID, fx.indicator.ID)
	if err != nil {
		t.Fatalf("Reevaluate: %v", err)
	}
	// Required unanswered items evaluate as unsatisfied, not absent: the
	// rule sees two required failures, so the verdict is FAIL.
	if res.Verdict != compliance.VerdictFail {
		t.Fatalf("verdict: want=%s got=%s", compliance.VerdictFail, res.Verdict)
	}
}

func TestEvaluationServiceSetValidationStatusDelegates(t *testing.T) {
	fx := newEvaluationFixture(t, string(workflow.StatusInReview))

	status := "PASS"
	in := domainagg.SetValidationStatusInput{
		AssessmentID: fx.assessment.ID,
		IndicatorID:  fx.indicator.ID,
		Status:       &status,
		Actor: workflow.Actor{
			UserID: uuid.New(), Role: workflow.RoleValidator,
			GovernanceAreaIDs: []uuid.UUID{fx.indicator.GovernanceAreaID},
		},
	}
	if _, err := fx.svc.SetValidationStatus(context.Background(), in); err != nil {
		t.Fatalf("SetValidationStatus: %v", err)
	}
	if fx.aggregate.setStatusCalls != 1 {
		t.Fatalf("aggregate calls: want=1 got=%d", fx.aggregate.setStatusCalls)
	}
	if fx.aggregate.lastSetStatus.At.IsZero() {
		t.Fatalf("timestamp should be defaulted")
	}
}
