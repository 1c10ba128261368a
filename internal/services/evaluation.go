package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/barangaylink/sglgb-backend/internal/data/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/data/repos"
	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/compliance"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// AnswerInput is one checklist answer as received from the BLGU. Exactly one
// value field should be set, matching the item's kind.
type AnswerInput struct {
	ChecklistItemID uuid.UUID
	Checked         *bool
	Count           *int
	Answer          *string
}

type SaveResponsesInput struct {
	AssessmentID uuid.UUID
	IndicatorID  uuid.UUID
	Actor        workflow.Actor
	Answers      []AnswerInput
}

type EvaluationResult struct {
	IndicatorID uuid.UUID
	Verdict     compliance.Verdict
	RecordID    uuid.UUID
}

// EvaluationService owns checklist intake and the automatic evaluator.
// Saving responses immediately re-evaluates the sub-indicator and refreshes
// its recommended status; the validator's confirmed decision is never
// touched by this path.
type EvaluationService interface {
	SaveResponses(ctx context.Context, in SaveResponsesInput) (EvaluationResult, error)
	Reevaluate(ctx context.Context, assessmentID, indicatorID uuid.UUID) (EvaluationResult, error)
	SetValidationStatus(ctx context.Context, in domainagg.SetValidationStatusInput) (domainagg.SetValidationStatusResult, error)
	ListValidation(ctx context.Context, assessmentID uuid.UUID) ([]*types.ValidationRecord, error)
}

type evaluationService struct {
	db          *gorm.DB
	log         *logger.Logger
	runner      dataagg.TxRunner
	aggregate   domainagg.AssessmentAggregate
	assessments repos.AssessmentRepo
	indicators  repos.IndicatorRepo
	items       repos.ChecklistItemRepo
	responses   repos.ChecklistResponseRepo
	validations repos.ValidationRecordRepo
}

type EvaluationServiceDeps struct {
	DB          *gorm.DB
	Log         *logger.Logger
	Runner      dataagg.TxRunner
	Aggregate   domainagg.AssessmentAggregate
	Assessments repos.AssessmentRepo
	Indicators  repos.IndicatorRepo
	Items       repos.ChecklistItemRepo
	Responses   repos.ChecklistResponseRepo
	Validations repos.ValidationRecordRepo
}

func NewEvaluationService(d EvaluationServiceDeps) EvaluationService {
	runner := d.Runner
	if runner == nil && d.DB != nil {
		runner = dataagg.NewGormTxRunner(d.DB)
	}
	return &evaluationService{
		db:          d.DB,
		log:         d.Log.With("service", "EvaluationService"),
		runner:      runner,
		aggregate:   d.Aggregate,
		assessments: d.Assessments,
		indicators:  d.Indicators,
		items:       d.Items,
		responses:   d.Responses,
		validations: d.Validations,
	}
}

func (s *evaluationService) SaveResponses(ctx context.Context, in SaveResponsesInput) (EvaluationResult, error) {
	const op = "evaluation_service.save_responses"
	if in.AssessmentID == uuid.Nil || in.IndicatorID == uuid.Nil {
		return EvaluationResult{}, domainagg.NewError(domainagg.CodeValidation, op, "assessment id and indicator id are required", nil)
	}
	if len(in.Answers) == 0 {
		return EvaluationResult{}, domainagg.NewError(domainagg.CodeValidation, op, "at least one answer is required", nil)
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.assessments.GetByID(dbc, in.AssessmentID)
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}
	if row == nil {
		return EvaluationResult{}, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("assessment %s not found", in.AssessmentID), nil)
	}

	indicator, err := s.loadSubIndicator(dbc, in.IndicatorID)
	if err != nil {
		return EvaluationResult{}, err
	}
	if err := s.checkEditable(op, row, indicator, in.Actor); err != nil {
		return EvaluationResult{}, err
	}

	itemRows, err := s.items.ListByIndicator(dbc, in.IndicatorID)
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}
	byItem := make(map[uuid.UUID]*types.ChecklistItem, len(itemRows))
	for _, it := range itemRows {
		byItem[it.ID] = it
	}

	upserts := make([]*types.ChecklistResponse, 0, len(in.Answers))
	for _, ans := range in.Answers {
		item, ok := byItem[ans.ChecklistItemID]
		if !ok {
			return EvaluationResult{}, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("checklist item %s does not belong to indicator %s", ans.ChecklistItemID, in.IndicatorID), nil)
		}
		if err := checkAnswerKind(item, ans); err != nil {
			return EvaluationResult{}, domainagg.Wrap(domainagg.CodeValidation, op, err)
		}
		upserts = append(upserts, &types.ChecklistResponse{
			AssessmentID:    in.AssessmentID,
			IndicatorID:     in.IndicatorID,
			ChecklistItemID: ans.ChecklistItemID,
			Checked:         ans.Checked,
			Count:           ans.Count,
			Answer:          ans.Answer,
		})
	}

	err = s.runner.InTx(ctx, func(txc dbctx.Context) error {
		_, txErr := s.responses.Upsert(txc, upserts)
		return txErr
	})
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}

	return s.evaluate(ctx, in.AssessmentID, indicator, itemRows)
}

func (s *evaluationService) Reevaluate(ctx context.Context, assessmentID, indicatorID uuid.UUID) (EvaluationResult, error) {
	const op = "evaluation_service.reevaluate"
	if assessmentID == uuid.Nil || indicatorID == uuid.Nil {
		return EvaluationResult{}, domainagg.NewError(domainagg.CodeValidation, op, "assessment id and indicator id are required", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	indicator, err := s.loadSubIndicator(dbc, indicatorID)
	if err != nil {
		return EvaluationResult{}, err
	}
	itemRows, err := s.items.ListByIndicator(dbc, indicatorID)
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}
	return s.evaluate(ctx, assessmentID, indicator, itemRows)
}

func (s *evaluationService) SetValidationStatus(ctx context.Context, in domainagg.SetValidationStatusInput) (domainagg.SetValidationStatusResult, error) {
	if s.aggregate == nil {
		return domainagg.SetValidationStatusResult{}, domainagg.NewError(domainagg.CodeConfiguration, "evaluation_service.set_validation_status", "assessment aggregate not configured", nil)
	}
	if in.At.IsZero() {
		in.At = time.Now().UTC()
	}
	return s.aggregate.SetValidationStatus(ctx, in)
}

func (s *evaluationService) ListValidation(ctx context.Context, assessmentID uuid.UUID) ([]*types.ValidationRecord, error) {
	rows, err := s.validations.GetByAssessment(dbctx.Context{Ctx: ctx}, assessmentID)
	if err != nil {
		return nil, dataagg.MapError("evaluation_service.list_validation", err)
	}
	return rows, nil
}

// evaluate recomputes the sub-indicator verdict from the full response
// snapshot and persists it as the recommended status. Required items without
// a stored response count as unsatisfied.
func (s *evaluationService) evaluate(ctx context.Context, assessmentID uuid.UUID, indicator *types.Indicator, itemRows []*types.ChecklistItem) (EvaluationResult, error) {
	const op = "evaluation_service.evaluate"
	dbc := dbctx.Context{Ctx: ctx}

	stored, err := s.responses.GetByIndicator(dbc, assessmentID, indicator.ID)
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}
	byItem := make(map[uuid.UUID]*types.ChecklistResponse, len(stored))
	for _, r := range stored {
		byItem[r.ChecklistItemID] = r
	}

	evalItems := make([]compliance.Item, 0, len(itemRows))
	for _, item := range itemRows {
		if !compliance.Validatable(item.Kind) {
			continue
		}
		satisfied := false
		if resp, ok := byItem[item.ID]; ok {
			satisfied, err = compliance.Satisfied(*item, answerFromResponse(resp))
			if err != nil {
				return EvaluationResult{}, dataagg.MapError(op, err)
			}
		}
		evalItems = append(evalItems, compliance.Item{Required: item.Required, Satisfied: satisfied})
	}

	verdict, err := compliance.Evaluate(compliance.ValidationRule(indicator.ValidationRule), evalItems)
	if err != nil {
		return EvaluationResult{}, dataagg.MapError(op, err)
	}

	rec, err := s.aggregate.RecordRecommendation(ctx, domainagg.RecordRecommendationInput{
		AssessmentID: assessmentID,
		IndicatorID:  indicator.ID,
		Recommended:  string(verdict),
		At:           time.Now().UTC(),
	})
	if err != nil {
		return EvaluationResult{}, err
	}
	if m := observability.Current(); m != nil {
		m.IncEvaluatorVerdict(string(verdict))
	}
	return EvaluationResult{IndicatorID: indicator.ID, Verdict: verdict, RecordID: rec.RecordID}, nil
}

func (s *evaluationService) loadSubIndicator(dbc dbctx.Context, indicatorID uuid.UUID) (*types.Indicator, error) {
	const op = "evaluation_service.load_indicator"
	rows, err := s.indicators.GetByIDs(dbc, []uuid.UUID{indicatorID})
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if len(rows) == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("indicator %s not found", indicatorID), nil)
	}
	ind := rows[0]
	if !ind.Active {
		return nil, domainagg.NewError(domainagg.CodePreconditionFailed, op, fmt.Sprintf("indicator %s is inactive", indicatorID), nil)
	}
	if ind.ParentID == nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("indicator %s is top-level; responses attach to sub-indicators", indicatorID), nil)
	}
	return ind, nil
}

// checkEditable enforces who may write responses and when: the owning
// BLGU, in DRAFT or REWORK, and during a calibration REWORK only inside the
// calibration scope.
func (s *evaluationService) checkEditable(op string, row *types.Assessment, indicator *types.Indicator, actor workflow.Actor) error {
	if actor.Role != workflow.RoleBLGU {
		return domainagg.Wrap(domainagg.CodeValidation, op, &workflow.ScopeViolationError{
			Role: actor.Role, Action: "save_responses", Reason: "responses are recorded by the BLGU",
		})
	}
	if actor.BarangayID == nil || *actor.BarangayID != row.BarangayID {
		return domainagg.Wrap(domainagg.CodeValidation, op, &workflow.ScopeViolationError{
			Role: actor.Role, Action: "save_responses", Reason: "assessment belongs to another barangay",
		})
	}
	switch workflow.Status(row.Status) {
	case workflow.StatusDraft, workflow.StatusRework:
	default:
		return domainagg.NewError(domainagg.CodePreconditionFailed, op, fmt.Sprintf("responses are read-only in status %s", row.Status), nil)
	}

	scope, err := calibrationScopeOf(row)
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInvariantViolation, op, err)
	}
	if workflow.Status(row.Status) == workflow.StatusRework && len(scope) > 0 {
		inScope := false
		for _, areaID := range scope {
			if areaID == indicator.GovernanceAreaID {
				inScope = true
				break
			}
		}
		if !inScope {
			areaID := indicator.GovernanceAreaID
			return domainagg.Wrap(domainagg.CodeValidation, op, &workflow.ScopeViolationError{
				Role: actor.Role, Action: "save_responses",
				Reason: "governance area outside the open calibration scope",
				AreaID: &areaID,
			})
		}
	}
	return nil
}

func calibrationScopeOf(row *types.Assessment) ([]uuid.UUID, error) {
	if len(row.CalibrationScope) == 0 {
		return nil, nil
	}
	var scope []uuid.UUID
	if err := json.Unmarshal(row.CalibrationScope, &scope); err != nil {
		return nil, fmt.Errorf("corrupt calibration scope on assessment %s: %w", row.ID, err)
	}
	return scope, nil
}

func answerFromResponse(r *types.ChecklistResponse) compliance.Answer {
	ans := compliance.Answer{}
	if r.Checked != nil {
		ans.Checked = *r.Checked
	}
	if r.Count != nil {
		ans.Count = *r.Count
	}
	if r.Answer != nil {
		if v, ok := compliance.ParseYesNo(*r.Answer); ok {
			ans.YesNo = &v
		}
	}
	return ans
}

func checkAnswerKind(item *types.ChecklistItem, ans AnswerInput) error {
	switch item.Kind {
	case types.ItemKindCheckbox:
		if ans.Checked == nil {
			return fmt.Errorf("item %s expects a checkbox value", item.ID)
		}
	case types.ItemKindCount:
		if ans.Count == nil {
			return fmt.Errorf("item %s expects a count value", item.ID)
		}
		if *ans.Count < 0 {
			return fmt.Errorf("item %s count must be >= 0", item.ID)
		}
	case types.ItemKindYesNo:
		if ans.Answer == nil {
			return fmt.Errorf("item %s expects a yes/no answer", item.ID)
		}
		if _, ok := compliance.ParseYesNo(*ans.Answer); !ok {
			return fmt.Errorf("item %s answer %q is not a recognizable yes/no", item.ID, *ans.Answer)
		}
	case types.ItemKindNote:
		return fmt.Errorf("item %s is informational and takes no answer", item.ID)
	default:
		return fmt.Errorf("item %s has unrecognized kind %q", item.ID, item.Kind)
	}
	return nil
}
