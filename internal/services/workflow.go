package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// TransitionInput is one role action against one assessment. ExpectedVersion
// below zero means the caller holds no version expectation; a lost
// compare-and-set then retries once against the fresh row instead of
// surfacing a conflict.
type TransitionInput struct {
	AssessmentID     uuid.UUID
	ExpectedVersion  int
	Action           workflow.Action
	Actor            workflow.Actor
	CalibrationScope []uuid.UUID
}

// WorkflowService drives assessment status progression. Every attempt,
// allowed or denied, produces an audit event; finalize-type and calibration
// transitions additionally produce a verdict event for the notification
// subsystem.
type WorkflowService interface {
	Transition(ctx context.Context, in TransitionInput) (domainagg.TransitionAssessmentResult, error)
	AllowedActions(ctx context.Context, assessmentID uuid.UUID) ([]workflow.Action, error)
}

type workflowService struct {
	log         *logger.Logger
	aggregate   domainagg.AssessmentAggregate
	assessments AssessmentService
	compliance  ComplianceService
	notifier    AssessmentNotifier
}

func NewWorkflowService(baseLog *logger.Logger, aggregate domainagg.AssessmentAggregate, assessments AssessmentService, comp ComplianceService, notifier AssessmentNotifier) WorkflowService {
	return &workflowService{
		log:         baseLog.With("service", "WorkflowService"),
		aggregate:   aggregate,
		assessments: assessments,
		compliance:  comp,
		notifier:    notifier,
	}
}

func (s *workflowService) Transition(ctx context.Context, in TransitionInput) (domainagg.TransitionAssessmentResult, error) {
	if in.AssessmentID == uuid.Nil {
		return domainagg.TransitionAssessmentResult{}, domainagg.NewError(domainagg.CodeValidation, "workflow_service.transition", "assessment id is required", nil)
	}
	if in.Action == "" {
		return domainagg.TransitionAssessmentResult{}, domainagg.NewError(domainagg.CodeValidation, "workflow_service.transition", "action is required", nil)
	}
	if s.aggregate == nil {
		return domainagg.TransitionAssessmentResult{}, domainagg.NewError(domainagg.CodeConfiguration, "workflow_service.transition", "assessment aggregate not configured", nil)
	}

	aggIn := domainagg.TransitionAssessmentInput{
		AssessmentID:     in.AssessmentID,
		ExpectedVersion:  in.ExpectedVersion,
		Action:           in.Action,
		Actor:            in.Actor,
		CalibrationScope: in.CalibrationScope,
		At:               time.Now().UTC(),
	}

	res, err := s.aggregate.Transition(ctx, aggIn)
	if err != nil && s.shouldRetry(in, err) {
		s.log.Info("transition lost a concurrent write, retrying once",
			"assessment_id", in.AssessmentID, "action", in.Action)
		aggIn.At = time.Now().UTC()
		res, err = s.aggregate.Transition(ctx, aggIn)
	}

	if err != nil {
		if reason, rejected := denialReason(err); rejected {
			s.emitAudit(in, "", "", false, err.Error())
			if m := observability.Current(); m != nil {
				m.IncWorkflowDenial(string(in.Action), reason)
			}
		}
		return domainagg.TransitionAssessmentResult{}, err
	}

	s.emitAudit(in, string(res.FromStatus), string(res.ToStatus), true, "")
	if m := observability.Current(); m != nil {
		m.IncWorkflowTransition(string(in.Action), string(res.FromStatus), string(res.ToStatus))
	}
	s.emitVerdict(ctx, in.Action, res)
	return res, nil
}

func (s *workflowService) AllowedActions(ctx context.Context, assessmentID uuid.UUID) ([]workflow.Action, error) {
	if s.assessments == nil {
		return nil, domainagg.NewError(domainagg.CodeConfiguration, "workflow_service.allowed_actions", "assessment service not configured", nil)
	}
	row, err := s.assessments.Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return workflow.AllowedActions(workflow.Status(row.Status)), nil
}

// shouldRetry allows exactly one replay: retryable infrastructure errors
// always replay, lost compare-and-sets only when the caller carried no
// version expectation. A conflict against an explicit ExpectedVersion means
// the caller's view is stale and must not be silently overwritten.
func (s *workflowService) shouldRetry(in TransitionInput, err error) bool {
	if domainagg.IsCode(err, domainagg.CodeRetryable) {
		return true
	}
	if in.ExpectedVersion >= 0 {
		return false
	}
	var stale *workflow.StaleStateError
	return domainagg.IsCode(err, domainagg.CodeConflict) && errors.As(err, &stale)
}

func (s *workflowService) emitAudit(in TransitionInput, fromState, toState string, allowed bool, denial string) {
	if s.notifier == nil {
		return
	}
	s.notifier.AuditLogged(types.AuditEvent{
		AssessmentID: in.AssessmentID,
		ActorID:      in.Actor.UserID,
		Role:         string(in.Actor.Role),
		Action:       string(in.Action),
		FromState:    fromState,
		ToState:      toState,
		Allowed:      allowed,
		DenialReason: denial,
		At:           time.Now().UTC(),
	})
}

// emitVerdict notifies downstream consumers after finalize-type and
// calibration transitions. Finalizes snapshot the full rollup; a calibration
// resubmit recomputes only the reopened areas against the last snapshot. The
// overall verdict rides along only on completion. A rollup failure downgrades
// the event rather than failing the committed transition.
func (s *workflowService) emitVerdict(ctx context.Context, action workflow.Action, res domainagg.TransitionAssessmentResult) {
	if s.notifier == nil {
		return
	}

	ev := types.VerdictEvent{
		AssessmentID:            res.AssessmentID,
		NewStatus:               string(res.ToStatus),
		GovernanceAreasAffected: res.AreasAffected,
		At:                      time.Now().UTC(),
	}
	switch action {
	case workflow.ActionFinalizeAssessorReview, workflow.ActionFinalizeValidation, workflow.ActionApprove:
		if s.compliance != nil {
			report, err := s.compliance.SnapshotRollup(ctx, res.AssessmentID)
			if err != nil {
				s.log.Warn("rollup snapshot failed", "assessment_id", res.AssessmentID, "action", action, "error", err)
			} else if res.ToStatus == workflow.StatusCompleted {
				ev.OverallVerdict = string(report.Result.Overall)
			}
		}
	case workflow.ActionSubmitForCalibration:
		if s.compliance != nil && len(res.AreasAffected) > 0 {
			if _, err := s.compliance.RollupScoped(ctx, res.AssessmentID, res.AreasAffected); err != nil {
				s.log.Warn("scoped rollup on calibration resubmit failed", "assessment_id", res.AssessmentID, "error", err)
			}
		}
	case workflow.ActionSendForCalibration:
		// Areas are reopening; there is nothing to recompute until the
		// calibration resolves.
	default:
		return
	}
	s.notifier.VerdictIssued(ev)
}

// denialReason classifies a workflow rejection for the denial counter. The
// second return is false for infrastructure failures, which are not
// auditable denials.
func denialReason(err error) (string, bool) {
	var (
		it *workflow.InvalidTransitionError
		sv *workflow.ScopeViolationError
		rb *workflow.ReworkBudgetExhaustedError
		cb *workflow.CalibrationBudgetExhaustedError
		iv *workflow.IncompleteValidationError
		st *workflow.StaleStateError
	)
	switch {
	case errors.As(err, &it):
		return "invalid_transition", true
	case errors.As(err, &sv):
		return "scope_violation", true
	case errors.As(err, &rb):
		return "rework_budget_exhausted", true
	case errors.As(err, &cb):
		return "calibration_budget_exhausted", true
	case errors.As(err, &iv):
		return "incomplete_validation", true
	case errors.Is(err, workflow.ErrCalibrationScopeRequired):
		return "calibration_scope_required", true
	case errors.As(err, &st):
		return "stale_state", true
	default:
		return "", false
	}
}
