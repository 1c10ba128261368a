package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dataagg "github.com/barangaylink/sglgb-backend/internal/data/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/data/repos"
	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/compliance"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// RollupReport is a full compliance snapshot of one assessment: the raw
// rollup result plus area rows resolved to their catalog identity.
type RollupReport struct {
	AssessmentID uuid.UUID
	Result       compliance.Result
	Areas        []AreaReport
	ComputedAt   time.Time
}

type AreaReport struct {
	AreaID uuid.UUID
	Code   string
	Name   string
	Core   bool
	Status compliance.AreaStatus
}

// InstitutionFunctionality is the derived operational band of one
// barangay-based institution within one assessment.
type InstitutionFunctionality struct {
	InstitutionID uuid.UUID
	Code          string
	Name          string
	Level         compliance.FunctionalityLevel
	// Contributing counts the indicators feeding the calculation.
	Contributing int
}

// ComplianceService derives certification and functionality read models
// from confirmed validation data. Rollup is a pure read; SnapshotRollup and
// RollupScoped additionally cache their result on the assessment row, so a
// later scoped recompute can carry unaffected areas forward.
type ComplianceService interface {
	Rollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error)
	SnapshotRollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error)
	RollupScoped(ctx context.Context, assessmentID uuid.UUID, scope []uuid.UUID) (RollupReport, error)
	Functionality(ctx context.Context, assessmentID uuid.UUID) ([]InstitutionFunctionality, error)
}

type complianceService struct {
	db           *gorm.DB
	log          *logger.Logger
	policy       compliance.Policy
	assessments  repos.AssessmentRepo
	areas        repos.GovernanceAreaRepo
	institutions repos.InstitutionRepo
	indicators   repos.IndicatorRepo
	validations  repos.ValidationRecordRepo
}

type ComplianceServiceDeps struct {
	DB           *gorm.DB
	Log          *logger.Logger
	Policy       compliance.Policy
	Assessments  repos.AssessmentRepo
	Areas        repos.GovernanceAreaRepo
	Institutions repos.InstitutionRepo
	Indicators   repos.IndicatorRepo
	Validations  repos.ValidationRecordRepo
}

func NewComplianceService(d ComplianceServiceDeps) ComplianceService {
	return &complianceService{
		db:           d.DB,
		log:          d.Log.With("service", "ComplianceService"),
		policy:       d.Policy,
		assessments:  d.Assessments,
		areas:        d.Areas,
		institutions: d.Institutions,
		indicators:   d.Indicators,
		validations:  d.Validations,
	}
}

func (s *complianceService) Rollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error) {
	const op = "compliance_service.rollup"
	started := time.Now()

	areaInputs, indicatorInputs, areaRows, err := s.loadRollupInputs(ctx, assessmentID)
	if err != nil {
		return RollupReport{}, err
	}
	result, err := compliance.Rollup(areaInputs, indicatorInputs, s.policy.Certification)
	if err != nil {
		return RollupReport{}, dataagg.MapError(op, err)
	}
	if m := observability.Current(); m != nil {
		m.ObserveRollup("full", string(result.Overall), time.Since(started))
	}
	return s.report(assessmentID, result, areaRows), nil
}

// SnapshotRollup recomputes the full rollup and caches it on the assessment
// row for later scoped recomputes.
func (s *complianceService) SnapshotRollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error) {
	report, err := s.Rollup(ctx, assessmentID)
	if err != nil {
		return RollupReport{}, err
	}
	if err := s.saveSnapshot(ctx, assessmentID, report.Result); err != nil {
		return RollupReport{}, err
	}
	return report, nil
}

// RollupScoped recomputes only the governance areas in scope against the
// cached snapshot, carrying every other area's status forward unchanged.
// Without a usable snapshot it degenerates to a full rollup.
func (s *complianceService) RollupScoped(ctx context.Context, assessmentID uuid.UUID, scope []uuid.UUID) (RollupReport, error) {
	const op = "compliance_service.rollup_scoped"
	if len(scope) == 0 {
		return RollupReport{}, domainagg.NewError(domainagg.CodeValidation, op, "scope must name at least one governance area", nil)
	}
	prev, ok, err := s.loadSnapshot(ctx, assessmentID)
	if err != nil {
		return RollupReport{}, err
	}
	if !ok {
		return s.SnapshotRollup(ctx, assessmentID)
	}
	started := time.Now()

	areaInputs, indicatorInputs, areaRows, err := s.loadRollupInputs(ctx, assessmentID)
	if err != nil {
		return RollupReport{}, err
	}
	result, err := compliance.RollupScoped(prev, scope, areaInputs, indicatorInputs, s.policy.Certification)
	if err != nil {
		return RollupReport{}, dataagg.MapError(op, err)
	}
	if m := observability.Current(); m != nil {
		m.ObserveRollup("scoped", string(result.Overall), time.Since(started))
	}
	if err := s.saveSnapshot(ctx, assessmentID, result); err != nil {
		return RollupReport{}, err
	}
	return s.report(assessmentID, result, areaRows), nil
}

func (s *complianceService) loadSnapshot(ctx context.Context, assessmentID uuid.UUID) (compliance.Result, bool, error) {
	const op = "compliance_service.load_snapshot"
	row, err := s.assessments.GetByID(dbctx.Context{Ctx: ctx}, assessmentID)
	if err != nil {
		return compliance.Result{}, false, dataagg.MapError(op, err)
	}
	if row == nil {
		return compliance.Result{}, false, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("assessment not found: %s", assessmentID), nil)
	}
	if len(row.LastRollup) == 0 {
		return compliance.Result{}, false, nil
	}
	var prev compliance.Result
	if err := json.Unmarshal(row.LastRollup, &prev); err != nil {
		s.log.Warn("rollup snapshot unreadable, recomputing in full", "assessment_id", assessmentID, "error", err)
		return compliance.Result{}, false, nil
	}
	return prev, true, nil
}

func (s *complianceService) saveSnapshot(ctx context.Context, assessmentID uuid.UUID, result compliance.Result) error {
	const op = "compliance_service.save_snapshot"
	b, err := json.Marshal(result)
	if err != nil {
		return dataagg.MapError(op, err)
	}
	if err := s.assessments.SaveRollupSnapshot(dbctx.Context{Ctx: ctx}, assessmentID, datatypes.JSON(b)); err != nil {
		return dataagg.MapError(op, err)
	}
	return nil
}

func (s *complianceService) Functionality(ctx context.Context, assessmentID uuid.UUID) ([]InstitutionFunctionality, error) {
	const op = "compliance_service.functionality"
	dbc := dbctx.Context{Ctx: ctx}

	institutions, err := s.institutions.ListAll(dbc)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	records, err := s.validations.GetByAssessment(dbc, assessmentID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	confirmed := confirmedByIndicator(records)

	out := make([]InstitutionFunctionality, len(institutions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, inst := range institutions {
		i, inst := i, inst
		g.Go(func() error {
			contributors, err := s.indicators.ListBBIByInstitution(dbctx.Context{Ctx: gctx}, inst.ID)
			if err != nil {
				return dataagg.MapError(op, err)
			}
			verdicts := make([]compliance.Verdict, 0, len(contributors))
			for _, ind := range contributors {
				verdicts = append(verdicts, confirmed[ind.ID])
			}
			level, err := compliance.AggregateFunctionality(verdicts, s.policy.ThresholdsFor(inst.Code))
			if err != nil {
				return dataagg.MapError(op, fmt.Errorf("institution %s: %w", inst.Code, err))
			}
			mu.Lock()
			out[i] = InstitutionFunctionality{
				InstitutionID: inst.ID,
				Code:          inst.Code,
				Name:          inst.Name,
				Level:         level,
				Contributing:  len(contributors),
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadRollupInputs assembles the pure rollup inputs from the catalog and the
// assessment's validation records. Sub-indicators without a record count as
// NO_DATA, which the rollup treats as pending.
func (s *complianceService) loadRollupInputs(ctx context.Context, assessmentID uuid.UUID) ([]compliance.AreaInput, []compliance.IndicatorInput, []*types.GovernanceArea, error) {
	const op = "compliance_service.load_inputs"
	dbc := dbctx.Context{Ctx: ctx}

	areaRows, err := s.areas.ListAll(dbc)
	if err != nil {
		return nil, nil, nil, dataagg.MapError(op, err)
	}
	indicatorRows, err := s.indicators.ListActive(dbc)
	if err != nil {
		return nil, nil, nil, dataagg.MapError(op, err)
	}
	records, err := s.validations.GetByAssessment(dbc, assessmentID)
	if err != nil {
		return nil, nil, nil, dataagg.MapError(op, err)
	}
	confirmed := confirmedByIndicator(records)

	areaInputs := make([]compliance.AreaInput, 0, len(areaRows))
	for _, a := range areaRows {
		areaInputs = append(areaInputs, compliance.AreaInput{
			AreaID: a.ID,
			Core:   a.AreaType == types.AreaTypeCore,
		})
	}

	subsByParent := make(map[uuid.UUID][]compliance.SubInput)
	tops := make([]*types.Indicator, 0, len(indicatorRows))
	for _, ind := range indicatorRows {
		if ind.ParentID == nil {
			tops = append(tops, ind)
			continue
		}
		subsByParent[*ind.ParentID] = append(subsByParent[*ind.ParentID], compliance.SubInput{
			IndicatorID: ind.ID,
			Verdict:     confirmed[ind.ID],
			Required:    ind.Required,
		})
	}

	indicatorInputs := make([]compliance.IndicatorInput, 0, len(tops))
	for _, top := range tops {
		indicatorInputs = append(indicatorInputs, compliance.IndicatorInput{
			IndicatorID:      top.ID,
			GovernanceAreaID: top.GovernanceAreaID,
			Rule:             compliance.ValidationRule(top.ValidationRule),
			ProfilingOnly:    top.ProfilingOnly,
			Subs:             subsByParent[top.ID],
		})
	}
	return areaInputs, indicatorInputs, areaRows, nil
}

func (s *complianceService) report(assessmentID uuid.UUID, result compliance.Result, areaRows []*types.GovernanceArea) RollupReport {
	report := RollupReport{
		AssessmentID: assessmentID,
		Result:       result,
		Areas:        make([]AreaReport, 0, len(areaRows)),
		ComputedAt:   time.Now().UTC(),
	}
	for _, a := range areaRows {
		report.Areas = append(report.Areas, AreaReport{
			AreaID: a.ID,
			Code:   a.Code,
			Name:   a.Name,
			Core:   a.AreaType == types.AreaTypeCore,
			Status: result.Areas[a.ID],
		})
	}
	return report
}

// confirmedByIndicator projects validation records to their effective
// verdict: the validator's decision when present, the evaluator's
// recommendation otherwise. Missing records read as NO_DATA.
func confirmedByIndicator(records []*types.ValidationRecord) map[uuid.UUID]compliance.Verdict {
	out := make(map[uuid.UUID]compliance.Verdict, len(records))
	for _, r := range records {
		out[r.IndicatorID] = compliance.Verdict(r.Confirmed())
	}
	return out
}
