package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/platform/dbctx"
)

// In-memory stand-ins for the repo and aggregate interfaces. They hold just
// enough state for the service paths under test.

type fakeAssessmentRepo struct {
	rows map[uuid.UUID]*types.Assessment
}

func newFakeAssessmentRepo(rows ...*types.Assessment) *fakeAssessmentRepo {
	m := make(map[uuid.UUID]*types.Assessment, len(rows))
	for _, r := range rows {
		m[r.ID] = r
	}
	return &fakeAssessmentRepo{rows: m}
}

func (f *fakeAssessmentRepo) Create(dbc dbctx.Context, assessments []*types.Assessment) ([]*types.Assessment, error) {
	for _, a := range assessments {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.rows[a.ID] = a
	}
	return assessments, nil
}

func (f *fakeAssessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	return f.rows[id], nil
}

func (f *fakeAssessmentRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Assessment, error) {
	return f.rows[id], nil
}

func (f *fakeAssessmentRepo) GetByBarangayYear(dbc dbctx.Context, barangayID uuid.UUID, year int) (*types.Assessment, error) {
	for _, r := range f.rows {
		if r.BarangayID == barangayID && r.Year == year {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeAssessmentRepo) ListByStatus(dbc dbctx.Context, statuses []string) ([]*types.Assessment, error) {
	var out []*types.Assessment
	for _, r := range f.rows {
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) UpdateFieldsByVersion(dbc dbctx.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}) (int64, error) {
	return 1, nil
}

func (f *fakeAssessmentRepo) SaveRollupSnapshot(dbc dbctx.Context, id uuid.UUID, snapshot datatypes.JSON) error {
	if r, ok := f.rows[id]; ok {
		r.LastRollup = snapshot
	}
	return nil
}

type fakeIndicatorRepo struct {
	rows []*types.Indicator
}

func (f *fakeIndicatorRepo) Create(dbc dbctx.Context, indicators []*types.Indicator) ([]*types.Indicator, error) {
	f.rows = append(f.rows, indicators...)
	return indicators, nil
}

func (f *fakeIndicatorRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Indicator, error) {
	var out []*types.Indicator
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeIndicatorRepo) ListActive(dbc dbctx.Context) ([]*types.Indicator, error) {
	var out []*types.Indicator
	for _, r := range f.rows {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIndicatorRepo) ListActiveByArea(dbc dbctx.Context, areaID uuid.UUID) ([]*types.Indicator, error) {
	var out []*types.Indicator
	for _, r := range f.rows {
		if r.Active && r.GovernanceAreaID == areaID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIndicatorRepo) ListSubIndicators(dbc dbctx.Context, parentID uuid.UUID) ([]*types.Indicator, error) {
	var out []*types.Indicator
	for _, r := range f.rows {
		if r.ParentID != nil && *r.ParentID == parentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIndicatorRepo) ListBBIByInstitution(dbc dbctx.Context, institutionID uuid.UUID) ([]*types.Indicator, error) {
	var out []*types.Indicator
	for _, r := range f.rows {
		if r.IsBBI && r.InstitutionID != nil && *r.InstitutionID == institutionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeChecklistItemRepo struct {
	rows []*types.ChecklistItem
}

func (f *fakeChecklistItemRepo) Create(dbc dbctx.Context, items []*types.ChecklistItem) ([]*types.ChecklistItem, error) {
	f.rows = append(f.rows, items...)
	return items, nil
}

func (f *fakeChecklistItemRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ChecklistItem, error) {
	var out []*types.ChecklistItem
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeChecklistItemRepo) ListByIndicator(dbc dbctx.Context, indicatorID uuid.UUID) ([]*types.ChecklistItem, error) {
	var out []*types.ChecklistItem
	for _, r := range f.rows {
		if r.IndicatorID == indicatorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChecklistItemRepo) ListByIndicators(dbc dbctx.Context, indicatorIDs []uuid.UUID) ([]*types.ChecklistItem, error) {
	var out []*types.ChecklistItem
	for _, r := range f.rows {
		for _, id := range indicatorIDs {
			if r.IndicatorID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type fakeChecklistResponseRepo struct {
	rows []*types.ChecklistResponse
}

func (f *fakeChecklistResponseRepo) Upsert(dbc dbctx.Context, responses []*types.ChecklistResponse) ([]*types.ChecklistResponse, error) {
	for _, in := range responses {
		replaced := false
		for i, r := range f.rows {
			if r.AssessmentID == in.AssessmentID && r.IndicatorID == in.IndicatorID && r.ChecklistItemID == in.ChecklistItemID {
				f.rows[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			if in.ID == uuid.Nil {
				in.ID = uuid.New()
			}
			f.rows = append(f.rows, in)
		}
	}
	return responses, nil
}

func (f *fakeChecklistResponseRepo) GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ChecklistResponse, error) {
	var out []*types.ChecklistResponse
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChecklistResponseRepo) GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) ([]*types.ChecklistResponse, error) {
	var out []*types.ChecklistResponse
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID && r.IndicatorID == indicatorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeChecklistResponseRepo) DeleteByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if !(r.AssessmentID == assessmentID && r.IndicatorID == indicatorID) {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeValidationRecordRepo struct {
	rows []*types.ValidationRecord
}

func (f *fakeValidationRecordRepo) UpsertRecommendation(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, recommended string) (*types.ValidationRecord, error) {
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID && r.IndicatorID == indicatorID {
			r.RecommendedStatus = recommended
			return r, nil
		}
	}
	rec := &types.ValidationRecord{
		ID:                uuid.New(),
		AssessmentID:      assessmentID,
		IndicatorID:       indicatorID,
		RecommendedStatus: recommended,
	}
	f.rows = append(f.rows, rec)
	return rec, nil
}

func (f *fakeValidationRecordRepo) SetValidationStatus(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID, status *string, validatedBy *uuid.UUID, at time.Time) (int64, error) {
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID && r.IndicatorID == indicatorID {
			r.ValidationStatus = status
			if status == nil {
				r.ValidatedBy = nil
				r.ValidatedAt = nil
			} else {
				r.ValidatedBy = validatedBy
				r.ValidatedAt = &at
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeValidationRecordRepo) GetByAssessment(dbc dbctx.Context, assessmentID uuid.UUID) ([]*types.ValidationRecord, error) {
	var out []*types.ValidationRecord
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeValidationRecordRepo) GetByIndicator(dbc dbctx.Context, assessmentID, indicatorID uuid.UUID) (*types.ValidationRecord, error) {
	for _, r := range f.rows {
		if r.AssessmentID == assessmentID && r.IndicatorID == indicatorID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeValidationRecordRepo) ClearValidationByAreaIndicators(dbc dbctx.Context, assessmentID uuid.UUID, indicatorIDs []uuid.UUID) error {
	for _, r := range f.rows {
		for _, id := range indicatorIDs {
			if r.AssessmentID == assessmentID && r.IndicatorID == id {
				r.ValidationStatus = nil
				r.ValidatedBy = nil
				r.ValidatedAt = nil
			}
		}
	}
	return nil
}

type fakeGovernanceAreaRepo struct {
	rows []*types.GovernanceArea
}

func (f *fakeGovernanceAreaRepo) Create(dbc dbctx.Context, areas []*types.GovernanceArea) ([]*types.GovernanceArea, error) {
	f.rows = append(f.rows, areas...)
	return areas, nil
}

func (f *fakeGovernanceAreaRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.GovernanceArea, error) {
	var out []*types.GovernanceArea
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeGovernanceAreaRepo) GetByCode(dbc dbctx.Context, code string) (*types.GovernanceArea, error) {
	for _, r := range f.rows {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeGovernanceAreaRepo) ListAll(dbc dbctx.Context) ([]*types.GovernanceArea, error) {
	return f.rows, nil
}

type fakeInstitutionRepo struct {
	rows []*types.Institution
}

func (f *fakeInstitutionRepo) Create(dbc dbctx.Context, institutions []*types.Institution) ([]*types.Institution, error) {
	f.rows = append(f.rows, institutions...)
	return institutions, nil
}

func (f *fakeInstitutionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Institution, error) {
	var out []*types.Institution
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeInstitutionRepo) ListAll(dbc dbctx.Context) ([]*types.Institution, error) {
	return f.rows, nil
}

// fakeAssessmentAggregate scripts aggregate outcomes per call.
type fakeAssessmentAggregate struct {
	transitionCalls  int
	transitionErrs   []error
	transitionResult domainagg.TransitionAssessmentResult
	lastTransition   domainagg.TransitionAssessmentInput

	setStatusCalls  int
	setStatusResult domainagg.SetValidationStatusResult
	lastSetStatus   domainagg.SetValidationStatusInput

	recommendCalls int
	lastRecommend  domainagg.RecordRecommendationInput
}

func (f *fakeAssessmentAggregate) Contract() domainagg.Contract {
	return domainagg.AssessmentAggregateContract
}

func (f *fakeAssessmentAggregate) Transition(ctx context.Context, in domainagg.TransitionAssessmentInput) (domainagg.TransitionAssessmentResult, error) {
	f.transitionCalls++
	f.lastTransition = in
	if len(f.transitionErrs) > 0 {
		err := f.transitionErrs[0]
		f.transitionErrs = f.transitionErrs[1:]
		if err != nil {
			return domainagg.TransitionAssessmentResult{}, err
		}
	}
	return f.transitionResult, nil
}

func (f *fakeAssessmentAggregate) SetValidationStatus(ctx context.Context, in domainagg.SetValidationStatusInput) (domainagg.SetValidationStatusResult, error) {
	f.setStatusCalls++
	f.lastSetStatus = in
	return f.setStatusResult, nil
}

func (f *fakeAssessmentAggregate) RecordRecommendation(ctx context.Context, in domainagg.RecordRecommendationInput) (domainagg.RecordRecommendationResult, error) {
	f.recommendCalls++
	f.lastRecommend = in
	return domainagg.RecordRecommendationResult{
		RecordID:    uuid.New(),
		Recommended: in.Recommended,
		At:          in.At,
	}, nil
}

// fakeComplianceService records rollup calls from the workflow service.
type fakeComplianceService struct {
	rollupCalls   int
	snapshotCalls int
	scopedCalls   int
	lastScope     []uuid.UUID
	report        RollupReport
	err           error
}

func (f *fakeComplianceService) Rollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error) {
	f.rollupCalls++
	return f.report, f.err
}

func (f *fakeComplianceService) SnapshotRollup(ctx context.Context, assessmentID uuid.UUID) (RollupReport, error) {
	f.snapshotCalls++
	return f.report, f.err
}

func (f *fakeComplianceService) RollupScoped(ctx context.Context, assessmentID uuid.UUID, scope []uuid.UUID) (RollupReport, error) {
	f.scopedCalls++
	f.lastScope = scope
	return f.report, f.err
}

func (f *fakeComplianceService) Functionality(ctx context.Context, assessmentID uuid.UUID) ([]InstitutionFunctionality, error) {
	return nil, nil
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	audits   []types.AuditEvent
	verdicts []types.VerdictEvent
}

func (n *recordingNotifier) AuditLogged(ev types.AuditEvent)     { n.audits = append(n.audits, ev) }
func (n *recordingNotifier) VerdictIssued(ev types.VerdictEvent) { n.verdicts = append(n.verdicts, ev) }

func dbcBg() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

func timeNowUTC() time.Time { return time.Now().UTC() }

// passthroughRunner executes the function without a real transaction.
type passthroughRunner struct{}

func (passthroughRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}
