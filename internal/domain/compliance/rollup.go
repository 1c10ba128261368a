package compliance

import (
	"github.com/google/uuid"
)

// SubInput is the confirmed verdict of one sub-indicator.
type SubInput struct {
	IndicatorID uuid.UUID
	Verdict     Verdict
	// Required mirrors the sub-indicator's participation flag: optional
	// sub-indicators are displayed but ignored for the parent verdict.
	Required bool
}

// IndicatorInput is one top-level indicator with its sub-indicator verdicts.
type IndicatorInput struct {
	IndicatorID      uuid.UUID
	GovernanceAreaID uuid.UUID
	// Rule mirrors the checklist semantics one level up: how required
	// sub-indicator verdicts combine into the indicator verdict.
	Rule ValidationRule
	// ProfilingOnly indicators never count toward area pass/fail.
	ProfilingOnly bool
	Subs          []SubInput
}

// AreaInput declares one governance area participating in the rollup.
type AreaInput struct {
	AreaID uuid.UUID
	Core   bool
}

// CertificationRule is the configurable N-of-M certification policy.
type CertificationRule struct {
	// MinCoreAreasPassed is the minimum number of core governance areas
	// that must pass.
	MinCoreAreasPassed int `yaml:"min_core_areas_passed"`
	// MinNonCoreAreasPassed is the minimum number of non-core areas that
	// must pass.
	MinNonCoreAreasPassed int `yaml:"min_non_core_areas_passed"`
}

func (r CertificationRule) Validate() error {
	if r.MinCoreAreasPassed < 0 || r.MinNonCoreAreasPassed < 0 {
		return configErrorf("certification rule minimums must be >= 0")
	}
	if r.MinCoreAreasPassed == 0 && r.MinNonCoreAreasPassed == 0 {
		return configErrorf("certification rule must require at least one area")
	}
	return nil
}

// Result is a full rollup snapshot. Rollup is side-effect-free and
// idempotent: rerunning it on the same confirmed data reproduces the same
// Result.
type Result struct {
	Indicators map[uuid.UUID]Verdict
	Areas      map[uuid.UUID]AreaStatus
	Overall    OverallVerdict
	// Complete is false while any scored indicator is still pending.
	Complete bool
}

// Rollup derives indicator, governance-area, and overall certification
// status from sub-indicator verdicts. Pending sub-indicators never count as
// failed; while any scored indicator is pending the overall verdict is
// INCOMPLETE rather than a false PASS or FAIL.
func Rollup(areas []AreaInput, indicators []IndicatorInput, rule CertificationRule) (Result, error) {
	if err := rule.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		Indicators: make(map[uuid.UUID]Verdict, len(indicators)),
		Areas:      make(map[uuid.UUID]AreaStatus, len(areas)),
	}

	coreByArea := make(map[uuid.UUID]bool, len(areas))
	for _, a := range areas {
		coreByArea[a.AreaID] = a.Core
		res.Areas[a.AreaID] = AreaPass
	}

	for _, ind := range indicators {
		v, err := rollupIndicator(ind)
		if err != nil {
			return Result{}, err
		}
		res.Indicators[ind.IndicatorID] = v
		if ind.ProfilingOnly {
			continue
		}
		cur, ok := res.Areas[ind.GovernanceAreaID]
		if !ok {
			return Result{}, configErrorf("indicator %s references unknown governance area %s", ind.IndicatorID, ind.GovernanceAreaID)
		}
		switch v {
		case VerdictFail:
			res.Areas[ind.GovernanceAreaID] = AreaFail
		case VerdictNoData:
			// A failed area stays failed; otherwise pending dominates.
			if cur != AreaFail {
				res.Areas[ind.GovernanceAreaID] = AreaPending
			}
		}
	}

	corePassed, nonCorePassed := 0, 0
	res.Complete = true
	for areaID, st := range res.Areas {
		switch st {
		case AreaPending:
			res.Complete = false
		case AreaPass:
			if coreByArea[areaID] {
				corePassed++
			} else {
				nonCorePassed++
			}
		}
	}

	if !res.Complete {
		res.Overall = OverallIncomplete
		return res, nil
	}
	if corePassed >= rule.MinCoreAreasPassed && nonCorePassed >= rule.MinNonCoreAreasPassed {
		res.Overall = OverallPass
	} else {
		res.Overall = OverallFail
	}
	return res, nil
}

// RollupScoped recomputes only the governance areas in scope, carrying every
// other area's status over from prev unchanged. It exists for calibration
// resubmissions, where previously finalized areas must not be touched.
func RollupScoped(prev Result, scope []uuid.UUID, areas []AreaInput, indicators []IndicatorInput, rule CertificationRule) (Result, error) {
	inScope := make(map[uuid.UUID]bool, len(scope))
	for _, id := range scope {
		inScope[id] = true
	}

	scopedIndicators := make([]IndicatorInput, 0, len(indicators))
	for _, ind := range indicators {
		if inScope[ind.GovernanceAreaID] {
			scopedIndicators = append(scopedIndicators, ind)
		}
	}
	scopedAreas := make([]AreaInput, 0, len(scope))
	for _, a := range areas {
		if inScope[a.AreaID] {
			scopedAreas = append(scopedAreas, a)
		}
	}

	fresh, err := Rollup(scopedAreas, scopedIndicators, rule)
	if err != nil {
		return Result{}, err
	}

	merged := Result{
		Indicators: make(map[uuid.UUID]Verdict, len(prev.Indicators)),
		Areas:      make(map[uuid.UUID]AreaStatus, len(prev.Areas)),
	}
	for id, v := range prev.Indicators {
		merged.Indicators[id] = v
	}
	for id, v := range fresh.Indicators {
		merged.Indicators[id] = v
	}
	for id, st := range prev.Areas {
		merged.Areas[id] = st
	}
	for id, st := range fresh.Areas {
		merged.Areas[id] = st
	}

	coreByArea := make(map[uuid.UUID]bool, len(areas))
	for _, a := range areas {
		coreByArea[a.AreaID] = a.Core
	}
	corePassed, nonCorePassed := 0, 0
	merged.Complete = true
	for areaID, st := range merged.Areas {
		switch st {
		case AreaPending:
			merged.Complete = false
		case AreaPass:
			if coreByArea[areaID] {
				corePassed++
			} else {
				nonCorePassed++
			}
		}
	}
	if !merged.Complete {
		merged.Overall = OverallIncomplete
		return merged, nil
	}
	if corePassed >= rule.MinCoreAreasPassed && nonCorePassed >= rule.MinNonCoreAreasPassed {
		merged.Overall = OverallPass
	} else {
		merged.Overall = OverallFail
	}
	return merged, nil
}

func rollupIndicator(ind IndicatorInput) (Verdict, error) {
	passed, failed, pending := 0, 0, 0
	for _, s := range ind.Subs {
		if !s.Required {
			continue
		}
		switch s.Verdict {
		case VerdictPass:
			passed++
		case VerdictFail:
			failed++
		case VerdictNoData, "":
			pending++
		default:
			return "", configErrorf("unrecognized sub-indicator verdict %q", s.Verdict)
		}
	}
	if passed+failed+pending == 0 {
		return VerdictNoData, nil
	}
	switch ind.Rule {
	case RuleAllItemsRequired:
		// One confirmed failure decides; otherwise pending subs keep the
		// indicator pending rather than counting as failed.
		if failed > 0 {
			return VerdictFail, nil
		}
		if pending > 0 {
			return VerdictNoData, nil
		}
		return VerdictPass, nil
	case RuleAnyItemRequired:
		if passed > 0 {
			return VerdictPass, nil
		}
		if pending > 0 {
			return VerdictNoData, nil
		}
		return VerdictFail, nil
	default:
		return "", configErrorf("unrecognized validation rule %q", ind.Rule)
	}
}
