package compliance

// Verdict is the evaluator's output for one sub-indicator.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
	// VerdictNoData means the rule had nothing to evaluate (zero required
	// items after filtering). Callers must treat it as pending, never as a
	// pass or fail.
	VerdictNoData Verdict = "NO_DATA"
)

// ValidationRule selects how required items (or sub-indicator verdicts)
// combine into a verdict.
type ValidationRule string

const (
	RuleAllItemsRequired ValidationRule = "ALL_ITEMS_REQUIRED"
	RuleAnyItemRequired  ValidationRule = "ANY_ITEM_REQUIRED"
)

// FunctionalityLevel is the derived operational band of a barangay-based
// institution.
type FunctionalityLevel string

const (
	HighlyFunctional     FunctionalityLevel = "HIGHLY_FUNCTIONAL"
	ModeratelyFunctional FunctionalityLevel = "MODERATELY_FUNCTIONAL"
	LowFunctional        FunctionalityLevel = "LOW_FUNCTIONAL"
	NonFunctional        FunctionalityLevel = "NON_FUNCTIONAL"
	// FunctionalityPending is reported while any contributing indicator is
	// still unconfirmed. It is deliberately distinct from the four bands so
	// premature levels are never shown.
	FunctionalityPending FunctionalityLevel = "PENDING"
)

// AreaStatus is the rolled-up state of one governance area.
type AreaStatus string

const (
	AreaPass    AreaStatus = "PASS"
	AreaFail    AreaStatus = "FAIL"
	AreaPending AreaStatus = "PENDING"
)

// OverallVerdict is the certification outcome of a full rollup.
type OverallVerdict string

const (
	OverallPass OverallVerdict = "PASS"
	OverallFail OverallVerdict = "FAIL"
	// OverallIncomplete is reported while any scored indicator is pending.
	OverallIncomplete OverallVerdict = "INCOMPLETE"
)
