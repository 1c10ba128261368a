package compliance

import (
	"strings"

	"github.com/barangaylink/sglgb-backend/internal/domain/catalog"
)

// Item is one checklist entry prepared for evaluation: informational items
// are filtered out before this point, so every Item is validatable.
type Item struct {
	Required  bool
	Satisfied bool
}

// Evaluate reduces a sub-indicator's checklist items to a verdict. It is
// pure: no I/O, no ordering dependence, same input always yields the same
// output. Persisting the result is the caller's responsibility.
func Evaluate(rule ValidationRule, items []Item) (Verdict, error) {
	required := 0
	satisfied := 0
	for _, it := range items {
		if !it.Required {
			continue
		}
		required++
		if it.Satisfied {
			satisfied++
		}
	}
	if required == 0 {
		return VerdictNoData, nil
	}
	switch rule {
	case RuleAllItemsRequired:
		if satisfied == required {
			return VerdictPass, nil
		}
		return VerdictFail, nil
	case RuleAnyItemRequired:
		if satisfied > 0 {
			return VerdictPass, nil
		}
		return VerdictFail, nil
	default:
		return "", configErrorf("unrecognized validation rule %q", rule)
	}
}

// Answer is the typed value of one checklist response.
type Answer struct {
	Checked bool
	Count   int
	// YesNo is nil when the question was not answered.
	YesNo *bool
}

// Validatable reports whether an item kind participates in evaluation.
// Informational kinds are displayed but never affect the verdict.
func Validatable(kind string) bool {
	switch kind {
	case catalog.ItemKindCheckbox, catalog.ItemKindCount, catalog.ItemKindYesNo:
		return true
	default:
		return false
	}
}

// Satisfied applies the per-kind satisfaction predicate of a checklist item
// to an answer.
func Satisfied(item catalog.ChecklistItem, ans Answer) (bool, error) {
	switch item.Kind {
	case catalog.ItemKindCheckbox:
		return ans.Checked, nil
	case catalog.ItemKindCount:
		min := item.MinCount
		if min <= 0 {
			min = 1
		}
		return ans.Count >= min, nil
	case catalog.ItemKindYesNo:
		if ans.YesNo == nil {
			return false, nil
		}
		return *ans.YesNo == item.ExpectedYes, nil
	case catalog.ItemKindNote:
		return false, configErrorf("informational item %s is not validatable", item.ID)
	default:
		return false, configErrorf("unrecognized checklist item kind %q", item.Kind)
	}
}

// ParseYesNo normalizes a free-form yes/no answer. The second return is
// false when the text is not a recognizable answer.
func ParseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	default:
		return false, false
	}
}
