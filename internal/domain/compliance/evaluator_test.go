package compliance

import (
	"testing"

	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/domain/catalog"
)

func TestEvaluateAllItemsRequired(t *testing.T) {
	v, err := Evaluate(RuleAllItemsRequired, []Item{
		{Required: true, Satisfied: true},
		{Required: true, Satisfied: false},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != VerdictFail {
		t.Fatalf("expected FAIL when a required item is unsatisfied, got %s", v)
	}

	v, err = Evaluate(RuleAllItemsRequired, []Item{
		{Required: true, Satisfied: true},
		{Required: false, Satisfied: false},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != VerdictPass {
		t.Fatalf("expected PASS when only optional items are unsatisfied, got %s", v)
	}
}

func TestEvaluateAnyItemRequired(t *testing.T) {
	v, err := Evaluate(RuleAnyItemRequired, []Item{
		{Required: true, Satisfied: false},
		{Required: true, Satisfied: true},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != VerdictPass {
		t.Fatalf("expected PASS when one required item is satisfied, got %s", v)
	}

	v, err = Evaluate(RuleAnyItemRequired, []Item{
		{Required: true, Satisfied: false},
		{Required: true, Satisfied: false},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != VerdictFail {
		t.Fatalf("expected FAIL when all required items are unsatisfied, got %s", v)
	}
}

func TestEvaluateNoRequiredItemsYieldsNoData(t *testing.T) {
	for _, rule := range []ValidationRule{RuleAllItemsRequired, RuleAnyItemRequired} {
		v, err := Evaluate(rule, []Item{
			{Required: false, Satisfied: true},
			{Required: false, Satisfied: false},
		})
		if err != nil {
			t.Fatalf("Evaluate(%s): %v", rule, err)
		}
		if v != VerdictNoData {
			t.Fatalf("Evaluate(%s): expected NO_DATA with zero required items, got %s", rule, v)
		}

		v, err = Evaluate(rule, nil)
		if err != nil {
			t.Fatalf("Evaluate(%s, nil): %v", rule, err)
		}
		if v != VerdictNoData {
			t.Fatalf("Evaluate(%s, nil): expected NO_DATA, got %s", rule, v)
		}
	}
}

func TestEvaluateUnknownRuleIsConfigurationError(t *testing.T) {
	_, err := Evaluate("SOME_FUTURE_RULE", []Item{{Required: true, Satisfied: true}})
	if err == nil {
		t.Fatalf("expected configuration error for unknown rule")
	}
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	items := []Item{
		{Required: true, Satisfied: true},
		{Required: true, Satisfied: false},
		{Required: false, Satisfied: true},
	}
	first, err := Evaluate(RuleAllItemsRequired, items)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := Evaluate(RuleAllItemsRequired, items)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if first != second {
		t.Fatalf("evaluator not deterministic: %s then %s", first, second)
	}
}

func TestSatisfiedPerKind(t *testing.T) {
	checkbox := catalog.ChecklistItem{ID: uuid.New(), Kind: catalog.ItemKindCheckbox}
	ok, err := Satisfied(checkbox, Answer{Checked: true})
	if err != nil || !ok {
		t.Fatalf("checked checkbox: ok=%v err=%v", ok, err)
	}
	ok, err = Satisfied(checkbox, Answer{Checked: false})
	if err != nil || ok {
		t.Fatalf("unchecked checkbox: ok=%v err=%v", ok, err)
	}

	count := catalog.ChecklistItem{ID: uuid.New(), Kind: catalog.ItemKindCount, MinCount: 2}
	ok, err = Satisfied(count, Answer{Count: 2})
	if err != nil || !ok {
		t.Fatalf("count at floor: ok=%v err=%v", ok, err)
	}
	ok, err = Satisfied(count, Answer{Count: 1})
	if err != nil || ok {
		t.Fatalf("count below floor: ok=%v err=%v", ok, err)
	}

	// MinCount defaults to 1 when unset.
	countDefault := catalog.ChecklistItem{ID: uuid.New(), Kind: catalog.ItemKindCount}
	ok, err = Satisfied(countDefault, Answer{Count: 1})
	if err != nil || !ok {
		t.Fatalf("count default floor: ok=%v err=%v", ok, err)
	}

	yes := true
	no := false
	yesNo := catalog.ChecklistItem{ID: uuid.New(), Kind: catalog.ItemKindYesNo, ExpectedYes: true}
	ok, err = Satisfied(yesNo, Answer{YesNo: &yes})
	if err != nil || !ok {
		t.Fatalf("matching polarity: ok=%v err=%v", ok, err)
	}
	ok, err = Satisfied(yesNo, Answer{YesNo: &no})
	if err != nil || ok {
		t.Fatalf("mismatched polarity: ok=%v err=%v", ok, err)
	}
	ok, err = Satisfied(yesNo, Answer{})
	if err != nil || ok {
		t.Fatalf("unanswered yes/no: ok=%v err=%v", ok, err)
	}

	note := catalog.ChecklistItem{ID: uuid.New(), Kind: catalog.ItemKindNote}
	if _, err = Satisfied(note, Answer{}); !IsConfigurationError(err) {
		t.Fatalf("informational item must not be evaluated, got %v", err)
	}

	unknown := catalog.ChecklistItem{ID: uuid.New(), Kind: "hologram"}
	if _, err = Satisfied(unknown, Answer{}); !IsConfigurationError(err) {
		t.Fatalf("unknown kind must be a configuration error, got %v", err)
	}
}

func TestValidatable(t *testing.T) {
	for kind, want := range map[string]bool{
		catalog.ItemKindCheckbox: true,
		catalog.ItemKindCount:    true,
		catalog.ItemKindYesNo:    true,
		catalog.ItemKindNote:     false,
		"":                       false,
	} {
		if got := Validatable(kind); got != want {
			t.Fatalf("Validatable(%q): want=%v got=%v", kind, want, got)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	if v, ok := ParseYesNo(" Yes "); !ok || !v {
		t.Fatalf("ParseYesNo(Yes): v=%v ok=%v", v, ok)
	}
	if v, ok := ParseYesNo("no"); !ok || v {
		t.Fatalf("ParseYesNo(no): v=%v ok=%v", v, ok)
	}
	if _, ok := ParseYesNo("maybe"); ok {
		t.Fatalf("ParseYesNo(maybe): expected not ok")
	}
}
