package compliance

import "testing"

func defaultThresholds() Thresholds {
	return Thresholds{Highly: 0.8, Moderately: 0.5, Low: 0.2}
}

func TestAggregateFunctionalityBands(t *testing.T) {
	cases := []struct {
		name     string
		verdicts []Verdict
		want     FunctionalityLevel
	}{
		{"all pass", []Verdict{VerdictPass, VerdictPass, VerdictPass}, HighlyFunctional},
		{"four of five", []Verdict{VerdictPass, VerdictPass, VerdictPass, VerdictPass, VerdictFail}, HighlyFunctional},
		{"half", []Verdict{VerdictPass, VerdictFail}, ModeratelyFunctional},
		{"one of four", []Verdict{VerdictPass, VerdictFail, VerdictFail, VerdictFail}, LowFunctional},
		{"none", []Verdict{VerdictFail, VerdictFail}, NonFunctional},
	}
	for _, tc := range cases {
		got, err := AggregateFunctionality(tc.verdicts, defaultThresholds())
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestAggregateFunctionalityPendingDominates(t *testing.T) {
	// Two confirmed passes do not produce a level while the third
	// contribution is still pending.
	got, err := AggregateFunctionality([]Verdict{VerdictPass, VerdictPass, VerdictNoData}, defaultThresholds())
	if err != nil {
		t.Fatalf("AggregateFunctionality: %v", err)
	}
	if got != FunctionalityPending {
		t.Fatalf("expected PENDING with an unconfirmed contribution, got %s", got)
	}

	got, err = AggregateFunctionality(nil, defaultThresholds())
	if err != nil {
		t.Fatalf("AggregateFunctionality(nil): %v", err)
	}
	if got != FunctionalityPending {
		t.Fatalf("expected PENDING with no contributions, got %s", got)
	}
}

func TestThresholdsValidate(t *testing.T) {
	bad := []Thresholds{
		{Highly: 0.5, Moderately: 0.8, Low: 0.2}, // overlapping bands
		{Highly: 1.2, Moderately: 0.5, Low: 0.2}, // above 1
		{Highly: 0.8, Moderately: 0.5, Low: 0},   // gap at zero
	}
	for i, th := range bad {
		if err := th.Validate(); !IsConfigurationError(err) {
			t.Fatalf("case %d: expected configuration error, got %v", i, err)
		}
	}
	if err := defaultThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds must validate: %v", err)
	}
}

func TestAggregateFunctionalityUnknownVerdict(t *testing.T) {
	if _, err := AggregateFunctionality([]Verdict{"PERHAPS"}, defaultThresholds()); !IsConfigurationError(err) {
		t.Fatalf("expected configuration error for unknown verdict, got %v", err)
	}
}
