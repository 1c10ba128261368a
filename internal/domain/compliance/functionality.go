package compliance

// Thresholds are the minimum pass ratios of the three upper functionality
// bands. Bands are contiguous and cover [0,1]:
//
//	[Highly, 1]          HIGHLY_FUNCTIONAL
//	[Moderately, Highly) MODERATELY_FUNCTIONAL
//	[Low, Moderately)    LOW_FUNCTIONAL
//	[0, Low)             NON_FUNCTIONAL
type Thresholds struct {
	Highly     float64 `yaml:"highly"`
	Moderately float64 `yaml:"moderately"`
	Low        float64 `yaml:"low"`
}

// Validate rejects threshold sets that would leave gaps or overlaps.
func (t Thresholds) Validate() error {
	if t.Low <= 0 || t.Low > t.Moderately || t.Moderately > t.Highly || t.Highly > 1 {
		return configErrorf("functionality thresholds must satisfy 0 < low <= moderately <= highly <= 1, got low=%v moderately=%v highly=%v", t.Low, t.Moderately, t.Highly)
	}
	return nil
}

// AggregateFunctionality maps the confirmed verdicts of an institution's
// contributing indicators to a functionality level. Any pending contribution
// (NO_DATA or empty) makes the whole institution pending: a level is only
// reported once every contributing indicator is confirmed.
func AggregateFunctionality(verdicts []Verdict, th Thresholds) (FunctionalityLevel, error) {
	if err := th.Validate(); err != nil {
		return "", err
	}
	if len(verdicts) == 0 {
		return FunctionalityPending, nil
	}
	passed := 0
	for _, v := range verdicts {
		switch v {
		case VerdictPass:
			passed++
		case VerdictFail:
		case VerdictNoData, "":
			return FunctionalityPending, nil
		default:
			return "", configErrorf("unrecognized verdict %q", v)
		}
	}
	ratio := float64(passed) / float64(len(verdicts))
	switch {
	case ratio >= th.Highly:
		return HighlyFunctional, nil
	case ratio >= th.Moderately:
		return ModeratelyFunctional, nil
	case ratio >= th.Low:
		return LowFunctional, nil
	default:
		return NonFunctional, nil
	}
}
