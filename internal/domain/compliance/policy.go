package compliance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy bundles every configurable compliance rule: the N-of-M
// certification thresholds, per-institution functionality bands, and the
// calibration round budget. Nothing in here is a hardcoded constant of the
// engine; it ships as a YAML file alongside the deployment.
type Policy struct {
	Certification CertificationRule `yaml:"certification"`

	// FunctionalityDefaults applies to institutions without a dedicated
	// entry in Functionality.
	FunctionalityDefaults Thresholds `yaml:"functionality_defaults"`
	// Functionality maps institution code -> thresholds.
	Functionality map[string]Thresholds `yaml:"functionality"`

	// MaxCalibrationRounds bounds calibration cycles per governance area.
	MaxCalibrationRounds int `yaml:"max_calibration_rounds"`

	// RequireApproval routes finalize_validation through
	// AWAITING_MLGOO_APPROVAL instead of completing immediately.
	RequireApproval bool `yaml:"require_approval"`
}

// DefaultPolicy mirrors the national programme defaults: pass at least 3 of
// 6 core areas plus 1 non-core area, three calibration rounds per area, and
// municipal approval required before completion.
func DefaultPolicy() Policy {
	return Policy{
		Certification: CertificationRule{
			MinCoreAreasPassed:    3,
			MinNonCoreAreasPassed: 1,
		},
		FunctionalityDefaults: Thresholds{
			Highly:     0.8,
			Moderately: 0.5,
			Low:        0.2,
		},
		MaxCalibrationRounds: 3,
		RequireApproval:      true,
	}
}

// LoadPolicy reads a policy file, layering it over DefaultPolicy. An empty
// path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if err := p.Certification.Validate(); err != nil {
		return err
	}
	if err := p.FunctionalityDefaults.Validate(); err != nil {
		return err
	}
	for code, th := range p.Functionality {
		if err := th.Validate(); err != nil {
			return configErrorf("institution %q: %v", code, err)
		}
	}
	if p.MaxCalibrationRounds < 1 {
		return configErrorf("max_calibration_rounds must be >= 1, got %d", p.MaxCalibrationRounds)
	}
	return nil
}

// ThresholdsFor resolves the functionality thresholds for an institution
// code.
func (p Policy) ThresholdsFor(code string) Thresholds {
	if th, ok := p.Functionality[code]; ok {
		return th
	}
	return p.FunctionalityDefaults
}
