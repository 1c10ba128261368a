package compliance

import (
	"errors"
	"fmt"
)

// ErrConfiguration tags indicator-schema problems (unknown rule, unknown item
// kind, malformed thresholds). It must never be downgraded to a FAIL verdict:
// evaluation halts for the affected indicator and the error propagates to
// operators.
var ErrConfiguration = errors.New("compliance configuration error")

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsConfigurationError reports whether err stems from bad indicator or
// policy configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
