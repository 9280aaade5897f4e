package array

import "fmt"

// ConfigurationError reports a hardware description that cannot be
// evaluated. It is never recovered locally.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ParameterWarning records a parameter that was corrected instead of
// rejected. Warnings are handed back to the caller together with the
// corrected configuration.
type ParameterWarning struct {
	Field  string
	Given  float64
	Used   float64
	Reason string
}

func (w ParameterWarning) String() string {
	return fmt.Sprintf("%s: %s (given %g, using %g)",
		w.Field, w.Reason, w.Given, w.Used)
}
