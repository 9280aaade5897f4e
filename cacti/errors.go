package cacti

import "fmt"

// ExternalToolError reports a CACTI invocation that failed to start, exited
// with an error or produced output that could not be parsed.
type ExternalToolError struct {
	Op     string
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("cacti %s failed: %v", e.Op, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
