package stats

import "fmt"

// InsufficientSampleError indicates a sample (or group) has too few
// observations for the requested procedure.
type InsufficientSampleError struct {
	Test  string
	Group string
	N     int
	Min   int
}

func (e *InsufficientSampleError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("%s: insufficient sample size in group %s: n=%d, need at least %d", e.Test, e.Group, e.N, e.Min)
	}
	return fmt.Sprintf("%s: insufficient sample size: n=%d, need at least %d", e.Test, e.N, e.Min)
}

// DegenerateInputError indicates input for which the statistic is undefined,
// e.g. zero variance or mismatched pairs.
type DegenerateInputError struct {
	Test   string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: degenerate input: %s", e.Test, e.Reason)
}

func checkSize(test, group string, n, min int) error {
	if n < min {
		return &InsufficientSampleError{Test: test, Group: group, N: n, Min: min}
	}
	return nil
}
