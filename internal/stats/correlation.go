package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationResult is a Pearson correlation with its significance.
type CorrelationResult struct {
	N int
	R float64
	P float64 // two-sided, H0: rho == 0
}

// Pearson computes the linear correlation of paired samples x and y.
func Pearson(x, y []float64) (*CorrelationResult, error) {
	const name = "correlation"
	if len(x) != len(y) {
		return nil, &DegenerateInputError{Test: name, Reason: fmt.Sprintf("length mismatch: %d vs %d", len(x), len(y))}
	}
	if err := checkSize(name, "", len(x), 3); err != nil {
		return nil, err
	}
	if stat.Variance(x, nil) == 0 {
		return nil, &DegenerateInputError{Test: name, Reason: "first input has zero variance"}
	}
	if stat.Variance(y, nil) == 0 {
		return nil, &DegenerateInputError{Test: name, Reason: "second input has zero variance"}
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	n := len(x)
	dof := float64(n - 2)
	var p float64
	if math.Abs(r) < 1 {
		t := r * math.Sqrt(dof/(1-r*r))
		p = twoSidedP(t, dof)
	}
	return &CorrelationResult{N: n, R: r, P: p}, nil
}
