// Package stats implements the hypothesis tests used by the housing analysis:
// independent two-sample t-tests, one-way ANOVA, Pearson correlation and
// simple ordinary least squares regression.
//
// Every procedure is a pure function of its input samples.
package stats

import (
	"errors"
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of an independent two-sample t-test.
type TTestResult struct {
	N1, N2        int
	Mean1, Mean2  float64
	T             float64
	DoF           float64
	P             float64 // two-sided
	EqualVariance bool
}

// TTestOptions selects the variance assumption.
type TTestOptions struct {
	// EqualVariance uses the pooled (Student) estimate when true and the
	// Welch-Satterthwaite correction when false.
	EqualVariance bool
}

// TwoSampleTTest tests H0: mean(a) == mean(b) against a two-sided
// alternative. The statistic is positive when mean(a) > mean(b).
func TwoSampleTTest(a, b []float64, opt TTestOptions) (*TTestResult, error) {
	const name = "t-test"
	if err := checkSize(name, "1", len(a), 2); err != nil {
		return nil, err
	}
	if err := checkSize(name, "2", len(b), 2); err != nil {
		return nil, err
	}
	s1 := moremath.Sample{Xs: a}
	s2 := moremath.Sample{Xs: b}

	var (
		res *moremath.TTestResult
		err error
	)
	if opt.EqualVariance {
		res, err = moremath.TwoSampleTTest(s1, s2, moremath.LocationDiffers)
	} else {
		res, err = moremath.TwoSampleWelchTTest(s1, s2, moremath.LocationDiffers)
	}
	if err != nil {
		if errors.Is(err, moremath.ErrZeroVariance) {
			return nil, &DegenerateInputError{Test: name, Reason: "both samples have zero variance"}
		}
		if errors.Is(err, moremath.ErrSampleSize) {
			return nil, &InsufficientSampleError{Test: name, N: min(len(a), len(b)), Min: 2}
		}
		return nil, err
	}
	if math.IsNaN(res.T) || math.IsInf(res.T, 0) {
		return nil, &DegenerateInputError{Test: name, Reason: "standard error of the difference is zero"}
	}
	return &TTestResult{
		N1:            len(a),
		N2:            len(b),
		Mean1:         stat.Mean(a, nil),
		Mean2:         stat.Mean(b, nil),
		T:             res.T,
		DoF:           res.DoF,
		P:             twoSidedP(res.T, res.DoF),
		EqualVariance: opt.EqualVariance,
	}, nil
}

// twoSidedP returns P(|T| >= |t|) for a Student t with dof degrees of freedom.
func twoSidedP(t, dof float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	d := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	p := 2 * d.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}
