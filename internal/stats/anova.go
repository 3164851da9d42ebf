package stats

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AnovaResult is the outcome of a one-way analysis of variance.
type AnovaResult struct {
	K         int
	N         int
	Means     []float64
	Sizes     []int
	SSBetween float64
	SSWithin  float64
	DFBetween float64
	DFWithin  float64
	F         float64
	P         float64
}

// OneWayAnova tests H0: all group means are equal. Group order does not
// affect the result.
func OneWayAnova(groups ...[]float64) (*AnovaResult, error) {
	const name = "anova"
	if len(groups) < 2 {
		return nil, &InsufficientSampleError{Test: name, Group: "count", N: len(groups), Min: 2}
	}
	res := &AnovaResult{K: len(groups)}
	var all []float64
	for i, g := range groups {
		if err := checkSize(name, strconv.Itoa(i+1), len(g), 2); err != nil {
			return nil, err
		}
		all = append(all, g...)
		res.Sizes = append(res.Sizes, len(g))
		res.Means = append(res.Means, stat.Mean(g, nil))
	}
	res.N = len(all)
	grand := stat.Mean(all, nil)

	for i, g := range groups {
		d := res.Means[i] - grand
		res.SSBetween += float64(len(g)) * d * d
		dev := make([]float64, len(g))
		copy(dev, g)
		floats.AddConst(-res.Means[i], dev)
		res.SSWithin += floats.Dot(dev, dev)
	}
	res.DFBetween = float64(res.K - 1)
	res.DFWithin = float64(res.N - res.K)

	if res.SSWithin == 0 {
		return nil, &DegenerateInputError{Test: name, Reason: "zero within-group variance"}
	}
	msb := res.SSBetween / res.DFBetween
	msw := res.SSWithin / res.DFWithin
	res.F = msb / msw
	res.P = distuv.F{D1: res.DFBetween, D2: res.DFWithin}.Survival(res.F)
	if math.IsNaN(res.P) {
		return nil, &DegenerateInputError{Test: name, Reason: "F statistic is undefined"}
	}
	return res, nil
}
