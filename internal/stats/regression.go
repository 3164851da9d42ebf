package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one fitted parameter of a regression model.
type Coefficient struct {
	Name    string
	Value   float64
	StdErr  float64
	T       float64
	P       float64
	CILower float64
	CIUpper float64
}

// RegressionResult is a fitted simple linear regression y = a + b*x.
type RegressionResult struct {
	N            int
	Intercept    Coefficient
	Slope        Coefficient
	R2           float64
	AdjR2        float64
	F            float64
	FP           float64
	DFModel      float64
	DFResid      float64
	SSR          float64 // residual sum of squares
	ResidStdErr  float64
	LogLik       float64
	AIC          float64
	BIC          float64
	DurbinWatson float64
	Residuals    []float64
}

// Predict returns the fitted response at x.
func (r *RegressionResult) Predict(x float64) float64 {
	return r.Intercept.Value + r.Slope.Value*x
}

// SimpleOLS fits y on x by ordinary least squares with closed-form
// standard errors. The predictor name labels the slope coefficient.
func SimpleOLS(x, y []float64, predictor string) (*RegressionResult, error) {
	const name = "regression"
	if len(x) != len(y) {
		return nil, &DegenerateInputError{Test: name, Reason: "predictor and response have different lengths"}
	}
	if err := checkSize(name, "", len(x), 3); err != nil {
		return nil, err
	}
	xbar, xvar := stat.MeanVariance(x, nil)
	if xvar == 0 {
		return nil, &DegenerateInputError{Test: name, Reason: "predictor has zero variance"}
	}
	ybar, yvar := stat.MeanVariance(y, nil)
	if yvar == 0 {
		return nil, &DegenerateInputError{Test: name, Reason: "response has zero variance"}
	}
	n := float64(len(x))
	alpha, beta := stat.LinearRegression(x, y, nil, false)

	res := &RegressionResult{
		N:       len(x),
		DFModel: 1,
		DFResid: n - 2,
	}
	res.Residuals = make([]float64, len(x))
	var sst float64
	for i := range x {
		e := y[i] - (alpha + beta*x[i])
		res.Residuals[i] = e
		res.SSR += e * e
		d := y[i] - ybar
		sst += d * d
	}
	sxx := xvar * (n - 1)
	s2 := res.SSR / res.DFResid
	res.ResidStdErr = math.Sqrt(s2)

	tq := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DFResid}.Quantile(0.975)
	res.Intercept = coefficient("Intercept", alpha, math.Sqrt(s2*(1/n+xbar*xbar/sxx)), res.DFResid, tq)
	res.Slope = coefficient(predictor, beta, math.Sqrt(s2/sxx), res.DFResid, tq)

	res.R2 = 1 - res.SSR/sst
	res.AdjR2 = 1 - (1-res.R2)*(n-1)/res.DFResid
	if res.SSR == 0 {
		res.F = math.Inf(1)
		res.FP = 0
	} else {
		res.F = (sst - res.SSR) / res.DFModel / s2
		res.FP = distuv.F{D1: res.DFModel, D2: res.DFResid}.Survival(res.F)
	}

	res.LogLik = -n / 2 * (math.Log(2*math.Pi) + math.Log(res.SSR/n) + 1)
	k := res.DFModel + 1
	res.AIC = -2*res.LogLik + 2*k
	res.BIC = -2*res.LogLik + k*math.Log(n)

	if res.SSR > 0 {
		var num float64
		for i := 1; i < len(res.Residuals); i++ {
			d := res.Residuals[i] - res.Residuals[i-1]
			num += d * d
		}
		res.DurbinWatson = num / res.SSR
	}
	return res, nil
}

func coefficient(name string, value, se, dof, tq float64) Coefficient {
	c := Coefficient{Name: name, Value: value, StdErr: se}
	switch {
	case se > 0:
		c.T = value / se
	case value > 0:
		c.T = math.Inf(1)
	case value < 0:
		c.T = math.Inf(-1)
	}
	c.P = twoSidedP(c.T, dof)
	c.CILower = value - tq*se
	c.CIUpper = value + tq*se
	return c
}
