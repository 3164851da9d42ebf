package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
)

// Commentary interprets one test result at the run's significance level.
type Commentary struct {
	Test       string `json:"test"`
	Question   string `json:"question"`
	Hypotheses string `json:"hypotheses"`
	Reject     bool   `json:"reject_null"`
	Conclusion string `json:"conclusion"`
}

func commentary(r *Results) []Commentary {
	var out []Commentary
	a := r.Alpha

	if t := r.TTest; t != nil {
		c := Commentary{
			Test:       "t-test",
			Question:   "Is there a significant difference in median home value between houses bounded by the Charles River and those that are not?",
			Hypotheses: "H0: mean MEDV is equal for CHAS=0 and CHAS=1. H1: the means differ.",
			Reject:     t.P < a,
		}
		higher := "CHAS=1"
		if t.Mean1 > t.Mean2 {
			higher = "CHAS=0"
		}
		if c.Reject {
			c.Conclusion = fmt.Sprintf("p=%.4f < %.2f: reject H0. Tracts bounding the river differ in median value; %s has the higher mean (%.3f vs %.3f).",
				t.P, a, higher, math.Max(t.Mean1, t.Mean2), math.Min(t.Mean1, t.Mean2))
		} else {
			c.Conclusion = fmt.Sprintf("p=%.4f >= %.2f: fail to reject H0. No significant difference in median value by river boundary.", t.P, a)
		}
		out = append(out, c)
	}

	if an := r.Anova; an != nil {
		c := Commentary{
			Test:       "anova",
			Question:   fmt.Sprintf("Is there a difference in median home value across %s groups?", dataset.ColAgeGroup),
			Hypotheses: "H0: mean MEDV is equal across all age groups. H1: at least one group mean differs.",
			Reject:     an.P < a,
		}
		if c.Reject {
			c.Conclusion = fmt.Sprintf("p=%.4f < %.2f: reject H0. Median value differs with the share of owner-occupied units built before 1940.", an.P, a)
		} else {
			c.Conclusion = fmt.Sprintf("p=%.4f >= %.2f: fail to reject H0. No significant difference across age groups.", an.P, a)
		}
		out = append(out, c)
	}

	if cr := r.Correlation; cr != nil {
		c := Commentary{
			Test:       "correlation",
			Question:   "Is there a relationship between nitric oxide concentration and the proportion of non-retail business acres per town?",
			Hypotheses: "H0: NOX and INDUS are uncorrelated (r=0). H1: they are correlated.",
			Reject:     cr.P < a,
		}
		if c.Reject {
			c.Conclusion = fmt.Sprintf("p=%.4f < %.2f: reject H0. The correlation is %s and %s (r=%.3f).",
				cr.P, a, strength(cr.R), direction(cr.R), cr.R)
		} else {
			c.Conclusion = fmt.Sprintf("p=%.4f >= %.2f: fail to reject H0. No significant linear relationship (r=%.3f).", cr.P, a, cr.R)
		}
		out = append(out, c)
	}

	if rg := r.Regression; rg != nil {
		c := Commentary{
			Test:       "regression",
			Question:   "What is the impact of distance to the Boston employment centres on median home value?",
			Hypotheses: "H0: the DIS coefficient is zero. H1: it is not.",
			Reject:     rg.Slope.P < a,
		}
		verb := "increases"
		if rg.Slope.Value < 0 {
			verb = "decreases"
		}
		if c.Reject {
			c.Conclusion = fmt.Sprintf("p=%.4f < %.2f: reject H0. Each additional unit of weighted distance %s median value by %.3f ($1000s); DIS explains %.1f%% of the variance in MEDV.",
				rg.Slope.P, a, verb, math.Abs(rg.Slope.Value), rg.R2*100)
		} else {
			c.Conclusion = fmt.Sprintf("p=%.4f >= %.2f: fail to reject H0. Distance has no significant linear effect on median value.", rg.Slope.P, a)
		}
		out = append(out, c)
	}
	return out
}

// lowFit is the R² below which a single predictor is reported as leaving
// most of the variance unexplained.
const lowFit = 0.3

// summarize draws the overall conclusions of a run from the four tests.
func summarize(r *Results) []string {
	var out []string
	a := r.Alpha
	if t := r.TTest; t != nil {
		if t.P < a {
			out = append(out, fmt.Sprintf("River proximity matters: tracts bounding the Charles River average %.3f against %.3f for the rest.", t.Mean2, t.Mean1))
		} else {
			out = append(out, "River proximity shows no significant effect on median value.")
		}
	}
	if an := r.Anova; an != nil {
		if an.P < a {
			out = append(out, "Property age matters: median value differs across age groups.")
		} else {
			out = append(out, "Property age shows no significant effect on median value.")
		}
	}
	if cr := r.Correlation; cr != nil {
		if cr.P < a {
			out = append(out, fmt.Sprintf("Industrial land use and nitric oxide concentration are linked with a %s %s correlation (r=%.3f).", strength(cr.R), direction(cr.R), cr.R))
		} else {
			out = append(out, "No significant link between industrial land use and nitric oxide concentration.")
		}
	}
	if rg := r.Regression; rg != nil {
		if rg.Slope.P < a {
			out = append(out, fmt.Sprintf("Distance to employment centres has a significant %s effect on median value.", direction(rg.Slope.Value)))
		} else {
			out = append(out, "Distance to employment centres has no significant effect on median value.")
		}
		if rg.R2 < lowFit {
			out = append(out, fmt.Sprintf("Distance alone explains only %.1f%% of the variance in MEDV; other factors dominate home value.", rg.R2*100))
		}
	}
	return out
}

func strength(r float64) string {
	switch ar := math.Abs(r); {
	case ar >= 0.7:
		return "strong"
	case ar >= 0.4:
		return "moderate"
	default:
		return "weak"
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}
