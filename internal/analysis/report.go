package analysis

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/stats"
	"github.com/KaramelBytes/housing-eda/internal/utils"
)

// TextOptions controls the plain-text report.
type TextOptions struct {
	Color bool
}

// WriteText prints the results with three decimals for statistics and four
// for p-values, followed by the regression summary, the commentary and the
// overall conclusions.
func WriteText(w io.Writer, r *Results, opt TextOptions) error {
	ok := color.New(color.FgGreen, color.Bold)
	no := color.New(color.FgYellow)
	head := color.New(color.Bold)
	if !opt.Color {
		ok.DisableColor()
		no.DisableColor()
		head.DisableColor()
	}
	verdict := func(reject bool) string {
		if reject {
			return ok.Sprintf("reject H0 (α=%.2f)", r.Alpha)
		}
		return no.Sprintf("fail to reject H0 (α=%.2f)", r.Alpha)
	}
	rejects := map[string]bool{}
	for _, c := range r.Commentary {
		rejects[c.Test] = c.Reject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	fmt.Fprintf(&b, "Source: %s (%d rows)\n", r.Source, r.Rows)

	if t := r.TTest; t != nil {
		b.WriteString("\n" + head.Sprint("== Two-sample t-test: MEDV by CHAS ==") + "\n")
		fmt.Fprintf(&b, "CHAS=0: n=%d, mean=%.3f\n", t.N1, t.Mean1)
		fmt.Fprintf(&b, "CHAS=1: n=%d, mean=%.3f\n", t.N2, t.Mean2)
		variance := "pooled (Student)"
		if !t.EqualVariance {
			variance = "unequal (Welch)"
		}
		fmt.Fprintf(&b, "Variance: %s\n", variance)
		fmt.Fprintf(&b, "t-statistic: %.3f, df: %.3f, p-value: %.4f\n", t.T, t.DoF, t.P)
		fmt.Fprintf(&b, "Verdict: %s\n", verdict(rejects["t-test"]))
	}

	if an := r.Anova; an != nil {
		b.WriteString("\n" + head.Sprint("== One-way ANOVA: MEDV by "+dataset.ColAgeGroup+" ==") + "\n")
		for i, g := range r.AgeGroups {
			if i < len(an.Means) {
				fmt.Fprintf(&b, "%s: n=%d, mean=%.3f\n", g.Label, g.N, an.Means[i])
			}
		}
		fmt.Fprintf(&b, "F-statistic: %.3f, df: (%.0f, %.0f), p-value: %.4f\n", an.F, an.DFBetween, an.DFWithin, an.P)
		fmt.Fprintf(&b, "Verdict: %s\n", verdict(rejects["anova"]))
	}

	if cr := r.Correlation; cr != nil {
		b.WriteString("\n" + head.Sprint("== Pearson correlation: NOX vs INDUS ==") + "\n")
		fmt.Fprintf(&b, "n=%d\n", cr.N)
		fmt.Fprintf(&b, "Pearson correlation coefficient: %.3f, p-value: %.4f\n", cr.R, cr.P)
		fmt.Fprintf(&b, "Verdict: %s\n", verdict(rejects["correlation"]))
	}

	if rg := r.Regression; rg != nil {
		b.WriteString("\n" + head.Sprint("== Linear regression: MEDV ~ DIS ==") + "\n")
		b.WriteString(rg.Summary(dataset.ColMEDV))
		fmt.Fprintf(&b, "Verdict: %s\n", verdict(rejects["regression"]))
	}

	if len(r.Commentary) > 0 {
		b.WriteString("\n" + head.Sprint("== Commentary ==") + "\n")
		for _, c := range r.Commentary {
			fmt.Fprintf(&b, "[%s] %s\n  %s\n  %s\n", c.Test, c.Question, c.Hypotheses, c.Conclusion)
		}
	}

	if len(r.Summary) > 0 {
		b.WriteString("\n" + head.Sprint("== Conclusions ==") + "\n")
		for _, line := range r.Summary {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if len(r.Charts) > 0 {
		b.WriteString("\n" + head.Sprint("== Charts ==") + "\n")
		for _, c := range r.Charts {
			fmt.Fprintf(&b, "✓ %s: %s\n", c.Name, c.Path)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Document is the JSON form of a run. Non-finite numbers are encoded as null.
type Document struct {
	RunID       string         `json:"run_id"`
	Source      string         `json:"source"`
	Rows        int            `json:"rows"`
	Alpha       float64        `json:"alpha"`
	StartedAt   time.Time      `json:"started_at"`
	RiverGroups []GroupSize    `json:"river_groups"`
	AgeGroups   []GroupSize    `json:"age_groups"`
	TTest       *testDoc       `json:"t_test,omitempty"`
	Anova       *testDoc       `json:"anova,omitempty"`
	Correlation *testDoc       `json:"correlation,omitempty"`
	Regression  *regressionDoc `json:"regression,omitempty"`
	Commentary  []Commentary   `json:"commentary"`
	Summary     []string       `json:"summary"`
	Charts      []chartDoc     `json:"charts,omitempty"`
}

type testDoc struct {
	Statistic *float64   `json:"statistic"`
	DoF       []*float64 `json:"df"`
	P         *float64   `json:"p_value"`
	Means     []*float64 `json:"means,omitempty"`
	Method    string     `json:"method"`
}

type coefDoc struct {
	Name    string   `json:"name"`
	Value   *float64 `json:"coef"`
	StdErr  *float64 `json:"std_err"`
	T       *float64 `json:"t"`
	P       *float64 `json:"p_value"`
	CILower *float64 `json:"ci_lower"`
	CIUpper *float64 `json:"ci_upper"`
}

type regressionDoc struct {
	N         int      `json:"n"`
	Intercept coefDoc  `json:"intercept"`
	Slope     coefDoc  `json:"slope"`
	R2        *float64 `json:"r_squared"`
	AdjR2     *float64 `json:"adj_r_squared"`
	F         *float64 `json:"f_statistic"`
	FP        *float64 `json:"f_p_value"`
	DFResid   *float64 `json:"df_resid"`
	LogLik    *float64 `json:"log_likelihood"`
	AIC       *float64 `json:"aic"`
	BIC       *float64 `json:"bic"`
}

type chartDoc struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NewDocument converts results to their JSON form.
func NewDocument(r *Results) *Document {
	d := &Document{
		RunID:       r.RunID,
		Source:      r.Source,
		Rows:        r.Rows,
		Alpha:       r.Alpha,
		StartedAt:   r.StartedAt,
		RiverGroups: r.RiverGroups,
		AgeGroups:   r.AgeGroups,
		Commentary:  r.Commentary,
		Summary:     r.Summary,
	}
	if t := r.TTest; t != nil {
		method := "student"
		if !t.EqualVariance {
			method = "welch"
		}
		d.TTest = &testDoc{
			Statistic: finite(t.T),
			DoF:       finites(t.DoF),
			P:         finite(t.P),
			Means:     finites(t.Mean1, t.Mean2),
			Method:    method,
		}
	}
	if an := r.Anova; an != nil {
		d.Anova = &testDoc{
			Statistic: finite(an.F),
			DoF:       finites(an.DFBetween, an.DFWithin),
			P:         finite(an.P),
			Means:     finites(an.Means...),
			Method:    "one-way",
		}
	}
	if cr := r.Correlation; cr != nil {
		d.Correlation = &testDoc{
			Statistic: finite(cr.R),
			DoF:       finites(float64(cr.N - 2)),
			P:         finite(cr.P),
			Method:    "pearson",
		}
	}
	if rg := r.Regression; rg != nil {
		d.Regression = &regressionDoc{
			N:         rg.N,
			Intercept: coefficientDoc(rg.Intercept),
			Slope:     coefficientDoc(rg.Slope),
			R2:        finite(rg.R2),
			AdjR2:     finite(rg.AdjR2),
			F:         finite(rg.F),
			FP:        finite(rg.FP),
			DFResid:   finite(rg.DFResid),
			LogLik:    finite(rg.LogLik),
			AIC:       finite(rg.AIC),
			BIC:       finite(rg.BIC),
		}
	}
	for _, c := range r.Charts {
		d.Charts = append(d.Charts, chartDoc{Name: c.Name, Path: c.Path})
	}
	return d
}

// WriteJSON writes the JSON document for r to path.
func WriteJSON(path string, r *Results) error {
	b, err := utils.PrettyJSON(NewDocument(r))
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, append(b, '\n')); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func coefficientDoc(c stats.Coefficient) coefDoc {
	return coefDoc{
		Name:    c.Name,
		Value:   finite(c.Value),
		StdErr:  finite(c.StdErr),
		T:       finite(c.T),
		P:       finite(c.P),
		CILower: finite(c.CILower),
		CIUpper: finite(c.CIUpper),
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finites(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = finite(v)
	}
	return out
}
