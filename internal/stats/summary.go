package stats

import (
	"fmt"
	"math"
	"strings"
)

const summaryWidth = 78

// Summary renders the fit as a plain-text regression report in the layout
// conventionally used by OLS summaries.
func (r *RegressionResult) Summary(response string) string {
	var b strings.Builder
	title := "OLS Regression Results"
	pad := (summaryWidth - len(title)) / 2
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(strings.Repeat("=", summaryWidth) + "\n")

	left := [][2]string{
		{"Dep. Variable:", response},
		{"Model:", "OLS"},
		{"Method:", "Least Squares"},
		{"No. Observations:", fmt.Sprintf("%d", r.N)},
		{"Df Residuals:", fmt.Sprintf("%.0f", r.DFResid)},
		{"Df Model:", fmt.Sprintf("%.0f", r.DFModel)},
		{"", ""},
	}
	right := [][2]string{
		{"R-squared:", fmt.Sprintf("%.3f", r.R2)},
		{"Adj. R-squared:", fmt.Sprintf("%.3f", r.AdjR2)},
		{"F-statistic:", formatG(r.F, 4)},
		{"Prob (F-statistic):", formatG(r.FP, 3)},
		{"Log-Likelihood:", formatG(r.LogLik, 5)},
		{"AIC:", formatG(r.AIC, 4)},
		{"BIC:", formatG(r.BIC, 4)},
	}
	for i := range left {
		b.WriteString(cell(left[i][0], left[i][1], 36))
		b.WriteString("   ")
		b.WriteString(cell(right[i][0], right[i][1], 39))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("=", summaryWidth) + "\n")
	b.WriteString(fmt.Sprintf("%-10s%12s%11s%11s%10s%12s%12s\n", "", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]"))
	b.WriteString(strings.Repeat("-", summaryWidth) + "\n")
	for _, c := range []Coefficient{r.Intercept, r.Slope} {
		name := c.Name
		if len(name) > 10 {
			name = name[:10]
		}
		b.WriteString(fmt.Sprintf("%-10s%12.4f%11.3f%11.3f%10.3f%12.3f%12.3f\n", name, c.Value, c.StdErr, c.T, c.P, c.CILower, c.CIUpper))
	}
	b.WriteString(strings.Repeat("=", summaryWidth) + "\n")
	b.WriteString(cell("Durbin-Watson:", fmt.Sprintf("%.3f", r.DurbinWatson), 36))
	b.WriteString("   ")
	b.WriteString(cell("Resid. Std. Err.:", fmt.Sprintf("%.3f", r.ResidStdErr), 39))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", summaryWidth) + "\n")
	return b.String()
}

func cell(label, value string, width int) string {
	gap := width - len(label) - len(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value
}

// formatG prints v with the given significant digits, switching to
// exponent form for very small magnitudes.
func formatG(v float64, digits int) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	if v != 0 && math.Abs(v) < 1e-3 {
		return fmt.Sprintf("%.*e", digits-1, v)
	}
	return fmt.Sprintf("%.*g", digits, v)
}
