package stats

import (
	"strings"
	"testing"
)

func TestSummaryLayout(t *testing.T) {
	x := []float64{4.09, 4.97, 6.06, 6.06, 5.56, 3.78, 2.09, 1.91, 2.42, 2.64}
	y := []float64{24.0, 21.6, 34.7, 33.4, 36.2, 28.7, 22.9, 27.1, 16.5, 18.9}
	res, err := SimpleOLS(x, y, "DIS")
	if err != nil {
		t.Fatalf("SimpleOLS: %v", err)
	}
	out := res.Summary("MEDV")
	for _, want := range []string{
		"OLS Regression Results",
		"Dep. Variable:",
		"MEDV",
		"No. Observations:",
		"R-squared:",
		"F-statistic:",
		"P>|t|",
		"[0.025",
		"Intercept",
		"DIS",
		"Durbin-Watson:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	for i, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) > summaryWidth {
			t.Errorf("line %d exceeds %d columns: %q", i, summaryWidth, line)
		}
	}
}

func TestFormatG(t *testing.T) {
	cases := []struct {
		in     float64
		digits int
		want   string
	}{
		{33.5789, 4, "33.58"},
		{0.0000121, 3, "1.21e-05"},
		{0, 4, "0"},
		{-1823.94, 5, "-1823.9"},
	}
	for _, c := range cases {
		if got := formatG(c.in, c.digits); got != c.want {
			t.Errorf("formatG(%v, %d) = %q, want %q", c.in, c.digits, got, c.want)
		}
	}
}
