package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/housing-eda/internal/charts"
	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/stats"
)

const fixture = "../dataset/testdata/housing_sample.csv"

func loadFixture(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadFile(fixture)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return tbl
}

// syntheticCSV builds a small table; age overrides the AGE of the first row.
func syntheticCSV(age string) string {
	var b strings.Builder
	b.WriteString("MEDV,CHAS,AGE,INDUS,NOX,PTRATIO,DIS\n")
	ages := []string{age, "20", "30", "33", "40", "50", "60", "65", "75", "80", "90", "95"}
	for i, a := range ages {
		chas := 0
		if i%4 == 0 {
			chas = 1
		}
		fmt.Fprintf(&b, "%.1f,%d,%s,%.2f,%.3f,%.1f,%.2f\n",
			20+float64(i%5)*2.5, chas, a, 2+float64(i), 0.4+0.01*float64(i)+0.002*float64(i%3), 14+float64(i%6), 8-0.5*float64(i))
	}
	return b.String()
}

func TestRun_Fixture(t *testing.T) {
	tbl := loadFixture(t)
	res, err := Run(tbl, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
	if res.Rows != 36 {
		t.Fatalf("rows = %d", res.Rows)
	}
	if res.TTest.N1 != 31 || res.TTest.N2 != 5 {
		t.Fatalf("t-test sizes = %d/%d", res.TTest.N1, res.TTest.N2)
	}
	if !res.TTest.EqualVariance {
		t.Fatalf("default should be the pooled t-test")
	}
	if res.Anova.K != 3 || res.Anova.N != 36 {
		t.Fatalf("anova K=%d N=%d", res.Anova.K, res.Anova.N)
	}
	wantAges := []GroupSize{{"<=35 years", 8}, {"35-70 years", 13}, {">=70 years", 15}}
	for i, g := range wantAges {
		if res.AgeGroups[i] != g {
			t.Fatalf("age group %d = %+v, want %+v", i, res.AgeGroups[i], g)
		}
	}
	if res.Correlation.N != 36 || res.Correlation.R <= 0 {
		t.Fatalf("NOX and INDUS should correlate positively: %+v", res.Correlation)
	}
	if res.Regression.Slope.Name != dataset.ColDIS {
		t.Fatalf("slope name = %q", res.Regression.Slope.Name)
	}
	if len(res.Commentary) != 4 {
		t.Fatalf("commentary = %d entries", len(res.Commentary))
	}
	if len(res.Charts) != 0 {
		t.Fatalf("charts rendered without options")
	}
	if tbl.Has(dataset.ColAgeGroup) {
		t.Fatalf("input table was modified")
	}
}

func TestRun_WelchAndCharts(t *testing.T) {
	tbl := loadFixture(t)
	opt := DefaultOptions()
	opt.EqualVariance = false
	co := charts.DefaultOptions(filepath.Join(t.TempDir(), "out"))
	co.Format = "svg"
	opt.Charts = &co

	res, err := Run(tbl, opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TTest.EqualVariance {
		t.Fatalf("expected Welch")
	}
	if len(res.Charts) != len(charts.Names()) {
		t.Fatalf("charts = %d", len(res.Charts))
	}
	for _, c := range res.Charts {
		if _, err := os.Stat(c.Path); err != nil {
			t.Fatalf("chart missing: %v", err)
		}
	}
}

func TestRun_BadAlpha(t *testing.T) {
	opt := DefaultOptions()
	opt.Alpha = 1.5
	if _, err := Run(loadFixture(t), opt); err == nil {
		t.Fatalf("expected error for alpha out of range")
	}
}

func TestRun_OutOfRangeAge(t *testing.T) {
	tbl, err := dataset.Read(strings.NewReader(syntheticCSV("0")), "synthetic")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	_, err = Run(tbl, DefaultOptions())
	var oor *dataset.OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}

	opt := DefaultOptions()
	opt.LenientAge = true
	res, err := Run(tbl, opt)
	if err != nil {
		t.Fatalf("lenient Run: %v", err)
	}
	if res.Anova.N != 11 {
		t.Fatalf("unknown row should be excluded from anova, N=%d", res.Anova.N)
	}
	if res.TTest.N1+res.TTest.N2 != 12 {
		t.Fatalf("t-test should use every row")
	}
}

func TestRun_InsufficientGroup(t *testing.T) {
	csv := "MEDV,CHAS,AGE,INDUS,NOX,PTRATIO,DIS\n" +
		"24,0,20,2,0.5,15,4\n21,0,25,3,0.6,16,5\n" +
		"22,0,50,4,0.55,17,6\n23,1,60,5,0.61,18,3\n" +
		"25,1,80,6,0.7,19,2\n"
	tbl, err := dataset.Read(strings.NewReader(csv), "inline")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	_, err = Run(tbl, DefaultOptions())
	var ise *stats.InsufficientSampleError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InsufficientSampleError, got %v", err)
	}
}

func TestWriteText(t *testing.T) {
	res, err := Run(loadFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, res, TextOptions{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"== Two-sample t-test: MEDV by CHAS ==",
		"== One-way ANOVA: MEDV by AGE_GROUP ==",
		"== Pearson correlation: NOX vs INDUS ==",
		"== Linear regression: MEDV ~ DIS ==",
		"OLS Regression Results",
		"== Commentary ==",
		"== Conclusions ==",
		fmt.Sprintf("t-statistic: %.3f", res.TTest.T),
		fmt.Sprintf("p-value: %.4f", res.TTest.P),
		fmt.Sprintf("Pearson correlation coefficient: %.3f, p-value: %.4f", res.Correlation.R, res.Correlation.P),
		"Variance: pooled (Student)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color codes emitted with color disabled")
	}
}

func TestWriteJSON(t *testing.T) {
	res, err := Run(loadFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p := filepath.Join(t.TempDir(), "results.json")
	if err := WriteJSON(p, res); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["run_id"] != res.RunID {
		t.Fatalf("run_id = %v", doc["run_id"])
	}
	tt, ok := doc["t_test"].(map[string]any)
	if !ok || tt["method"] != "student" {
		t.Fatalf("t_test = %v", doc["t_test"])
	}
	for _, k := range []string{"anova", "correlation", "regression", "commentary", "summary"} {
		if _, ok := doc[k]; !ok {
			t.Errorf("missing %s", k)
		}
	}
}

func TestNewDocument_NonFinite(t *testing.T) {
	// A perfect fit has an infinite F statistic.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{5, 7, 9, 11, 13}
	rg, err := stats.SimpleOLS(x, y, "x")
	if err != nil {
		t.Fatalf("SimpleOLS: %v", err)
	}
	doc := NewDocument(&Results{RunID: "r", Alpha: 0.05, Regression: rg})
	if doc.Regression.F != nil {
		t.Fatalf("infinite F should encode as null, got %v", *doc.Regression.F)
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestCommentary(t *testing.T) {
	r := &Results{
		Alpha:       0.05,
		TTest:       &stats.TTestResult{Mean1: 22.1, Mean2: 28.4, T: -3.9, P: 0.0001},
		Anova:       &stats.AnovaResult{F: 0.8, P: 0.45},
		Correlation: &stats.CorrelationResult{N: 506, R: 0.76, P: 1e-90},
		Regression: &stats.RegressionResult{
			Slope: stats.Coefficient{Name: "DIS", Value: 1.09, P: 1e-8},
			R2:    0.062,
		},
	}
	got := commentary(r)
	if len(got) != 4 {
		t.Fatalf("entries = %d", len(got))
	}
	if !got[0].Reject || !strings.Contains(got[0].Conclusion, "CHAS=1 has the higher mean") {
		t.Fatalf("t-test commentary: %+v", got[0])
	}
	if got[1].Reject || !strings.Contains(got[1].Conclusion, "fail to reject") {
		t.Fatalf("anova commentary: %+v", got[1])
	}
	if !strings.Contains(got[2].Conclusion, "strong and positive") {
		t.Fatalf("correlation commentary: %+v", got[2])
	}
	if !strings.Contains(got[3].Conclusion, "increases median value by 1.090") || !strings.Contains(got[3].Conclusion, "6.2%") {
		t.Fatalf("regression commentary: %+v", got[3])
	}
}

func TestSummarize(t *testing.T) {
	r := &Results{
		Alpha:       0.05,
		TTest:       &stats.TTestResult{Mean1: 22.1, Mean2: 28.4, P: 0.0001},
		Anova:       &stats.AnovaResult{P: 0.45},
		Correlation: &stats.CorrelationResult{R: 0.76, P: 1e-90},
		Regression: &stats.RegressionResult{
			Slope: stats.Coefficient{Name: "DIS", Value: 1.09, P: 1e-8},
			R2:    0.062,
		},
	}
	got := summarize(r)
	if len(got) != 5 {
		t.Fatalf("lines = %d: %v", len(got), got)
	}
	for i, want := range []string{
		"River proximity matters",
		"Property age shows no significant effect",
		"strong positive correlation (r=0.760)",
		"significant positive effect",
		"only 6.2% of the variance",
	} {
		if !strings.Contains(got[i], want) {
			t.Errorf("line %d = %q, want %q", i, got[i], want)
		}
	}

	r.Regression.R2 = 0.8
	if got := summarize(r); len(got) != 4 {
		t.Fatalf("well-fitting regression should not add a low-fit note: %v", got)
	}
}
