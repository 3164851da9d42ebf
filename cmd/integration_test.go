package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
)

const fixture = "../internal/dataset/testdata/housing_sample.csv"

// resetFlags restores flag defaults so sticky values do not leak between
// invocations of the shared rootCmd.
func resetFlags(cmds ...*cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd, runCmd, profileCmd, fetchCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmdOK is execute that fails the test on error.
func runCmdOK(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_RunEndToEnd(t *testing.T) {
	home := isolateHome(t)
	outDir := filepath.Join(home, "figs")
	jsonPath := filepath.Join(home, "results.json")

	out := runCmdOK(t, "run", "--file", fixture, "--out", outDir, "--json", jsonPath)
	for _, want := range []string{
		"== Two-sample t-test: MEDV by CHAS ==",
		"== One-way ANOVA: MEDV by AGE_GROUP ==",
		"== Pearson correlation: NOX vs INDUS ==",
		"== Linear regression: MEDV ~ DIS ==",
		"OLS Regression Results",
		"Variance: pooled (Student)",
		"✓ Wrote results to " + jsonPath,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, name := range []string{"medv_boxplot", "chas_counts", "medv_by_age_group", "nox_vs_indus", "ptratio_hist"} {
		if _, err := os.Stat(filepath.Join(outDir, name+".png")); err != nil {
			t.Errorf("chart %s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Fatalf("json not written: %v", err)
	}
}

func TestCLI_RunWelchNoCharts(t *testing.T) {
	home := isolateHome(t)
	out := runCmdOK(t, "run", "--file", fixture, "--no-charts", "--welch", "--alpha", "0.01")
	if !strings.Contains(out, "Variance: unequal (Welch)") {
		t.Fatalf("expected Welch test:\n%s", out)
	}
	if !strings.Contains(out, "(α=0.01)") {
		t.Fatalf("alpha flag not applied:\n%s", out)
	}
	if strings.Contains(out, "== Charts ==") {
		t.Fatalf("charts rendered with --no-charts")
	}
	if _, err := os.Stat(filepath.Join(home, "output")); !os.IsNotExist(err) {
		t.Fatalf("output dir created with --no-charts: %v", err)
	}
}

func TestCLI_RunMissingFile(t *testing.T) {
	home := isolateHome(t)
	_, err := execute(t, "run", "--file", filepath.Join(home, "nope.csv"), "--no-charts")
	var le *dataset.DataLoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}
}

func TestCLI_RunFromURLUsesCache(t *testing.T) {
	home := isolateHome(t)
	body, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	out := runCmdOK(t, "fetch", "--url", srv.URL+"/boston_housing.csv")
	cacheDir := filepath.Join(home, ".housing-eda", "cache")
	if !strings.Contains(out, "✓ Cached dataset at "+cacheDir+string(filepath.Separator)) ||
		!strings.Contains(out, "-boston_housing.csv") {
		t.Fatalf("unexpected fetch output: %s", out)
	}
	srv.Close()

	// The server is gone; the cached copy must serve the run.
	out = runCmdOK(t, "run", "--url", srv.URL+"/boston_housing.csv", "--no-charts")
	if !strings.Contains(out, "Source: "+srv.URL+"/boston_housing.csv (36 rows)") {
		t.Fatalf("run did not use cached dataset:\n%s", out)
	}
}

func TestCLI_Profile(t *testing.T) {
	home := isolateHome(t)
	out := runCmdOK(t, "profile", "--file", fixture)
	if !strings.Contains(out, "[DATASET SUMMARY]") || !strings.Contains(out, "- CHAS: 0(31), 1(5)") {
		t.Fatalf("unexpected profile:\n%s", out)
	}

	p := filepath.Join(home, "reports", "profile.md")
	out = runCmdOK(t, "profile", "--file", fixture, "--output", p)
	if !strings.Contains(out, "✓ Wrote profile to "+p) {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !strings.Contains(string(b), "[CORRELATIONS]") {
		t.Fatalf("profile missing correlations:\n%s", b)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	runCmdOK(t, "config", "set", "alpha", "0.01")
	runCmdOK(t, "config", "set", "equal_var", "false")
	if _, err := os.Stat(filepath.Join(home, ".housing-eda", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmdOK(t, "config", "show")
	if !strings.Contains(out, "alpha: 0.010") || !strings.Contains(out, "equal_var: false") {
		t.Fatalf("unexpected config:\n%s", out)
	}

	out = runCmdOK(t, "run", "--file", fixture, "--no-charts")
	if !strings.Contains(out, "Variance: unequal (Welch)") {
		t.Fatalf("equal_var=false not honoured:\n%s", out)
	}

	if _, err := execute(t, "config", "set", "alpha", "3"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
