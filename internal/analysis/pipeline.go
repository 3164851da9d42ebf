// Package analysis runs the housing analysis end to end: it derives the age
// groups, executes the four hypothesis tests, writes the charts and renders
// text, JSON and Markdown reports.
package analysis

import (
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/KaramelBytes/housing-eda/internal/charts"
	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/stats"
)

// Options controls a pipeline run.
type Options struct {
	// Alpha is the significance level used by the commentary.
	Alpha float64
	// EqualVariance selects the pooled t-test; false selects Welch.
	EqualVariance bool
	// LenientAge maps out-of-range AGE values to "unknown" instead of failing.
	LenientAge bool
	// Charts, when non-nil, renders the figures with these options.
	Charts *charts.Options
}

// DefaultOptions returns the settings of the reference analysis.
func DefaultOptions() Options {
	return Options{Alpha: 0.05, EqualVariance: true}
}

// GroupSize is the number of rows carrying one label.
type GroupSize struct {
	Label string `json:"label"`
	N     int    `json:"n"`
}

// Results collects everything one run produced.
type Results struct {
	RunID       string
	Source      string
	Rows        int
	Alpha       float64
	StartedAt   time.Time
	RiverGroups []GroupSize
	AgeGroups   []GroupSize
	TTest       *stats.TTestResult
	Anova       *stats.AnovaResult
	Correlation *stats.CorrelationResult
	Regression  *stats.RegressionResult
	Commentary  []Commentary
	Summary     []string
	Charts      []charts.Chart
}

// Run executes the analysis on t. The table is not modified.
func Run(t *dataset.Table, opt Options) (*Results, error) {
	if opt.Alpha <= 0 || opt.Alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %v", opt.Alpha)
	}
	res := &Results{
		RunID:     uuid.NewString(),
		Source:    t.Source(),
		Rows:      t.Rows(),
		Alpha:     opt.Alpha,
		StartedAt: time.Now().UTC(),
	}
	ctx := log.WithFields(log.Fields{"run": res.RunID, "rows": res.Rows})
	ctx.Debug("analysis started")

	grouped, err := t.WithAgeGroups(dataset.BucketOptions{Unknown: opt.LenientAge})
	if err != nil {
		return nil, err
	}

	if opt.Charts != nil {
		out, err := charts.RenderAll(grouped, *opt.Charts)
		if err != nil {
			return nil, err
		}
		res.Charts = out
	}

	// MEDV by CHAS
	off, on, err := grouped.SplitByFlag(dataset.ColMEDV, dataset.ColCHAS)
	if err != nil {
		return nil, err
	}
	res.RiverGroups = []GroupSize{{Label: "CHAS=0", N: len(off)}, {Label: "CHAS=1", N: len(on)}}
	res.TTest, err = stats.TwoSampleTTest(off, on, stats.TTestOptions{EqualVariance: opt.EqualVariance})
	if err != nil {
		return nil, fmt.Errorf("MEDV by %s: %w", dataset.ColCHAS, err)
	}
	ctx.WithField("t", res.TTest.T).Debug("t-test done")

	// MEDV by AGE_GROUP
	order := make([]string, len(dataset.AgeGroups))
	for i, g := range dataset.AgeGroups {
		order[i] = string(g)
	}
	groups, err := grouped.SplitByGroup(dataset.ColMEDV, dataset.ColAgeGroup, order)
	if err != nil {
		return nil, err
	}
	for i, g := range groups {
		res.AgeGroups = append(res.AgeGroups, GroupSize{Label: order[i], N: len(g)})
	}
	res.Anova, err = stats.OneWayAnova(groups...)
	if err != nil {
		return nil, fmt.Errorf("MEDV by %s: %w", dataset.ColAgeGroup, err)
	}
	ctx.WithField("f", res.Anova.F).Debug("anova done")

	// NOX vs INDUS
	nox, err := grouped.Float(dataset.ColNOX)
	if err != nil {
		return nil, err
	}
	indus, err := grouped.Float(dataset.ColINDUS)
	if err != nil {
		return nil, err
	}
	res.Correlation, err = stats.Pearson(nox, indus)
	if err != nil {
		return nil, fmt.Errorf("%s vs %s: %w", dataset.ColNOX, dataset.ColINDUS, err)
	}

	// MEDV ~ DIS
	dis, err := grouped.Float(dataset.ColDIS)
	if err != nil {
		return nil, err
	}
	medv, err := grouped.Float(dataset.ColMEDV)
	if err != nil {
		return nil, err
	}
	res.Regression, err = stats.SimpleOLS(dis, medv, dataset.ColDIS)
	if err != nil {
		return nil, fmt.Errorf("%s ~ %s: %w", dataset.ColMEDV, dataset.ColDIS, err)
	}

	res.Commentary = commentary(res)
	res.Summary = summarize(res)
	ctx.WithField("charts", len(res.Charts)).Info("analysis complete")
	return res, nil
}
