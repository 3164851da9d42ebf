// Package charts renders the descriptive figures of the housing analysis.
package charts

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	moremath "github.com/aclements/go-moremath/stats"
	"github.com/apex/log"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
	"github.com/KaramelBytes/housing-eda/internal/utils"
)

// Options controls chart output.
type Options struct {
	Dir    string
	Format string // png, svg or pdf
	Width  vg.Length
	Height vg.Length
	Bins   int
}

// DefaultOptions returns 10x6 inch PNG figures with a 20-bin histogram.
func DefaultOptions(dir string) Options {
	return Options{
		Dir:    dir,
		Format: "png",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
		Bins:   20,
	}
}

// Chart is one rendered figure.
type Chart struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type renderer struct {
	name  string
	title string
	draw  func(*dataset.Table, Options) (*plot.Plot, error)
}

var renderers = []renderer{
	{"medv_boxplot", "Distribution of Median Home Value (MEDV)", medvBox},
	{"chas_counts", "Homes Bounding the Charles River", chasCounts},
	{"medv_by_age_group", "Home Value vs. Age of the Property", medvByAgeGroup},
	{"nox_vs_indus", "Nitric Oxide vs. Non-Retail Business Acres", noxVsIndus},
	{"ptratio_hist", "Distribution of Pupil-Teacher Ratio", ptratioHist},
}

// Names lists the figures RenderAll produces, in order.
func Names() []string {
	out := make([]string, len(renderers))
	for i, r := range renderers {
		out[i] = r.name
	}
	return out
}

// RenderAll writes every figure into opt.Dir. The table must carry the
// AGE_GROUP column.
func RenderAll(t *dataset.Table, opt Options) ([]Chart, error) {
	if opt.Dir == "" {
		return nil, fmt.Errorf("charts: output directory not set")
	}
	format := strings.ToLower(strings.TrimPrefix(opt.Format, "."))
	if format == "" {
		format = "png"
	}
	switch format {
	case "png", "svg", "pdf":
	default:
		return nil, fmt.Errorf("charts: unsupported format %q (use png, svg or pdf)", opt.Format)
	}
	if opt.Width <= 0 || opt.Height <= 0 {
		d := DefaultOptions(opt.Dir)
		opt.Width, opt.Height = d.Width, d.Height
	}
	if err := utils.EnsureDir(opt.Dir); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}

	var out []Chart
	for _, r := range renderers {
		p, err := r.draw(t, opt)
		if err != nil {
			return nil, fmt.Errorf("charts: %s: %w", r.name, err)
		}
		p.Title.Text = r.title
		path := filepath.Join(opt.Dir, r.name+"."+format)
		if err := p.Save(opt.Width, opt.Height, path); err != nil {
			return nil, fmt.Errorf("charts: save %s: %w", path, err)
		}
		log.WithField("path", path).Debug("chart written")
		out = append(out, Chart{Name: r.name, Title: r.title, Path: path})
	}
	return out, nil
}

func medvBox(t *dataset.Table, _ Options) (*plot.Plot, error) {
	medv, err := t.Float(dataset.ColMEDV)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Y.Label.Text = "Price (in $1000s)"
	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(medv))
	if err != nil {
		return nil, err
	}
	box.FillColor = plotutil.Color(0)
	p.Add(plotter.NewGrid(), box)
	p.NominalX(dataset.ColMEDV)
	return p, nil
}

func chasCounts(t *dataset.Table, _ Options) (*plot.Plot, error) {
	counts, err := t.ValueCounts(dataset.ColCHAS)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.X.Label.Text = "Bounds the river (1 = yes, 0 = no)"
	p.Y.Label.Text = "Number of homes"
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		names[i] = c.Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("could not create bars from counts %v: %w", vals, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(plotter.NewGrid(), bars)
	p.NominalX(names...)
	return p, nil
}

func medvByAgeGroup(t *dataset.Table, _ Options) (*plot.Plot, error) {
	order := make([]string, len(dataset.AgeGroups))
	for i, g := range dataset.AgeGroups {
		order[i] = string(g)
	}
	groups, err := t.SplitByGroup(dataset.ColMEDV, dataset.ColAgeGroup, order)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.X.Label.Text = "Age group"
	p.Y.Label.Text = "Price (in $1000s)"
	p.Add(plotter.NewGrid())
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(50), float64(i), plotter.Values(g))
		if err != nil {
			return nil, err
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(order...)
	return p, nil
}

func noxVsIndus(t *dataset.Table, _ Options) (*plot.Plot, error) {
	indus, err := t.Float(dataset.ColINDUS)
	if err != nil {
		return nil, err
	}
	nox, err := t.Float(dataset.ColNOX)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(indus))
	for i := range indus {
		pts[i].X = indus[i]
		pts[i].Y = nox[i]
	}
	p := plot.New()
	p.X.Label.Text = "Proportion of non-retail business acres (INDUS)"
	p.Y.Label.Text = "Nitric oxide concentration (NOX)"
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	sc.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(plotter.NewGrid(), sc)
	return p, nil
}

func ptratioHist(t *dataset.Table, opt Options) (*plot.Plot, error) {
	pt, err := t.Float(dataset.ColPTRATIO)
	if err != nil {
		return nil, err
	}
	bins := opt.Bins
	if bins <= 0 {
		bins = 20
	}
	p := plot.New()
	p.X.Label.Text = "Pupils per teacher"
	p.Y.Label.Text = "Density"
	h, err := plotter.NewHist(plotter.Values(pt), bins)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.FillColor = plotutil.Color(0)
	p.Add(plotter.NewGrid(), h)

	if kde := densityEstimate(pt); kde != nil {
		fn := plotter.NewFunction(kde)
		fn.Samples = 200
		fn.Color = plotutil.Color(1)
		fn.Width = vg.Points(2)
		p.Add(fn)
	}
	return p, nil
}

// densityEstimate returns a Gaussian kernel density function using Scott's
// bandwidth, or nil when the sample has no spread.
func densityEstimate(xs []float64) func(float64) float64 {
	if len(xs) < 2 {
		return nil
	}
	sd := stat.StdDev(xs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	kde := &moremath.KDE{
		Sample:    moremath.Sample{Xs: xs},
		Bandwidth: 1.06 * sd * math.Pow(float64(len(xs)), -0.2),
	}
	return kde.PDF
}
