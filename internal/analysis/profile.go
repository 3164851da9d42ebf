package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	mfstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housing-eda/internal/dataset"
)

// ProfileOptions controls the dataset summary.
type ProfileOptions struct {
	// OutlierThreshold is the robust |z| above which a value counts as an
	// outlier. Zero means 3.5.
	OutlierThreshold float64
	// MaxCategories lists value counts for columns with at most this many
	// distinct values. Zero means 10.
	MaxCategories int
	// TopPairs limits the correlation pairs listed. Zero means 10.
	TopPairs int
}

// Profile is a markdown-friendly summary of the housing table.
type Profile struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Corr     *CorrMatrix
	Warnings []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min, Max, Mean, Std float64
	Q1, Median, Q3      float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Value counts for low-cardinality columns
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// ProfileTable summarizes every column of t.
func ProfileTable(t *dataset.Table, opt ProfileOptions) (*Profile, error) {
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	maxCats := opt.MaxCategories
	if maxCats <= 0 {
		maxCats = 10
	}

	p := &Profile{Name: t.Source(), Rows: t.Rows()}
	var numNames []string
	var numVals [][]float64
	for _, name := range t.Columns() {
		s := ColumnSummary{Name: name}
		if t.Numeric(name) {
			vals, err := t.Float(name)
			if err != nil {
				return nil, err
			}
			present := dropNaN(vals)
			s.Kind = "numeric"
			s.NonNull = len(present)
			s.Missing = len(vals) - len(present)
			s.Unique = distinct(present)
			if len(present) > 0 {
				if err := describe(&s, present, thr); err != nil {
					return nil, fmt.Errorf("profile %s: %w", name, err)
				}
				numNames = append(numNames, name)
				numVals = append(numVals, vals)
			}
			if s.Missing > 0 {
				p.Warnings = append(p.Warnings, fmt.Sprintf("%s has %d missing values", name, s.Missing))
			}
		} else {
			labels, err := t.Labels(name)
			if err != nil {
				return nil, err
			}
			s.Kind = "categorical"
			for _, l := range labels {
				if strings.TrimSpace(l) == "" || l == "NaN" {
					s.Missing++
				} else {
					s.NonNull++
				}
			}
		}
		if s.Kind == "categorical" || s.Unique <= maxCats {
			counts, err := t.ValueCounts(name)
			if err != nil {
				return nil, err
			}
			s.Unique = len(counts)
			if s.Unique <= maxCats {
				for _, c := range counts {
					s.TopValues = append(s.TopValues, CategoryCount{Value: c.Value, Count: c.Count})
				}
			}
		}
		p.Cols = append(p.Cols, s)
	}
	if len(numNames) >= 2 {
		p.Corr = correlationMatrix(numNames, numVals)
	}
	return p, nil
}

// describe fills the numeric statistics of s from non-missing values.
func describe(s *ColumnSummary, vals []float64, thr float64) error {
	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	median, err := mfstats.Median(vals)
	if err != nil {
		return err
	}
	s.Median = median
	if len(vals) >= 4 {
		q, err := mfstats.Quartile(vals)
		if err != nil {
			return err
		}
		s.Q1, s.Q3 = q.Q1, q.Q3
	} else {
		s.Q1, s.Q3 = s.Min, s.Max
	}
	s.OutlierThreshold = thr
	if len(vals) < 8 {
		return nil
	}
	mad, err := mfstats.MedianAbsoluteDeviation(vals)
	if err != nil {
		return err
	}
	if mad == 0 {
		return nil
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			s.OutliersCount++
		}
		if az > s.OutliersMaxAbsZ {
			s.OutliersMaxAbsZ = az
		}
	}
	return nil
}

// correlationMatrix computes pairwise-complete Pearson coefficients.
func correlationMatrix(names []string, cols [][]float64) *CorrMatrix {
	n := len(names)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			x, y := pairwiseComplete(cols[a], cols[b])
			r := 0.0
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
				if math.IsNaN(r) || math.IsInf(r, 0) {
					r = 0
				}
				r = math.Max(-1, math.Min(1, r))
			}
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// TopPairs lists off-diagonal pairs ordered by |r|.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// Markdown renders the profile as a compact standalone document.
func (p *Profile) Markdown(topPairs int) string {
	if topPairs <= 0 {
		topPairs = 10
	}
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		if c.Kind == "numeric" && c.NonNull > 0 {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			b.WriteString(fmt.Sprintf("; q1 %.4g, median %.4g, q3 %.4g", c.Q1, c.Median, c.Q3))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		}
		b.WriteString("\n")
	}

	var counted []ColumnSummary
	for _, c := range p.Cols {
		if len(c.TopValues) > 0 {
			counted = append(counted, c)
		}
	}
	if len(counted) > 0 {
		b.WriteString("\n[VALUE COUNTS]\n")
		for _, c := range counted {
			b.WriteString(fmt.Sprintf("- %s: ", safeName(c.Name)))
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			b.WriteString("\n")
		}
	}

	if p.Corr != nil && len(p.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, pr := range p.Corr.TopPairs(topPairs) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pr.A, pr.B, pr.R))
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range p.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func dropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func distinct(vals []float64) int {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func pairwiseComplete(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
