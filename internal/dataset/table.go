// Package dataset loads the housing records table and derives the
// categorical columns the analysis groups by.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names referenced by the analysis.
const (
	ColMEDV     = "MEDV"
	ColCHAS     = "CHAS"
	ColAge      = "AGE"
	ColINDUS    = "INDUS"
	ColNOX      = "NOX"
	ColPTRATIO  = "PTRATIO"
	ColDIS      = "DIS"
	ColAgeGroup = "AGE_GROUP"
)

// RequiredColumns must be present and fully numeric.
var RequiredColumns = []string{ColMEDV, ColCHAS, ColAge, ColINDUS, ColNOX, ColPTRATIO, ColDIS}

// Table is an immutable view of the housing records.
type Table struct {
	df     dataframe.DataFrame
	source string
}

// Read parses CSV data into a Table and validates the schema.
func Read(r io.Reader, source string) (*Table, error) {
	types := make(map[string]series.Type, len(RequiredColumns))
	for _, c := range RequiredColumns {
		types[c] = series.Float
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("read csv: %w", err)}
	}
	if len(records) < 2 {
		return nil, &DataLoadError{Source: source, Err: errors.New("no data rows")}
	}
	normalizeHeader(records[0])
	df := dataframe.LoadRecords(records, dataframe.WithTypes(types))
	if df.Err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("parse csv: %w", df.Err)}
	}
	t := &Table{df: df, source: source}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) validate() error {
	for _, c := range RequiredColumns {
		if !t.Has(c) {
			return &SchemaError{Column: c, Reason: "missing"}
		}
		s := t.df.Col(c)
		if s.Type() != series.Float && s.Type() != series.Int {
			return &SchemaError{Column: c, Reason: fmt.Sprintf("expected numeric, got %s", s.Type())}
		}
		if bad := countNaN(s.Float()); bad > 0 {
			return &SchemaError{Column: c, Reason: fmt.Sprintf("%d missing or non-numeric values", bad)}
		}
	}
	for i, v := range t.df.Col(ColCHAS).Float() {
		if v != 0 && v != 1 {
			return &SchemaError{Column: ColCHAS, Reason: fmt.Sprintf("row %d: expected 0 or 1, got %v", i, v)}
		}
	}
	return nil
}

// Source describes where the table was loaded from.
func (t *Table) Source() string { return t.source }

// Rows returns the number of records.
func (t *Table) Rows() int { return t.df.Nrow() }

// Columns returns the column names in file order.
func (t *Table) Columns() []string { return t.df.Names() }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Numeric reports whether col holds numbers.
func (t *Table) Numeric(col string) bool {
	if !t.Has(col) {
		return false
	}
	typ := t.df.Col(col).Type()
	return typ == series.Float || typ == series.Int
}

// Float returns a copy of a numeric column.
func (t *Table) Float(col string) ([]float64, error) {
	if !t.Has(col) {
		return nil, &SchemaError{Column: col, Reason: "missing"}
	}
	if !t.Numeric(col) {
		return nil, &SchemaError{Column: col, Reason: "not numeric"}
	}
	return t.df.Col(col).Float(), nil
}

// Labels returns a column as strings.
func (t *Table) Labels(col string) ([]string, error) {
	if !t.Has(col) {
		return nil, &SchemaError{Column: col, Reason: "missing"}
	}
	return t.df.Col(col).Records(), nil
}

// WithAgeGroups returns a new table with the AGE_GROUP column appended.
// The receiver is not modified.
func (t *Table) WithAgeGroups(opt BucketOptions) (*Table, error) {
	ages, err := t.Float(ColAge)
	if err != nil {
		return nil, err
	}
	groups, err := Bucketize(ages, opt)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = string(g)
	}
	df := t.df.Mutate(series.New(labels, series.String, ColAgeGroup))
	if df.Err != nil {
		return nil, fmt.Errorf("append %s: %w", ColAgeGroup, df.Err)
	}
	return &Table{df: df, source: t.source}, nil
}

// SplitByFlag partitions target by a 0/1 flag column.
func (t *Table) SplitByFlag(target, flag string) (off, on []float64, err error) {
	vals, err := t.Float(target)
	if err != nil {
		return nil, nil, err
	}
	flags, err := t.Float(flag)
	if err != nil {
		return nil, nil, err
	}
	for i, f := range flags {
		switch f {
		case 0:
			off = append(off, vals[i])
		case 1:
			on = append(on, vals[i])
		default:
			return nil, nil, &SchemaError{Column: flag, Reason: fmt.Sprintf("row %d: expected 0 or 1, got %v", i, f)}
		}
	}
	return off, on, nil
}

// SplitByGroup partitions target by the labels of group, returning one
// sample per entry of order. Labels not listed in order are skipped.
func (t *Table) SplitByGroup(target, group string, order []string) ([][]float64, error) {
	vals, err := t.Float(target)
	if err != nil {
		return nil, err
	}
	labels, err := t.Labels(group)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(order))
	for i, o := range order {
		idx[o] = i
	}
	out := make([][]float64, len(order))
	for i, l := range labels {
		if j, ok := idx[l]; ok {
			out[j] = append(out[j], vals[i])
		}
	}
	return out, nil
}

// ValueCounts returns label frequencies sorted by label.
func (t *Table) ValueCounts(col string) ([]ValueCount, error) {
	var labels []string
	if t.Numeric(col) {
		vals, err := t.Float(col)
		if err != nil {
			return nil, err
		}
		labels = make([]string, len(vals))
		for i, v := range vals {
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	} else {
		var err error
		if labels, err = t.Labels(col); err != nil {
			return nil, err
		}
	}
	counts := map[string]int{}
	for _, l := range labels {
		counts[l]++
	}
	out := make([]ValueCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, ValueCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

// ValueCount is one label and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// normalizeHeader names blank header cells the way an index column written
// by a dataframe library is usually read back.
func normalizeHeader(h []string) {
	for i := range h {
		name := strings.TrimSpace(strings.TrimPrefix(h[i], "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		h[i] = name
	}
}

func countNaN(vs []float64) int {
	n := 0
	for _, v := range vs {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
