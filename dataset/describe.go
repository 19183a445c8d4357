package dataset

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

const (
	// tables wider than this many columns print only the edges
	maxDisplayColumns = 10
	// series longer than this many entries print only the edges
	maxDisplayRows = 60
	displayEdge    = 5
)

// ValueCount is one entry of ValueCounts.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts the non-missing values of a column, most frequent
// first. Ties keep the order of first appearance.
func (f *Frame) ValueCounts(name string) ([]ValueCount, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, errors.NewDataError("dataset.ValueCounts", name, "no such column")
	}
	pos := make(map[string]int)
	var counts []ValueCount
	for i := 0; i < f.rows; i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Format(i)
		p, seen := pos[v]
		if !seen {
			p = len(counts)
			pos[v] = p
			counts = append(counts, ValueCount{Value: v})
		}
		counts[p].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}

// Unique returns the distinct non-missing values of a column in order of
// first appearance.
func (f *Frame) Unique(name string) ([]string, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, errors.NewDataError("dataset.Unique", name, "no such column")
	}
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < f.rows; i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Format(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// MissingCounts returns the number of missing cells per column, in column
// order.
func (f *Frame) MissingCounts() []int {
	out := make([]int, len(f.columns))
	for j, c := range f.columns {
		for i := 0; i < f.rows; i++ {
			if c.IsMissing(i) {
				out[j]++
			}
		}
	}
	return out
}

// DTypes returns the kind of every column, in column order.
func (f *Frame) DTypes() []Kind {
	out := make([]Kind, len(f.columns))
	for j, c := range f.columns {
		out[j] = c.Kind
	}
	return out
}

// displayColumns returns the column positions to print, with -1 marking the
// elided middle.
func displayColumns(n int) []int {
	if n <= maxDisplayColumns {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 2*displayEdge+1)
	for i := 0; i < displayEdge; i++ {
		out = append(out, i)
	}
	out = append(out, -1)
	for i := n - displayEdge; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// WriteHead prints the first n rows with their row index.
func (f *Frame) WriteHead(w io.Writer, n int) error {
	n = min(max(n, 0), f.rows)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := displayColumns(len(f.columns))

	cells := make([]string, 0, len(cols)+1)
	cells = append(cells, "")
	for _, j := range cols {
		if j < 0 {
			cells = append(cells, "...")
			continue
		}
		cells = append(cells, f.columns[j].Name)
	}
	fmt.Fprintln(tw, strings.Join(cells, "\t"))

	for i := 0; i < n; i++ {
		cells = cells[:0]
		cells = append(cells, strconv.Itoa(i))
		for _, j := range cols {
			if j < 0 {
				cells = append(cells, "...")
				continue
			}
			cells = append(cells, f.columns[j].Format(i))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(f.columns) > maxDisplayColumns {
		_, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", n, len(f.columns))
		return err
	}
	return nil
}

// writeSeries prints name/value pairs, eliding the middle of long series.
func writeSeries(w io.Writer, names, values []string, footer string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
	n := len(names)
	for i := 0; i < n; i++ {
		if n > maxDisplayRows && i == displayEdge {
			fmt.Fprintln(tw, "...\t")
			i = n - displayEdge - 1
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", names[i], values[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n > maxDisplayRows {
		footer = fmt.Sprintf("Length: %d, %s", n, footer)
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

// WriteDTypes prints the kind of every column.
func (f *Frame) WriteDTypes(w io.Writer) error {
	names := f.ColumnNames()
	kinds := make([]string, len(names))
	for j, k := range f.DTypes() {
		kinds[j] = k.String()
	}
	return writeSeries(w, names, kinds, "dtype: object")
}

// WriteValueCounts prints the value counts of a column.
func (f *Frame) WriteValueCounts(w io.Writer, name string) error {
	counts, err := f.ValueCounts(name)
	if err != nil {
		return err
	}
	values := make([]string, len(counts))
	counted := make([]string, len(counts))
	for i, vc := range counts {
		values[i] = vc.Value
		counted[i] = strconv.Itoa(vc.Count)
	}
	return writeSeries(w, values, counted, fmt.Sprintf("Name: %s, dtype: int64", name))
}

// WriteMissingCounts prints the missing cells per column. Wide tables list
// only the columns that have missing cells, followed by the total.
func (f *Frame) WriteMissingCounts(w io.Writer) error {
	counts := f.MissingCounts()
	if len(counts) <= maxDisplayRows {
		names := f.ColumnNames()
		values := make([]string, len(counts))
		for j, c := range counts {
			values[j] = strconv.Itoa(c)
		}
		return writeSeries(w, names, values, "dtype: int64")
	}

	var names, values []string
	total := 0
	for j, c := range counts {
		total += c
		if c > 0 {
			names = append(names, f.columns[j].Name)
			values = append(values, strconv.Itoa(c))
		}
	}
	if len(names) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 4, ' ', 0)
		for i := range names {
			fmt.Fprintf(tw, "%s\t%s\n", names[i], values[i])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total missing: %d across %d columns (%d columns complete)\n",
		total, len(counts), len(counts)-len(names))
	return err
}

// WriteUnique prints the distinct values of a column as an array.
func (f *Frame) WriteUnique(w io.Writer, name string) error {
	values, err := f.Unique(name)
	if err != nil {
		return err
	}
	c, _ := f.Column(name)
	if c.Kind == Object {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + v + "'"
		}
		values = quoted
	}
	_, err = fmt.Fprintf(w, "[%s]\n", strings.Join(values, " "))
	return err
}

// Describe prints the inspection sections shown after loading: the first
// headRows rows, the column types, the class distribution of target, the
// missing-value counts and the distinct target values.
func (f *Frame) Describe(w io.Writer, target string, headRows int) error {
	if _, ok := f.Column(target); !ok {
		return errors.NewDataError("dataset.Describe", target, "no such column")
	}
	sections := []struct {
		title string
		write func() error
	}{
		{"First 5 rows of the dataset:", func() error { return f.WriteHead(w, headRows) }},
		{"\nData types of each column:", func() error { return f.WriteDTypes(w) }},
		{"\nClass distribution:", func() error { return f.WriteValueCounts(w, target) }},
		{"\nMissing values in each column:", func() error { return f.WriteMissingCounts(w) }},
		{"\nUnique values in the target variable:", func() error { return f.WriteUnique(w, target) }},
	}
	if headRows != 5 {
		sections[0].title = fmt.Sprintf("First %d rows of the dataset:", headRows)
	}
	for _, s := range sections {
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		if err := s.write(); err != nil {
			return err
		}
	}
	return nil
}

func formatInt(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
