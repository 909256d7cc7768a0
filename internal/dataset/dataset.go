package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/titanic-cli/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrNoColumns is returned when a table has no usable columns.
	ErrNoColumns = errors.New("dataset has no columns")
	// ErrColumnCollision is returned when two columns normalize to the same name.
	ErrColumnCollision = errors.New("column names collide")
)

// MissingTokens are the cell values read as missing.
var MissingTokens = []string{"", "NA", "NaN", "nan", "<nil>", "null"}

// Kind is the semantic type of a column.
type Kind int

const (
	Unknown Kind = iota
	Continuous
	Categorical
	Target
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Categorical:
		return "categorical"
	case Target:
		return "target"
	default:
		return "unknown"
	}
}

// ReadOptions controls CSV decoding.
type ReadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// MissingTokens overrides the package default when non-nil.
	MissingTokens []string
}

// Dataset is an in-memory table of string cells with per-column kinds.
// Every column is held as a gota string series so raw text survives a
// load/save round trip untouched.
type Dataset struct {
	frame dataframe.DataFrame
	kinds map[string]Kind
}

// Load reads a CSV file from disk.
func Load(path string, opt ReadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	ds, err := Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// Read decodes CSV with a header row. Short rows are padded with missing cells.
func Read(r io.Reader, opt ReadOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	tokens := opt.MissingTokens
	if tokens == nil {
		tokens = MissingTokens
	}
	return fromRecords(records, tokens)
}

// FromRecords builds a Dataset from a header row followed by data rows.
func FromRecords(records [][]string) (*Dataset, error) {
	return fromRecords(records, MissingTokens)
}

func fromRecords(records [][]string, tokens []string) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoColumns
	}
	ncol := len(records[0])
	for i := 1; i < len(records); i++ {
		rec := records[i]
		switch {
		case len(rec) > ncol:
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i, ncol, len(rec))
		case len(rec) < ncol:
			tmp := make([]string, ncol)
			copy(tmp, rec)
			records[i] = tmp
		}
	}
	var df dataframe.DataFrame
	if len(records) == 1 {
		cols := make([]series.Series, ncol)
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df = dataframe.New(cols...)
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(tokens),
		)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return &Dataset{frame: df, kinds: map[string]Kind{}}, nil
}

// Names returns the column names in order.
func (d *Dataset) Names() []string { return d.frame.Names() }

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.frame.Nrow() }

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) { return d.frame.Nrow(), d.frame.Ncol() }

// Has reports whether the column exists.
func (d *Dataset) Has(col string) bool {
	for _, n := range d.frame.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Kind returns the semantic kind recorded for col.
func (d *Dataset) Kind(col string) Kind { return d.kinds[col] }

// SetKind records the semantic kind of col; absent columns are ignored.
func (d *Dataset) SetKind(col string, k Kind) {
	if d.Has(col) {
		d.kinds[col] = k
	}
}

// Strings returns the cell text of col and its missing mask. Missing cells
// read as "". Both slices are nil when col is absent.
func (d *Dataset) Strings(col string) ([]string, []bool) {
	if !d.Has(col) {
		return nil, nil
	}
	s := d.frame.Col(col)
	vals := s.Records()
	miss := s.IsNaN()
	for i := range vals {
		if miss[i] {
			vals[i] = ""
		}
	}
	return vals, miss
}

// Floats returns col parsed as float64; missing or unparsable cells are NaN.
func (d *Dataset) Floats(col string) []float64 {
	if !d.Has(col) {
		return nil
	}
	return d.frame.Col(col).Float()
}

// SetStrings replaces or appends col. Cells with missing[i] set become missing.
func (d *Dataset) SetStrings(col string, vals []string, missing []bool) error {
	out := make([]string, len(vals))
	for i, v := range vals {
		if i < len(missing) && missing[i] {
			out[i] = "NaN"
			continue
		}
		out[i] = v
	}
	return d.mutate(series.New(out, series.String, col))
}

// SetFloats replaces or appends col; NaN becomes missing.
func (d *Dataset) SetFloats(col string, vals []float64) error {
	out := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return d.mutate(series.New(out, series.String, col))
}

// SetInts replaces or appends col with integer cells.
func (d *Dataset) SetInts(col string, vals []int) error {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return d.mutate(series.New(out, series.String, col))
}

func (d *Dataset) mutate(s series.Series) error {
	var df dataframe.DataFrame
	if d.frame.Ncol() == 0 && d.frame.Nrow() == 0 && s.Len() > 0 {
		df = dataframe.New(s)
	} else {
		df = d.frame.Mutate(s)
	}
	if df.Err != nil {
		return fmt.Errorf("set column %s: %w", s.Name, df.Err)
	}
	d.frame = df
	return nil
}

// Select keeps the listed columns that exist, in the listed order.
func (d *Dataset) Select(cols []string) error {
	keep := make([]string, 0, len(cols))
	for _, c := range cols {
		if d.Has(c) {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		return ErrNoColumns
	}
	df := d.frame.Select(keep)
	if df.Err != nil {
		return fmt.Errorf("select columns: %w", df.Err)
	}
	d.frame = df
	kinds := map[string]Kind{}
	for _, c := range keep {
		if k, ok := d.kinds[c]; ok {
			kinds[c] = k
		}
	}
	d.kinds = kinds
	return nil
}

// Drop removes the listed columns that exist and returns how many were removed.
func (d *Dataset) Drop(cols ...string) int {
	var present []string
	for _, c := range cols {
		if d.Has(c) {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return 0
	}
	for _, c := range present {
		delete(d.kinds, c)
	}
	if len(present) == d.frame.Ncol() {
		d.frame = dataframe.DataFrame{}
		return len(present)
	}
	d.frame = d.frame.Drop(present)
	return len(present)
}

// RenameColumns renames every column through fn. Two columns mapping to the
// same name is an error and leaves the dataset unchanged.
func (d *Dataset) RenameColumns(fn func(string) string) error {
	names := d.frame.Names()
	next := make([]string, len(names))
	seen := make(map[string]string, len(names))
	for i, n := range names {
		nn := fn(n)
		if prev, dup := seen[nn]; dup {
			return fmt.Errorf("%w: %q and %q both become %q", ErrColumnCollision, prev, n, nn)
		}
		seen[nn] = n
		next[i] = nn
	}
	df := d.frame
	kinds := make(map[string]Kind, len(d.kinds))
	for i, old := range names {
		if k, ok := d.kinds[old]; ok {
			kinds[next[i]] = k
		}
		if next[i] == old {
			continue
		}
		df = df.Rename(next[i], old)
		if df.Err != nil {
			return fmt.Errorf("rename %s: %w", old, df.Err)
		}
	}
	d.frame = df
	d.kinds = kinds
	return nil
}

// DropDuplicates removes rows identical in every column to an earlier row,
// treating missing cells as equal to each other. Returns the number removed.
func (d *Dataset) DropDuplicates() int {
	rows := d.frame.Nrow()
	if rows < 2 {
		return 0
	}
	names := d.frame.Names()
	cols := make([][]string, len(names))
	masks := make([][]bool, len(names))
	for j, n := range names {
		cols[j], masks[j] = d.Strings(n)
	}
	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)
	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for j := range cols {
			if masks[j][i] {
				b.WriteByte(0)
			} else {
				b.WriteString(strconv.Quote(cols[j][i]))
			}
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	removed := rows - len(keep)
	if removed > 0 {
		d.frame = d.frame.Subset(keep)
	}
	return removed
}

// Write encodes the dataset as CSV: a header row, no index, missing as "".
func (d *Dataset) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	names := d.frame.Names()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := make([][]string, len(names))
	for j, n := range names {
		cols[j], _ = d.Strings(n)
	}
	row := make([]string, len(names))
	for i := 0; i < d.frame.Nrow(); i++ {
		for j := range cols {
			row[j] = cols[j][i]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the dataset to path, creating parent directories as needed.
func (d *Dataset) Save(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// NormalizeName trims s, replaces spaces, hyphens and slashes with
// underscores, and lowercases the result.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
	return strings.ToLower(s)
}
