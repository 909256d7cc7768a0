package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/KaramelBytes/titanic-cli/internal/stats"
)

// Stage is one transform of the cleaning pipeline. A stage whose columns are
// absent does nothing.
type Stage interface {
	Name() string
	Apply(ds *dataset.Dataset, log logger.Logger) error
}

// Deduplicate removes fully duplicate rows.
type Deduplicate struct{}

func (Deduplicate) Name() string { return "deduplicate" }

func (Deduplicate) Apply(ds *dataset.Dataset, log logger.Logger) error {
	n := ds.DropDuplicates()
	log.Info("Removed duplicate rows", "count", n)
	return nil
}

// Prune drops columns that are not carried into the cleaned output.
type Prune struct {
	Columns []string
}

func (Prune) Name() string { return "prune" }

func (p Prune) Apply(ds *dataset.Dataset, log logger.Logger) error {
	if n := ds.Drop(p.Columns...); n > 0 {
		log.Debug("dropped columns", "count", n)
	}
	return nil
}

// CoerceKinds records the semantic kind of each listed column that exists.
type CoerceKinds struct {
	Kinds map[string]dataset.Kind
}

func (CoerceKinds) Name() string { return "coerce-kinds" }

func (c CoerceKinds) Apply(ds *dataset.Dataset, _ logger.Logger) error {
	for col, k := range c.Kinds {
		ds.SetKind(col, k)
	}
	return nil
}

// ImputeMode fills missing cells with the most frequent observed value.
type ImputeMode struct {
	Column string
}

func (ImputeMode) Name() string { return "impute-mode" }

func (m ImputeMode) Apply(ds *dataset.Dataset, log logger.Logger) error {
	vals, miss := ds.Strings(m.Column)
	if !anyTrue(miss) {
		return nil
	}
	mode, ok := stats.Mode(vals, miss)
	if !ok {
		return nil
	}
	filled := 0
	for i := range vals {
		if miss[i] {
			vals[i] = mode
			filled++
		}
	}
	log.Debug("imputed by mode", "column", m.Column, "value", mode, "filled", filled)
	return ds.SetStrings(m.Column, vals, nil)
}

// ImputeGroupedMedian fills missing values of Column with the median of rows
// sharing the same values in the present GroupBy columns. Rows whose key has
// a missing component belong to no group. Whatever is still missing after
// that takes the column-wide median.
type ImputeGroupedMedian struct {
	Column  string
	GroupBy []string
}

func (ImputeGroupedMedian) Name() string { return "impute-grouped-median" }

func (g ImputeGroupedMedian) Apply(ds *dataset.Dataset, log logger.Logger) error {
	raw, miss := ds.Strings(g.Column)
	if !anyTrue(miss) {
		return nil
	}
	vals := ds.Floats(g.Column)

	keys, keyed := groupKeys(ds, g.GroupBy, len(vals))
	groups := map[string][]int{}
	order := []string{}
	for i := range vals {
		if !keyed[i] {
			continue
		}
		if _, ok := groups[keys[i]]; !ok {
			order = append(order, keys[i])
		}
		groups[keys[i]] = append(groups[keys[i]], i)
	}
	filled := make([]bool, len(vals))
	for _, k := range order {
		idx := groups[k]
		member := make([]float64, len(idx))
		for j, i := range idx {
			member[j] = vals[i]
		}
		med := stats.Median(member)
		if math.IsNaN(med) {
			continue
		}
		for _, i := range idx {
			if miss[i] {
				vals[i] = med
				filled[i] = true
			}
		}
	}

	// Rows left over (no usable key, or a group with nothing observed)
	// take the median of the whole column.
	global := stats.Median(vals)
	if !math.IsNaN(global) {
		for i := range vals {
			if miss[i] && !filled[i] {
				vals[i] = global
				filled[i] = true
			}
		}
	}
	log.Debug("imputed by grouped median", "column", g.Column, "groups", len(order))
	return setChanged(ds, g.Column, raw, miss, filled, vals)
}

// groupKeys builds a composite key per row from the present columns. With
// no key column present every row shares the empty key.
func groupKeys(ds *dataset.Dataset, by []string, rows int) ([]string, []bool) {
	keys := make([]string, rows)
	keyed := make([]bool, rows)
	for i := range keyed {
		keyed[i] = true
	}
	var parts [][]string
	var masks [][]bool
	for _, col := range by {
		if v, m := ds.Strings(col); v != nil {
			parts = append(parts, v)
			masks = append(masks, m)
		}
	}
	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for j := range parts {
			if masks[j][i] {
				keyed[i] = false
				break
			}
			b.WriteString(strconv.Quote(parts[j][i]))
			b.WriteByte('|')
		}
		keys[i] = b.String()
	}
	return keys, keyed
}

// CapOutliers clamps Column to [Q1 - K*IQR, Q3 + K*IQR].
type CapOutliers struct {
	Column string
	K      float64
}

func (CapOutliers) Name() string { return "cap-outliers" }

func (c CapOutliers) Apply(ds *dataset.Dataset, log logger.Logger) error {
	raw, miss := ds.Strings(c.Column)
	if raw == nil {
		return nil
	}
	vals := ds.Floats(c.Column)
	q1, q3 := stats.Quartiles(vals)
	if math.IsNaN(q1) || math.IsNaN(q3) {
		return nil
	}
	iqr := q3 - q1
	lower, upper := q1-c.K*iqr, q3+c.K*iqr
	before := append([]float64(nil), vals...)
	n := stats.Clip(vals, lower, upper)
	log.Debug("capped outliers", "column", c.Column, "lower", lower, "upper", upper, "clipped", n)
	if n == 0 {
		return nil
	}
	changed := make([]bool, len(vals))
	for i := range vals {
		changed[i] = vals[i] != before[i] && !math.IsNaN(before[i])
	}
	return setChanged(ds, c.Column, raw, miss, changed, vals)
}

// CastInt converts Column to integers by truncation. Missing or non-numeric
// cells cannot be represented and are an error.
type CastInt struct {
	Column string
}

func (CastInt) Name() string { return "cast-int" }

func (c CastInt) Apply(ds *dataset.Dataset, _ logger.Logger) error {
	if !ds.Has(c.Column) {
		return nil
	}
	raw, miss := ds.Strings(c.Column)
	vals := ds.Floats(c.Column)
	out := make([]int, len(vals))
	for i, v := range vals {
		if miss[i] {
			return fmt.Errorf("cast %s to int: row %d is missing", c.Column, i+1)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			b, err := strconv.ParseBool(raw[i])
			if err != nil {
				return fmt.Errorf("cast %s to int: row %d: %q is not numeric", c.Column, i+1, raw[i])
			}
			if b {
				out[i] = 1
			}
			continue
		}
		out[i] = int(v)
	}
	return ds.SetInts(c.Column, out)
}

// setChanged rewrites col keeping the original text of untouched cells and
// formatting the new value where changed[i] is set.
func setChanged(ds *dataset.Dataset, col string, raw []string, miss, changed []bool, vals []float64) error {
	out := make([]string, len(raw))
	still := make([]bool, len(raw))
	for i := range raw {
		switch {
		case changed[i]:
			out[i] = strconv.FormatFloat(vals[i], 'f', -1, 64)
		case miss[i]:
			still[i] = true
		default:
			out[i] = raw[i]
		}
	}
	return ds.SetStrings(col, out, still)
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
