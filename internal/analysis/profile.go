package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report is a markdown-friendly profile of a dataset.
type Report struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Missing []MissingStat
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name     string
	Kind     string // numeric|categorical|text|empty
	Semantic dataset.Kind
	NonNull  int
	Missing  int
	Unique   int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Median float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// maxCategories bounds how many distinct values a column may have and still
// be reported as categorical.
const maxCategories = 32

// Profile summarizes every column of ds.
func Profile(ds *dataset.Dataset, name string) *Report {
	rep := &Report{Name: name, Rows: ds.Rows(), Missing: Missing(ds)}
	for _, col := range ds.Names() {
		rep.Cols = append(rep.Cols, summarize(ds, col))
	}
	return rep
}

func summarize(ds *dataset.Dataset, col string) ColumnSummary {
	vals, miss := ds.Strings(col)
	s := ColumnSummary{Name: col, Semantic: ds.Kind(col)}
	counts := map[string]int{}
	for i, v := range vals {
		if miss[i] {
			s.Missing++
			continue
		}
		s.NonNull++
		counts[v]++
	}
	s.Unique = len(counts)
	if s.NonNull == 0 {
		s.Kind = "empty"
		return s
	}

	nums := stats.Observed(ds.Floats(col))
	if len(nums) == s.NonNull && s.Semantic != dataset.Categorical {
		s.Kind = "numeric"
		s.Min = floats.Min(nums)
		s.Max = floats.Max(nums)
		s.Mean, s.Std = stat.MeanStdDev(nums, nil)
		if len(nums) < 2 {
			s.Std = 0
		}
		s.Median = stats.Quantile(nums, 0.5)
		return s
	}
	if s.Unique > maxCategories && s.Semantic != dataset.Categorical {
		s.Kind = "text"
		return s
	}
	s.Kind = "categorical"
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	s.TopValues = tops
	return s
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			b.WriteString(fmt.Sprintf(" — unique=%d", c.Unique))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[MISSING VALUES]\n")
	if len(r.Missing) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range r.Missing {
		b.WriteString(fmt.Sprintf("- %s: %d (rate %.3f)\n", m.Column, m.Missing, m.Rate))
	}
	return b.String()
}
