package analysis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(
		"survived,sex,age,embarked,deck\n"+
			"0,male,22,S,\n"+
			"1,female,,C,\n"+
			"1,female,26,,B\n"+
			"0,male,,S,\n",
	), dataset.ReadOptions{})
	require.NoError(t, err)
	return ds
}

func TestMissingSortedAndRounded(t *testing.T) {
	got := Missing(sample(t))
	assert.Equal(t, []MissingStat{
		{Column: "deck", Missing: 3, Rate: 0.75},
		{Column: "age", Missing: 2, Rate: 0.5},
		{Column: "embarked", Missing: 1, Rate: 0.25},
	}, got)
}

func TestMissingRateRounding(t *testing.T) {
	// encoding/csv skips blank lines, so build the single-column table directly
	ds, err := dataset.FromRecords([][]string{{"a"}, {""}, {"1"}, {"2"}})
	require.NoError(t, err)
	got := Missing(ds)
	require.Len(t, got, 1)
	assert.Equal(t, 0.333, got[0].Rate)
}

func TestLogMissing(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "info", Output: &buf})
	stats := LogMissing(log, sample(t), "Before Cleaning")
	assert.Len(t, stats, 3)
	out := buf.String()
	assert.Contains(t, out, "Before Cleaning")
	assert.Contains(t, out, "deck")

	buf.Reset()
	clean, err := dataset.FromRecords([][]string{{"a"}, {"1"}})
	require.NoError(t, err)
	assert.Empty(t, LogMissing(log, clean, "After Cleaning"))
	assert.Contains(t, buf.String(), "no missing values")
}

func TestProfileMarkdown(t *testing.T) {
	ds := sample(t)
	ds.SetKind("survived", dataset.Target)
	rep := Profile(ds, "train.csv")
	require.Len(t, rep.Cols, 5)

	age := rep.Cols[2]
	assert.Equal(t, "numeric", age.Kind)
	assert.Equal(t, 22.0, age.Min)
	assert.Equal(t, 26.0, age.Max)
	assert.Equal(t, 24.0, age.Median)

	sex := rep.Cols[1]
	assert.Equal(t, "categorical", sex.Kind)
	assert.Equal(t, []CategoryCount{{"female", 2}, {"male", 2}}, sex.TopValues)

	md := rep.Markdown()
	assert.Contains(t, md, "File: train.csv")
	assert.Contains(t, md, "Rows: 4")
	assert.Contains(t, md, "- age: numeric (non-null 2, missing 50.0%)")
	assert.Contains(t, md, "- deck: 3 (rate 0.750)")
}
