package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, body string) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(body), ReadOptions{})
	require.NoError(t, err)
	return ds
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Who Knows/What-field ": "who_knows_what_field",
		"SibSp":                 "sibsp",
		"  Pclass":              "pclass",
		"adult_male":            "adult_male",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}

func TestReadMissingAndPadding(t *testing.T) {
	ds := mustRead(t, "name,age,embarked\n\"Braund, Mr. Owen\",22,S\nAllen,,NA\nShort\n")
	rows, cols := ds.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"name", "age", "embarked"}, ds.Names())

	vals, miss := ds.Strings("embarked")
	assert.Equal(t, []string{"S", "", ""}, vals)
	assert.Equal(t, []bool{false, true, true}, miss)

	ages := ds.Floats("age")
	assert.Equal(t, 22.0, ages[0])
	assert.True(t, math.IsNaN(ages[1]))
	assert.True(t, math.IsNaN(ages[2]))

	names, _ := ds.Strings("name")
	assert.Equal(t, "Braund, Mr. Owen", names[0])

	v, m := ds.Strings("missing")
	assert.Nil(t, v)
	assert.Nil(t, m)
}

func TestReadHeaderOnlyAndEmpty(t *testing.T) {
	ds := mustRead(t, "a,b\n")
	rows, cols := ds.Shape()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 2, cols)

	_, err := Read(strings.NewReader(""), ReadOptions{})
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"), ReadOptions{})
	assert.Error(t, err)
}

func TestReadDelimiter(t *testing.T) {
	ds, err := Read(strings.NewReader("a;b\n1;2\n"), ReadOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())
}

func TestDropDuplicatesIdempotent(t *testing.T) {
	ds := mustRead(t, "a,b\n1,x\n1,x\n2,\n2,\n2,y\n1,x\n")
	assert.Equal(t, 3, ds.DropDuplicates())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 0, ds.DropDuplicates())
	assert.Equal(t, 3, ds.Rows())

	vals, miss := ds.Strings("b")
	assert.Equal(t, []string{"x", "", "y"}, vals)
	assert.Equal(t, []bool{false, true, false}, miss)
}

func TestSelectDropRename(t *testing.T) {
	ds := mustRead(t, "Survived,Name,Cabin,Extra Col\n1,A,C85,z\n")
	require.NoError(t, ds.Select([]string{"Survived", "Cabin", "Name", "Absent"}))
	assert.Equal(t, []string{"Survived", "Cabin", "Name"}, ds.Names())

	ds.SetKind("Survived", Target)
	require.NoError(t, ds.RenameColumns(NormalizeName))
	assert.Equal(t, []string{"survived", "cabin", "name"}, ds.Names())
	assert.Equal(t, Target, ds.Kind("survived"))

	assert.Equal(t, 1, ds.Drop("cabin", "ticket"))
	assert.Equal(t, 0, ds.Drop("ticket"))
	assert.Equal(t, []string{"survived", "name"}, ds.Names())

	assert.ErrorIs(t, ds.Select([]string{"nope"}), ErrNoColumns)
}

func TestRenameCollision(t *testing.T) {
	ds := mustRead(t, "Age,age \n1,2\n")
	err := ds.RenameColumns(NormalizeName)
	assert.ErrorIs(t, err, ErrColumnCollision)
	assert.Equal(t, []string{"Age", "age "}, ds.Names())
}

func TestSetColumnsAndWrite(t *testing.T) {
	ds := mustRead(t, "age,sex\n22,male\n,female\n")
	require.NoError(t, ds.SetFloats("age", []float64{22, math.NaN()}))
	require.NoError(t, ds.SetInts("flag", []int{1, 0}))
	require.NoError(t, ds.SetStrings("sex", []string{"male", "x"}, []bool{false, true}))

	var buf bytes.Buffer
	require.NoError(t, ds.Write(&buf))
	assert.Equal(t, "age,sex,flag\n22,male,1\n,,0\n", buf.String())

	assert.Error(t, ds.SetInts("bad", []int{1}), "length mismatch")
}

func TestSaveCreatesParentDir(t *testing.T) {
	ds := mustRead(t, "fare\n7.25\n")
	out := filepath.Join(t.TempDir(), "data", "processed", "out.csv")
	require.NoError(t, ds.Save(out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "fare\n7.25\n", string(b))
}
