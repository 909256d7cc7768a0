package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kaggleCSV = "PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n" +
	"1,0,3,\"Braund, Mr. Owen Harris\",male,22,1,0,A/5 21171,7.25,,S\n" +
	"2,1,1,\"Cumings, Mrs. John Bradley\",female,38,1,0,PC 17599,71.2833,C85,C\n"

const referenceCSV = "survived,pclass,sex,age,sibsp,parch,fare,embarked,class,who,adult_male,deck,embark_town,alive,alone\n" +
	"0,3,male,22.0,1,0,7.25,S,Third,man,True,,Southampton,no,False\n" +
	"1,1,female,38.0,1,0,71.2833,C,First,woman,False,C,Cherbourg,yes,False\n"

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestSelectPrimaryKeepsKaggleColumns(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw", "titanic.csv")
	writeFile(t, raw, kaggleCSV)

	s := &Selector{PrimaryPath: raw}
	ds, origin, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginPrimary, origin)
	assert.Equal(t, []string{
		"survived", "pclass", "sex", "age", "sibsp", "parch", "fare", "embarked", "name", "ticket", "cabin",
	}, ds.Names())
	assert.Equal(t, 2, ds.Rows())
}

func TestSelectFallbackFromCache(t *testing.T) {
	dir := t.TempDir()
	home := filepath.Join(dir, "data")
	writeFile(t, filepath.Join(home, "titanic.csv"), referenceCSV)

	s := &Selector{
		PrimaryPath: filepath.Join(dir, "missing.csv"),
		Fallback:    &NamedDataset{DatasetName: "titanic", DataHome: home},
	}
	ds, origin, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OriginFallback, origin)
	assert.Equal(t, ReferenceColumns, ds.Names())
}

func TestSelectFallbackDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/titanic.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(referenceCSV))
	}))
	defer srv.Close()

	dir := t.TempDir()
	fetcher := &NamedDataset{
		DatasetName: "titanic",
		DataHome:    filepath.Join(dir, "cache"),
		BaseURL:     srv.URL + "/",
		Download:    true,
	}
	s := &Selector{PrimaryPath: filepath.Join(dir, "missing.csv"), Fallback: fetcher}

	ds, _, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())
	assert.FileExists(t, fetcher.CachePath())

	_, _, err = s.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second select must come from cache")
}

func TestSelectFallbackHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := &Selector{
		PrimaryPath: filepath.Join(dir, "missing.csv"),
		Fallback:    &NamedDataset{DatasetName: "titanic", DataHome: dir, BaseURL: srv.URL, Download: true},
	}
	_, _, err := s.Select(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestSelectNoSourceIsFatal(t *testing.T) {
	dir := t.TempDir()
	s := &Selector{
		PrimaryPath: filepath.Join(dir, "missing.csv"),
		Fallback:    &NamedDataset{DatasetName: "titanic", DataHome: dir},
	}
	_, _, err := s.Select(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, ErrNotCached)

	_, _, err = (&Selector{PrimaryPath: filepath.Join(dir, "missing.csv")}).Select(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
