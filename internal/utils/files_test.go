package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/titanic-cli/internal/utils"
)

func TestSafeWriteFileAndExists(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := utils.EnsureDir(nested); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	// idempotent
	if err := utils.EnsureDir(nested); err != nil {
		t.Fatalf("ensure dir again: %v", err)
	}
	p := filepath.Join(nested, "out.csv")
	ok, err := utils.FileExists(p)
	if err != nil || ok {
		t.Fatalf("exists before write = %v, %v", ok, err)
	}
	if err := utils.SafeWriteFile(p, []byte("a,b\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = utils.FileExists(p)
	if err != nil || !ok {
		t.Fatalf("exists after write = %v, %v", ok, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if ok, _ := utils.FileExists(nested); ok {
		t.Fatalf("directory reported as file")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/data")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Fatalf("expand = %q", got)
	}
	if got, _ := utils.ExpandHome("rel/path"); got != "rel/path" {
		t.Fatalf("relative path changed: %q", got)
	}
}
