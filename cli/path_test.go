package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/acs/pkg"
)

func TestSearchPath(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	file := filepath.Join(t.TempDir(), "file.acs")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(pkg.EnvVar("path"), envDir+string(os.PathListSeparator)+missing)

	got := searchPath([]string{flagDir, missing, file})

	if !slices.Contains(got, flagDir) || !slices.Contains(got, envDir) {
		t.Errorf("expected both directories in %v", got)
	}

	if slices.Contains(got, missing) || slices.Contains(got, file) {
		t.Errorf("expected non-directories dropped from %v", got)
	}

	if i, j := slices.Index(got, flagDir), slices.Index(got, envDir); i > j {
		t.Errorf("expected flag directories first in %v", got)
	}
}
