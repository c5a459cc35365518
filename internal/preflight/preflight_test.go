package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stride/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("Data directory", dir); !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %q", result.Detail)
	}

	missing := filepath.Join(dir, "missing")
	if result := CheckDirectoryAccess("Data directory", missing); result.Passed {
		t.Fatal("expected missing directory to fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := CheckDirectoryAccess("Data directory", file); result.Passed {
		t.Fatal("expected plain file to fail")
	}
}

func TestCheckStepCounterAbsent(t *testing.T) {
	result := CheckStepCounter(t.TempDir())
	if result.Passed {
		t.Fatal("expected empty sysfs root to report no counter")
	}
}

func TestRunAllAgainstTestConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := os.MkdirAll(cfg.Tracking.SysfsDir, 0o755); err != nil {
		t.Fatalf("mkdir sysfs root: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}

	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	for _, name := range []string{"Data directory", "Log directory", "Data disk space", "Notifications"} {
		r, ok := byName[name]
		if !ok {
			t.Fatalf("missing check %q", name)
		}
		if !r.Passed {
			t.Fatalf("check %q failed: %s", name, r.Detail)
		}
	}

	// No sensors under the test sysfs root.
	if byName["Hardware step counter"].Passed {
		t.Fatal("expected no step counter in test sysfs root")
	}
	if AllPassed(results) {
		t.Fatal("AllPassed must be false with sensors absent")
	}
}
