package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newConfigInitCommand()
	cmd.SetArgs([]string{"--path", target})
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("sample config is empty")
	}

	// Second run without --overwrite must refuse.
	cmd = newConfigInitCommand()
	cmd.SetArgs([]string{"--path", target})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when config already exists")
	}

	cmd = newConfigInitCommand()
	cmd.SetArgs([]string{"--path", target, "--overwrite"})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
