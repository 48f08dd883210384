package commands

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _, code := runCmd(t, "--config", configPath, "version")
	if code != 0 {
		t.Fatalf("version exit = %d", code)
	}
	if !strings.Contains(stdout, "minew") {
		t.Fatalf("expected binary name in output, got: %s", stdout)
	}
}

func TestVersionVerbose(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _, code := runCmd(t, "--config", configPath, "-v", "version")
	if code != 0 {
		t.Fatalf("version -v exit = %d", code)
	}
	if !strings.Contains(stdout, "go:") {
		t.Fatalf("expected go runtime line, got: %s", stdout)
	}
}
