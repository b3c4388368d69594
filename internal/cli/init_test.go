package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInit(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	configPath = ""
	initForce = false

	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	dataDir := filepath.Join(tmpDir, ".cognitive-os")

	if _, err := os.Stat(filepath.Join(dataDir, "records")); err != nil {
		t.Error("records directory not created")
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		t.Fatalf("config.yaml not created: %v", err)
	}
	if !strings.Contains(string(data), "window_days") {
		t.Error("config.yaml missing window_days")
	}
	if !strings.Contains(string(data), "thresholds") {
		t.Error("config.yaml missing thresholds section")
	}
}

func TestRunInit_NoOverwriteWithoutForce(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dataDir := filepath.Join(tmpDir, ".cognitive-os")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatal(err)
	}

	sentinel := "# sentinel content\n"
	cfgFile := filepath.Join(dataDir, "config.yaml")
	if err := os.WriteFile(cfgFile, []byte(sentinel), 0o600); err != nil {
		t.Fatal(err)
	}

	configPath = ""
	initForce = false

	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sentinel {
		t.Error("config.yaml overwritten without --force")
	}
}

func TestRunInit_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dataDir := filepath.Join(tmpDir, ".cognitive-os")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dataDir, "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("# sentinel\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	configPath = ""
	initForce = true
	defer func() { initForce = false }()

	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "window_days") {
		t.Error("config.yaml not overwritten with --force")
	}
}
