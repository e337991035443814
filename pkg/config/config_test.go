package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "momwise")
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "name: ${SAMPLE_NAME}\n")

	cfg := sample{Port: 8080}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "momwise" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRunsValidator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "port: -1\n")

	err := Load(path, &sample{})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "default.yaml")
	writeFile(t, def, "port: 1\n")

	var cfg sample
	used, err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), def, &cfg)
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if used != def || cfg.Port != 1 {
		t.Errorf("used = %s, cfg = %+v", used, cfg)
	}

	if _, err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), "", &cfg); err == nil {
		t.Error("expected error without default file")
	}
}

func TestWatchCallsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "port: 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func() { calls.Add(1) })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "port: 2\n")
	writeFile(t, path, "port: 3\n")

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("onChange not called")
	}

	// Other files in the directory are ignored.
	before := calls.Load()
	writeFile(t, filepath.Join(filepath.Dir(path), "other.yaml"), "x: 1\n")
	time.Sleep(400 * time.Millisecond)
	if calls.Load() != before {
		t.Errorf("unrelated file triggered reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
