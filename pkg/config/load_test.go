package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadEnvironment_FileAndEnv(t *testing.T) {
	path := writeEnvFile(t, `# proxy
SERVICE_COUNT=1
NGINX_WORKER_PROCESSES=2
SERVICE_1_NAME=web
`)
	t.Setenv("NGINX_WORKER_PROCESSES", "4")

	src, err := LoadEnvironment(path)
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{KeyServiceCount, "1"},
		{KeyWorkerProcesses, "4"}, // process environment wins
		{ServiceKey(1, FieldName), "web"},
	}
	for _, tt := range tests {
		got, ok := src.Lookup(tt.key)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadEnvironment_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("PROXYFORGE_TEST_MARKER", "present")

	src, err := LoadEnvironment(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("LoadEnvironment() error = %v", err)
	}
	if v, _ := src.Lookup("PROXYFORGE_TEST_MARKER"); v != "present" {
		t.Errorf("expected process environment to be loaded, got %q", v)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeEnvFile(t, "LOG_MODE=stdout\nLOG_LEVEL=info\n")
	t.Setenv("LOG_MODE", "file")

	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if v, _ := src.Lookup(KeyLogMode); v != "stdout" {
		t.Errorf("LOG_MODE = %q, want %q (file only)", v, "stdout")
	}
	if len(src) != 2 {
		t.Errorf("len(src) = %d, want 2", len(src))
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
