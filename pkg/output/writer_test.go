package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"proxyforge-hq/proxyforge/pkg/render"
)

func testBundle(logDirs ...string) *render.Bundle {
	return &render.Bundle{
		Documents: []render.Document{
			{Path: render.NginxConfPath, Content: []byte("events {}\n")},
			{Path: render.DefaultConfPath, Content: []byte("server {}\n")},
			{Path: render.ManifestPath, Content: []byte("services: {}\n")},
		},
		Directories:    []string{render.ConfDir, render.WebrootHostDir, render.CertsHostDir},
		LogDirectories: logDirs,
	}
}

func TestWriter_Write(t *testing.T) {
	root := filepath.Join(t.TempDir(), "generated")
	logDir := filepath.Join(t.TempDir(), "logs", "nginx")

	if err := NewWriter(root, nil).Write(context.Background(), testBundle(logDir)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, doc := range testBundle().Documents {
		path := filepath.Join(root, filepath.FromSlash(doc.Path))
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", path, err)
		}
		if string(got) != string(doc.Content) {
			t.Errorf("%s = %q, want %q", doc.Path, got, doc.Content)
		}
		info, _ := os.Stat(path)
		if info.Mode().Perm() != FileMode {
			t.Errorf("%s mode = %v, want %v", doc.Path, info.Mode().Perm(), FileMode)
		}
	}

	for _, dir := range []string{
		filepath.Join(root, "certbot", "www"),
		filepath.Join(root, "certbot", "conf"),
		logDir,
	} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s missing", dir)
		}
	}
}

func TestWriter_WipesPreviousRun(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "nginx", "conf.d", "old.example.com.conf")
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewWriter(root, nil).Write(context.Background(), testBundle()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale document survived: %v", err)
	}
}

func TestWriter_RefusesUnsafeRoots(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
	}{
		{name: "empty", root: ""},
		{name: "filesystem root", root: "/"},
		{name: "working directory", root: "."},
		{name: "parent of working directory", root: filepath.Dir(cwd)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewWriter(tt.root, nil).Write(context.Background(), testBundle())
			if !errors.Is(err, ErrResourceUnavailable) {
				t.Fatalf("Write() error = %v, want ErrResourceUnavailable", err)
			}
			if _, statErr := os.Stat(cwd); statErr != nil {
				t.Fatalf("working directory removed: %v", statErr)
			}
		})
	}
}

func TestWriter_LogDirectoryFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := NewWriter(filepath.Join(base, "out"), nil).
		Write(context.Background(), testBundle(filepath.Join(blocker, "logs")))

	var resErr *ResourceError
	if !errors.As(err, &resErr) {
		t.Fatalf("Write() error = %v, want *ResourceError", err)
	}
	if resErr.Path != filepath.Join(blocker, "logs") {
		t.Errorf("Path = %q, want the log directory", resErr.Path)
	}
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Error("error does not match ErrResourceUnavailable")
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWriter(filepath.Join(t.TempDir(), "out"), nil).Write(ctx, testBundle())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b/c", "/a", true},
		{"/a", "/a/b", false},
		{"/ab", "/a", false},
		{"/a/..b", "/a", true},
	}
	for _, tt := range tests {
		if got := within(tt.path, tt.dir); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}
