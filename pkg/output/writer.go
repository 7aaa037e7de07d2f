package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/render"
)

// ErrResourceUnavailable is matched by every error of this package.
var ErrResourceUnavailable = config.ErrResourceUnavailable

// File modes of created entries.
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// ResourceError reports a filesystem operation that failed on Path.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the error message.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrResourceUnavailable.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceUnavailable
}

// Writer writes bundles below Root.
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a Writer for root. A nil logger discards output.
func NewWriter(root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{root: root, logger: logger}
}

// Root returns the output directory.
func (w *Writer) Root() string {
	return w.root
}

// Write replaces the contents of the output directory with bundle.
func (w *Writer) Write(ctx context.Context, bundle *render.Bundle) error {
	root, err := w.safeRoot()
	if err != nil {
		return err
	}

	// Wipe and recreate the owned tree
	if err := os.RemoveAll(root); err != nil {
		return &ResourceError{Op: "remove", Path: root, Err: err}
	}
	if err := os.MkdirAll(root, DirMode); err != nil {
		return &ResourceError{Op: "create", Path: root, Err: err}
	}

	for _, dir := range bundle.Directories {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := mkdir(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			return err
		}
	}

	// Log directories live outside the owned tree
	for _, dir := range bundle.LogDirectories {
		if err := mkdir(dir); err != nil {
			return err
		}
		w.logger.Debug("log directory ready", "path", dir)
	}

	for _, doc := range bundle.Documents {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(root, filepath.FromSlash(doc.Path))
		if err := mkdir(filepath.Dir(path)); err != nil {
			return err
		}
		if err := os.WriteFile(path, doc.Content, FileMode); err != nil {
			return &ResourceError{Op: "write", Path: path, Err: err}
		}
		w.logger.Debug("document written", "path", path, "bytes", len(doc.Content))
	}

	w.logger.Info("bundle written",
		"root", root,
		"documents", len(bundle.Documents),
		"log_directories", len(bundle.LogDirectories),
	)
	return nil
}

// safeRoot resolves the output directory and refuses targets whose removal
// would destroy the working directory or the filesystem root.
func (w *Writer) safeRoot() (string, error) {
	if strings.TrimSpace(w.root) == "" {
		return "", &ResourceError{Op: "resolve", Path: w.root, Err: fmt.Errorf("output directory is empty")}
	}

	root, err := filepath.Abs(w.root)
	if err != nil {
		return "", &ResourceError{Op: "resolve", Path: w.root, Err: err}
	}
	if root == filepath.Dir(root) {
		return "", &ResourceError{Op: "resolve", Path: root, Err: fmt.Errorf("refusing to replace the filesystem root")}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", &ResourceError{Op: "resolve", Path: root, Err: err}
	}
	if within(cwd, root) {
		return "", &ResourceError{Op: "resolve", Path: root, Err: fmt.Errorf("refusing to replace the working directory or its parent")}
	}

	return root, nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func mkdir(dir string) error {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return &ResourceError{Op: "create", Path: dir, Err: err}
	}
	return nil
}
