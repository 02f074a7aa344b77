package garden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/garden/internal/output"
)

// ErrGardenRoot is returned when the garden path cannot hold entries.
var ErrGardenRoot = errors.New("garden directory unusable")

// EnsureRoot resolves path to an absolute directory, creating it and its
// parents if missing, and verifies that entries can be written into it.
func EnsureRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", output.NewUserErrorWithCause("garden path is empty", ErrGardenRoot)
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return "", rootError("cannot resolve garden path "+path, err)
	}

	info, err := os.Stat(root)
	switch {
	case err == nil && !info.IsDir():
		return "", rootError("garden path exists but is not a directory: "+root, nil)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", rootError("cannot access garden directory "+root, err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", rootError("failed to create garden directory "+root, err)
	}

	if err := probeWritable(root); err != nil {
		return "", rootError("garden directory is not writable: "+root, err)
	}

	return root, nil
}

// probeWritable creates and removes a temp file in dir.
func probeWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	closeErr := probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("removing probe file: %w", err)
	}
	return closeErr
}

func rootError(message string, cause error) error {
	if cause == nil {
		return output.NewConflictErrorWithCause(message, ErrGardenRoot)
	}
	return output.NewConflictErrorWithCause(message, fmt.Errorf("%w: %w", ErrGardenRoot, cause))
}
