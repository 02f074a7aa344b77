package garden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/gorewood/garden/internal/output"
	"github.com/gorewood/garden/internal/scratch"
)

// ErrPersist is returned when an entry cannot be written into the garden.
var ErrPersist = errors.New("entry could not be saved")

// Status reports what Commit did with a draft.
type Status string

// Commit outcomes.
const (
	StatusCommitted Status = "committed"
	StatusSkipped   Status = "skipped"
)

// Result describes a commit. Name, Path and Title are empty when skipped.
type Result struct {
	Status    Status    `json:"status"`
	Name      string    `json:"name,omitempty"`
	Path      string    `json:"path,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LinkFunc publishes the file at oldname under newname. It must fail with
// an error matching fs.ErrExist when newname already exists.
type LinkFunc func(oldname, newname string) error

// Writer commits drafts into one garden directory.
type Writer struct {
	root   string
	link   LinkFunc
	logger zerolog.Logger
}

// NewWriter creates a Writer for an existing garden directory.
// If link is nil, uses os.Link.
func NewWriter(root string, link LinkFunc) *Writer {
	if link == nil {
		link = os.Link
	}
	return &Writer{root: root, link: link, logger: zerolog.Nop()}
}

// Open ensures the garden directory at path exists and returns a Writer for it.
func Open(path string) (*Writer, error) {
	root, err := EnsureRoot(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(root, nil), nil
}

// WithLogger sets the logger for commit events.
// Returns the writer for chaining.
func (w *Writer) WithLogger(logger zerolog.Logger) *Writer {
	w.logger = logger
	return w
}

// Root returns the garden directory path.
func (w *Writer) Root() string {
	return w.root
}

// Commit writes a draft into the garden under a fresh name.
// Abandoned drafts are skipped without touching the filesystem.
// On failure no entry is visible under the final name.
func (w *Writer) Commit(d *scratch.Draft) (*Result, error) {
	if d.Abandoned() {
		w.logger.Debug().Msg("draft abandoned, nothing to save")
		return &Result{Status: StatusSkipped, CreatedAt: d.CreatedAt}, nil
	}

	data, err := scratch.Render(d.Title, d.CreatedAt, d.Body)
	if err != nil {
		return nil, persistError("failed to render entry", err)
	}

	tmpPath, err := writeTemp(w.root, data)
	if err != nil {
		return nil, persistError("failed to write entry", err)
	}
	defer w.removeTemp(tmpPath)

	name := DeriveName(d)
	path, err := w.publish(tmpPath, name)
	if err != nil {
		return nil, err
	}

	w.logger.Debug().Str("path", path).Msg("entry committed")
	return &Result{
		Status:    StatusCommitted,
		Name:      filepath.Base(path),
		Path:      path,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
	}, nil
}

// publish claims the first free candidate for name and links the temp file
// to it. Each candidate is checked at claim time, so a name taken by a
// concurrent commit is skipped rather than overwritten.
func (w *Writer) publish(tmpPath, name string) (string, error) {
	for n := 1; n <= maxCandidates; n++ {
		candidate := filepath.Join(w.root, candidateName(name, n))
		err := w.link(tmpPath, candidate)
		switch {
		case err == nil:
			return candidate, nil
		case errors.Is(err, fs.ErrExist):
			w.logger.Debug().Str("name", filepath.Base(candidate)).Msg("entry name taken")
			continue
		case errors.Is(err, errors.ErrUnsupported), errors.Is(err, fs.ErrPermission):
			w.logger.Debug().Err(err).Msg("hard links unavailable, falling back to rename")
			return w.publishByRename(tmpPath, name)
		default:
			return "", persistError("failed to publish entry "+filepath.Base(candidate), err)
		}
	}
	return "", persistError(fmt.Sprintf("no free name for %s after %d attempts", name, maxCandidates), nil)
}

// publishByRename is used on filesystems without hard links. The gap
// between the existence check and the rename is not protected.
func (w *Writer) publishByRename(tmpPath, name string) (string, error) {
	free, err := ResolveCollision(name, w.root)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.root, free)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", persistError("failed to publish entry "+free, err)
	}
	return path, nil
}

// removeTemp deletes the temp artifact of a commit. After a successful link
// the entry keeps its own directory entry, so this never affects it.
func (w *Writer) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn().Err(err).Str("path", path).Msg("could not remove temp file")
	}
}

// writeTemp writes data to a new dot-prefixed temp file in dir, flushed to
// disk, and returns its path.
func writeTemp(dir string, data []byte) (string, error) {
	tmpFile, err := os.CreateTemp(dir, ".tmp-*"+EntryExt)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := fillTemp(tmpFile, data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}

func fillTemp(tmpFile *os.File, data []byte) error {
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	return nil
}

func persistError(message string, cause error) error {
	if cause == nil {
		return output.NewSystemErrorWithCause(message, ErrPersist)
	}
	return output.NewSystemErrorWithCause(message, fmt.Errorf("%w: %w", ErrPersist, cause))
}
