package scratch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gorewood/garden/internal/output"
)

// Sentinel errors carried as the cause of the *output.ExitError values
// returned by a Session.
var (
	// ErrScratchCreation is returned when the scratch file cannot be created.
	ErrScratchCreation = errors.New("scratch file could not be created")
	// ErrEditorLaunch is returned when the editor is missing or exits non-zero.
	ErrEditorLaunch = errors.New("editor failed")
	// ErrInvalidContent is returned when the edited scratch file cannot be decoded.
	ErrInvalidContent = errors.New("draft content is not readable text")
)

// scratchPattern names scratch files; os.CreateTemp replaces the * with a
// random string so concurrent sessions never share a file.
const scratchPattern = "garden-*.md"

// RunFunc runs a prepared editor command and waits for it to exit.
type RunFunc func(cmd *exec.Cmd) error

// DefaultRun runs the editor command in the foreground.
func DefaultRun(cmd *exec.Cmd) error {
	return cmd.Run()
}

// File is a seeded scratch file awaiting the editor.
type File struct {
	Path      string
	Title     string
	CreatedAt time.Time
	Skeleton  []byte
}

// Session creates scratch files and runs the editor against them.
type Session struct {
	editor string
	dir    string
	run    RunFunc
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	logger zerolog.Logger
}

// NewSession creates a Session launching the given editor command line.
// If run is nil, uses DefaultRun.
func NewSession(editor string, run RunFunc) *Session {
	if run == nil {
		run = DefaultRun
	}
	return &Session{
		editor: editor,
		run:    run,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
}

// WithDir places scratch files in dir instead of the OS temp directory.
// Returns the session for chaining.
func (s *Session) WithDir(dir string) *Session {
	s.dir = dir
	return s
}

// WithStdio connects the editor to the given streams.
// Returns the session for chaining.
func (s *Session) WithStdio(stdin io.Reader, stdout, stderr io.Writer) *Session {
	s.stdin = stdin
	s.stdout = stdout
	s.stderr = stderr
	return s
}

// WithClock overrides the source of creation timestamps.
// Returns the session for chaining.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// WithLogger sets the logger for scratch lifecycle events.
// Returns the session for chaining.
func (s *Session) WithLogger(logger zerolog.Logger) *Session {
	s.logger = logger
	return s
}

// Begin creates a scratch file seeded with front matter for title.
// The creation timestamp of the eventual entry is captured here.
func (s *Session) Begin(title string) (*File, error) {
	title = strings.TrimSpace(title)
	createdAt := s.now()

	skeleton, err := Render(title, createdAt, "")
	if err != nil {
		return nil, scratchError("failed to render scratch skeleton", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, scratchPattern)
	if err != nil {
		return nil, scratchError("failed to create scratch file", err)
	}
	path := tmpFile.Name()

	if _, err := tmpFile.Write(skeleton); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(path)
		return nil, scratchError("failed to seed scratch file", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(path)
		return nil, scratchError("failed to seed scratch file", err)
	}

	s.logger.Debug().Str("path", path).Str("title", title).Msg("scratch file created")

	return &File{
		Path:      path,
		Title:     title,
		CreatedAt: createdAt,
		Skeleton:  skeleton,
	}, nil
}

// Edit opens file in the editor, blocks until the editor exits, and reads
// the result back. The scratch file is left untouched when the editor fails.
func (s *Session) Edit(file *File) (*Draft, error) {
	argv, err := editorArgv(s.editor, file.Path)
	if err != nil {
		return nil, editorError(err.Error(), err)
	}

	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // the user's own editor
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	s.logger.Debug().Strs("argv", argv).Msg("launching editor")
	if err := s.run(cmd); err != nil {
		return nil, describeEditorFailure(argv[0], err)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, invalidContentError("failed to read scratch file after editing: "+file.Path, err)
	}
	return parseDraft(file, data)
}

// Finish removes the scratch file. Failures are logged, not returned:
// temp storage is reclaimed by the OS eventually.
func (s *Session) Finish(file *File) {
	err := os.Remove(file.Path)
	switch {
	case err == nil:
		s.logger.Debug().Str("path", file.Path).Msg("scratch file removed")
	case errors.Is(err, fs.ErrNotExist):
	default:
		s.logger.Warn().Err(err).Str("path", file.Path).Msg("could not remove scratch file")
	}
}

// describeEditorFailure turns an exec failure into an editor error.
func describeEditorFailure(name string, err error) error {
	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return editorError(fmt.Sprintf("editor %q not found: set $EDITOR or GARDEN_EDITOR", name), err)
	case errors.As(err, &exitErr):
		return editorError(fmt.Sprintf("editor %q exited with status %d", name, exitErr.ExitCode()), err)
	default:
		return editorError(fmt.Sprintf("could not run editor %q: %v", name, err), err)
	}
}

func scratchError(message string, cause error) error {
	return output.NewSystemErrorWithCause(message, fmt.Errorf("%w: %w", ErrScratchCreation, cause))
}

func editorError(message string, cause error) error {
	return output.NewUserErrorWithCause(message, fmt.Errorf("%w: %w", ErrEditorLaunch, cause))
}

func invalidContentError(message string, cause error) error {
	if cause == nil {
		return output.NewUserErrorWithCause(message, ErrInvalidContent)
	}
	return output.NewUserErrorWithCause(message, fmt.Errorf("%w: %w", ErrInvalidContent, cause))
}
