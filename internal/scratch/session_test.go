package scratch

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/garden/internal/output"
)

// --- Test Helpers ---

var fixedTime = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// writingRun returns a RunFunc that stands in for an editor by rewriting
// the scratch file with content computed from the seeded text.
func writingRun(t *testing.T, edit func(seeded string) string) RunFunc {
	t.Helper()
	return func(cmd *exec.Cmd) error {
		path := cmd.Args[len(cmd.Args)-1]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(edit(string(data))), 0o600)
	}
}

func appendRun(t *testing.T, text string) RunFunc {
	t.Helper()
	return writingRun(t, func(seeded string) string { return seeded + text })
}

func newTestSession(t *testing.T, run RunFunc) *Session {
	t.Helper()
	var discard bytes.Buffer
	return NewSession("fake-editor --wait", run).
		WithDir(t.TempDir()).
		WithStdio(strings.NewReader(""), &discard, &discard).
		WithClock(fixedClock)
}

// --- Begin Tests ---

func TestSession_Begin(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantTitle bool
	}{
		{name: "seeds title into front matter", title: "Morning Notes", wantTitle: true},
		{name: "omits title when empty", title: "", wantTitle: false},
		{name: "treats blank title as empty", title: "   ", wantTitle: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, nil)

			file, err := session.Begin(tt.title)
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}

			data, err := os.ReadFile(file.Path)
			if err != nil {
				t.Fatalf("scratch file not readable: %v", err)
			}
			content := string(data)

			if !bytes.Equal(data, file.Skeleton) {
				t.Errorf("file content %q differs from recorded skeleton %q", content, file.Skeleton)
			}
			if !strings.HasPrefix(content, "---\n") {
				t.Errorf("skeleton should open with front matter: %q", content)
			}
			if !strings.Contains(content, "2026-10-19T08:30:00Z") {
				t.Errorf("skeleton should carry the creation time: %q", content)
			}
			if got := strings.Contains(content, "title:"); got != tt.wantTitle {
				t.Errorf("title present = %v, want %v: %q", got, tt.wantTitle, content)
			}
			if !file.CreatedAt.Equal(fixedTime) {
				t.Errorf("CreatedAt = %v, want %v", file.CreatedAt, fixedTime)
			}
		})
	}
}

func TestSession_Begin_UniqueFiles(t *testing.T) {
	session := newTestSession(t, nil)

	first, err := session.Begin("same")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	second, err := session.Begin("same")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if first.Path == second.Path {
		t.Errorf("two sessions share scratch path %q", first.Path)
	}
}

func TestSession_Begin_UnwritableDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	session := NewSession("vi", nil).WithDir(missing)

	_, err := session.Begin("title")
	if err == nil {
		t.Fatal("expected error for missing scratch dir")
	}
	if !errors.Is(err, ErrScratchCreation) {
		t.Errorf("error should wrap ErrScratchCreation: %v", err)
	}
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", code, output.ExitSystemError)
	}
}

// --- Edit Tests ---

func TestSession_Edit(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		run           func(t *testing.T) RunFunc
		wantTitle     string
		wantBody      string
		wantAbandoned bool
	}{
		{
			name:      "appended body with seeded title",
			title:     "Morning Notes",
			run:       func(t *testing.T) RunFunc { return appendRun(t, "Had coffee, planned the week.\n") },
			wantTitle: "Morning Notes",
			wantBody:  "Had coffee, planned the week.",
		},
		{
			name:          "untouched skeleton is abandoned",
			title:         "Morning Notes",
			run:           func(t *testing.T) RunFunc { return appendRun(t, "") },
			wantTitle:     "Morning Notes",
			wantAbandoned: true,
		},
		{
			name:          "whitespace-only body is abandoned",
			run:           func(t *testing.T) RunFunc { return appendRun(t, "\n\n   \t\n") },
			wantAbandoned: true,
		},
		{
			name:          "emptied file is abandoned",
			title:         "Gone",
			run:           func(t *testing.T) RunFunc { return writingRun(t, func(string) string { return "" }) },
			wantTitle:     "Gone",
			wantAbandoned: true,
		},
		{
			name:  "title edited in front matter wins",
			title: "Draft",
			run: func(t *testing.T) RunFunc {
				return writingRun(t, func(seeded string) string {
					return strings.Replace(seeded, "title: Draft", "title: Final Title", 1) + "body\n"
				})
			},
			wantTitle: "Final Title",
			wantBody:  "body",
		},
		{
			name: "title inferred from first heading",
			run: func(t *testing.T) RunFunc {
				return appendRun(t, "## Sub\n\n# Garden *Walk*\n\nsome text\n")
			},
			wantTitle: "Garden Walk",
			wantBody:  "## Sub\n\n# Garden *Walk*\n\nsome text",
		},
		{
			name:  "colon in edited title is kept",
			title: "Draft",
			run: func(t *testing.T) RunFunc {
				return writingRun(t, func(seeded string) string {
					return strings.Replace(seeded, "title: Draft", "title: Meeting: Q3 plan", 1) + "Decided things.\n"
				})
			},
			wantTitle: "Meeting: Q3 plan",
			wantBody:  "Decided things.",
		},
		{
			name: "leading thematic break is body text",
			run: func(t *testing.T) RunFunc {
				return writingRun(t, func(string) string { return "---\nJust a thought\n---\nmore\n" })
			},
			wantBody: "---\nJust a thought\n---\nmore",
		},
		{
			name: "front matter removed by user keeps body",
			run: func(t *testing.T) RunFunc {
				return writingRun(t, func(string) string { return "just text\n" })
			},
			wantBody: "just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, tt.run(t))
			file, err := session.Begin(tt.title)
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}

			draft, err := session.Edit(file)
			if err != nil {
				t.Fatalf("Edit() error = %v", err)
			}

			if draft.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", draft.Title, tt.wantTitle)
			}
			if draft.Abandoned() != tt.wantAbandoned {
				t.Errorf("Abandoned() = %v, want %v (body %q)", draft.Abandoned(), tt.wantAbandoned, draft.Body)
			}
			if !tt.wantAbandoned && draft.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", draft.Body, tt.wantBody)
			}
			if !draft.CreatedAt.Equal(fixedTime) {
				t.Errorf("CreatedAt = %v, want %v", draft.CreatedAt, fixedTime)
			}
			if draft.ScratchPath != file.Path {
				t.Errorf("ScratchPath = %q, want %q", draft.ScratchPath, file.Path)
			}
		})
	}
}

func TestSession_Edit_PassesArgv(t *testing.T) {
	var gotArgs []string
	session := newTestSession(t, func(cmd *exec.Cmd) error {
		gotArgs = cmd.Args
		return nil
	})
	file, err := session.Begin("")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if _, err := session.Edit(file); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	want := []string{"fake-editor", "--wait", file.Path}
	if strings.Join(gotArgs, "|") != strings.Join(want, "|") {
		t.Errorf("argv = %q, want %q", gotArgs, want)
	}
}

func TestSession_Edit_EditorFailureLeavesScratch(t *testing.T) {
	session := newTestSession(t, func(cmd *exec.Cmd) error {
		// Scribble on the file, then fail: the content must survive untouched.
		path := cmd.Args[len(cmd.Args)-1]
		if err := os.WriteFile(path, []byte("half a thought"), 0o600); err != nil {
			return err
		}
		return errors.New("editor crashed")
	})
	file, err := session.Begin("Crash")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	_, err = session.Edit(file)
	if !errors.Is(err, ErrEditorLaunch) {
		t.Fatalf("error should wrap ErrEditorLaunch, got %v", err)
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}

	data, readErr := os.ReadFile(file.Path)
	if readErr != nil {
		t.Fatalf("scratch file should remain after editor failure: %v", readErr)
	}
	if string(data) != "half a thought" {
		t.Errorf("scratch content = %q, want it untouched", data)
	}
}

func TestSession_Edit_RealEditorExitStatus(t *testing.T) {
	tests := []struct {
		name        string
		editor      string
		wantErr     bool
		errContains string
	}{
		{name: "zero exit succeeds", editor: "true"},
		{name: "non-zero exit fails", editor: "false", wantErr: true, errContains: "exited with status 1"},
		{name: "missing editor fails", editor: "garden-no-such-editor-binary", wantErr: true, errContains: "not found"},
		{name: "empty editor fails", editor: "  ", wantErr: true, errContains: "no editor configured"},
		{name: "unbalanced quotes fail", editor: `vi "unterminated`, wantErr: true, errContains: "cannot parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.editor == "true" || tt.editor == "false" {
				if _, err := exec.LookPath(tt.editor); err != nil {
					t.Skipf("%s not available: %v", tt.editor, err)
				}
			}
			var discard bytes.Buffer
			session := NewSession(tt.editor, nil).
				WithDir(t.TempDir()).
				WithStdio(strings.NewReader(""), &discard, &discard).
				WithClock(fixedClock)
			file, err := session.Begin("Real")
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}

			draft, err := session.Edit(file)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrEditorLaunch) {
					t.Errorf("error should wrap ErrEditorLaunch: %v", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				if _, statErr := os.Stat(file.Path); statErr != nil {
					t.Errorf("scratch file should remain: %v", statErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Edit() error = %v", err)
			}
			if !draft.Abandoned() {
				t.Errorf("editor that writes nothing should yield an abandoned draft, body %q", draft.Body)
			}
		})
	}
}

func TestSession_Edit_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "invalid UTF-8", content: []byte{0xff, 0xfe, 0xfd, '\n'}},
		{name: "UTF-16 with byte order mark", content: []byte{0xff, 0xfe, 'h', 0, 'i', 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(t, func(cmd *exec.Cmd) error {
				return os.WriteFile(cmd.Args[len(cmd.Args)-1], tt.content, 0o600)
			})
			file, err := session.Begin("")
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}

			_, err = session.Edit(file)
			if !errors.Is(err, ErrInvalidContent) {
				t.Fatalf("error should wrap ErrInvalidContent, got %v", err)
			}
			if _, statErr := os.Stat(file.Path); statErr != nil {
				t.Errorf("scratch file should be kept for recovery: %v", statErr)
			}
		})
	}
}

// --- Finish Tests ---

func TestSession_Finish(t *testing.T) {
	session := newTestSession(t, nil)
	file, err := session.Begin("bye")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	session.Finish(file)
	if _, err := os.Stat(file.Path); !os.IsNotExist(err) {
		t.Errorf("scratch file should be removed, stat err = %v", err)
	}

	// A second Finish on a missing file must not panic or fail.
	session.Finish(file)
}
