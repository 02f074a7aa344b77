// Package capture runs one capture-and-commit invocation: scratch file,
// editor, read-back, commit.
package capture

import (
	"github.com/rs/zerolog"

	"github.com/gorewood/garden/internal/garden"
	"github.com/gorewood/garden/internal/scratch"
)

// State is a step of a single capture. States only move forward.
type State int

// Capture states, in order.
const (
	StateIdle State = iota
	StateScratchCreated
	StateEditing
	StateRead
	StateAbandoned
	StateValidated
	StateSkipped
	StateCommitted
	StateFailed
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateScratchCreated: "scratch-created",
	StateEditing:        "editing",
	StateRead:           "read",
	StateAbandoned:      "abandoned",
	StateValidated:      "validated",
	StateSkipped:        "skipped",
	StateCommitted:      "committed",
	StateFailed:         "failed",
}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Outcome is the record of one capture.
type Outcome struct {
	State State
	// Result is set once the writer has run.
	Result *garden.Result
	// ScratchPath is set when the scratch file was left on disk,
	// so the user can recover what they wrote.
	ScratchPath string
}

// Pipeline wires a scratch session to a garden writer.
type Pipeline struct {
	session *scratch.Session
	writer  *garden.Writer
	logger  zerolog.Logger
}

// New creates a Pipeline.
func New(session *scratch.Session, writer *garden.Writer, logger zerolog.Logger) *Pipeline {
	return &Pipeline{session: session, writer: writer, logger: logger}
}

// Run captures one entry. An abandoned draft is a successful skip.
// On error the Outcome is still returned and records where the run stopped.
func (p *Pipeline) Run(title string) (*Outcome, error) {
	out := &Outcome{State: StateIdle}

	file, err := p.session.Begin(title)
	if err != nil {
		return p.fail(out, err)
	}
	p.advance(out, StateScratchCreated)

	p.advance(out, StateEditing)
	draft, err := p.session.Edit(file)
	if err != nil {
		out.ScratchPath = file.Path
		return p.fail(out, err)
	}
	p.advance(out, StateRead)

	if draft.Abandoned() {
		p.advance(out, StateAbandoned)
	} else {
		p.advance(out, StateValidated)
	}

	res, err := p.writer.Commit(draft)
	if err != nil {
		out.ScratchPath = file.Path
		return p.fail(out, err)
	}
	out.Result = res
	p.session.Finish(file)

	if res.Status == garden.StatusSkipped {
		p.advance(out, StateSkipped)
	} else {
		p.advance(out, StateCommitted)
	}
	return out, nil
}

func (p *Pipeline) advance(out *Outcome, next State) {
	p.logger.Debug().Stringer("from", out.State).Stringer("to", next).Msg("capture")
	out.State = next
}

func (p *Pipeline) fail(out *Outcome, err error) (*Outcome, error) {
	p.logger.Debug().Stringer("from", out.State).Err(err).Msg("capture failed")
	out.State = StateFailed
	return out, err
}
