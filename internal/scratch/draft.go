package scratch

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Draft is the text read back from a scratch file after the editor exits.
type Draft struct {
	// Title is empty when no title was supplied or written.
	Title string
	// Body is the entry text with the front matter removed.
	Body      string
	CreatedAt time.Time
	// ScratchPath is empty for drafts built without an editor session.
	ScratchPath string
}

// NewDraft builds a draft directly from text, without a scratch file.
func NewDraft(title, body string, createdAt time.Time) *Draft {
	return &Draft{
		Title:     strings.TrimSpace(title),
		Body:      body,
		CreatedAt: createdAt,
	}
}

// Abandoned reports whether the user wrote nothing beyond the skeleton.
func (d *Draft) Abandoned() bool {
	return strings.TrimSpace(d.Body) == ""
}

// HasTitle reports whether the draft carries a non-blank title.
func (d *Draft) HasTitle() bool {
	return strings.TrimSpace(d.Title) != ""
}

// parseDraft decodes the edited scratch content into a Draft.
//
// Title precedence: the front matter title as left by the user, then the
// title the session was started with, then the first level-1 heading.
func parseDraft(file *File, data []byte) (*Draft, error) {
	if !utf8.Valid(data) {
		return nil, invalidContentError("scratch file is not valid UTF-8 text: "+file.Path, nil)
	}

	raw := strings.TrimPrefix(string(data), "\ufeff")
	front, body, _ := splitFrontMatter(raw)
	meta, ok := parseFrontMatter(front)
	if !ok {
		body = raw
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = file.Title
	}
	if title == "" {
		title = Heading(body)
	}

	return &Draft{
		Title:       title,
		Body:        strings.TrimSpace(body),
		CreatedAt:   file.CreatedAt,
		ScratchPath: file.Path,
	}, nil
}
