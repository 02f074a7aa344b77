// Package garden commits drafts into the garden directory.
//
// The garden is a flat directory of Markdown entries. Entry names derive
// from the draft title (slugified) or, for untitled drafts, from the
// creation time in a sortable UTC layout:
//
//	morning-notes.md
//	morning-notes-2.md              (second entry with the same title)
//	2026-10-19-083000-123.md        (untitled)
//	2026-10-19-083000-123_00002.md  (second untitled entry in that millisecond)
//
// Untitled names, including their disambiguators, sort in creation order.
//
// Commits are atomic: the entry is written to a dot-prefixed temp file in
// the garden itself and only then published under its final name. The
// final name is claimed with a hard link, which fails rather than replace
// an existing entry, so concurrent commits of the same title each land
// under a distinct name.
package garden
