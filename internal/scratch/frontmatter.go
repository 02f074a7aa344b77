package scratch

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// frontMatterDelimiter opens and closes the YAML block at the top of a draft.
const frontMatterDelimiter = "---"

// frontMatter is the metadata block shared by scratch files and garden entries.
// Created is kept as a string so a hand-edited value never fails the read-back.
type frontMatter struct {
	Title   string `yaml:"title,omitempty"`
	Created string `yaml:"created,omitempty"`
}

// Render produces the on-disk form of an entry: front matter followed by a
// blank line and the trimmed body. An empty body yields the bare skeleton.
func Render(title string, createdAt time.Time, body string) ([]byte, error) {
	meta, err := yaml.Marshal(frontMatter{
		Title:   strings.TrimSpace(title),
		Created: createdAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")
	buf.Write(meta)
	buf.WriteString(frontMatterDelimiter + "\n\n")
	if body = strings.TrimSpace(body); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// splitFrontMatter separates a leading --- delimited block from the body.
// Without a complete block the whole input is returned as the body.
func splitFrontMatter(raw string) (front, body string, found bool) {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	lines := strings.SplitAfter(trimmed, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return "", raw, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", raw, false
}

// parseFrontMatter decodes the YAML block of a draft. Hand-edited blocks
// are often not strict YAML (title: Meeting: Q3 plan), so a block that fails
// to decode is scanned line by line for its title instead. ok is false when
// the block carries none of the skeleton's keys, meaning the leading --- was
// the user's own text.
func parseFrontMatter(front string) (meta frontMatter, ok bool) {
	if strings.TrimSpace(front) == "" {
		return meta, true
	}
	if err := yaml.Unmarshal([]byte(front), &meta); err == nil {
		return meta, true
	}
	return scanFrontMatter(front)
}

// scanFrontMatter reads the title: and created: lines of a block verbatim.
func scanFrontMatter(front string) (meta frontMatter, ok bool) {
	for line := range strings.Lines(front) {
		line = strings.TrimSpace(line)
		if value, found := strings.CutPrefix(line, "title:"); found {
			meta.Title = unquote(strings.TrimSpace(value))
			ok = true
		} else if value, found := strings.CutPrefix(line, "created:"); found {
			meta.Created = unquote(strings.TrimSpace(value))
			ok = true
		}
	}
	return meta, ok
}

// unquote strips one pair of matching YAML quotes.
func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// Heading returns the text of the first level-1 Markdown heading in body,
// with inline markup flattened. Returns "" when there is none.
func Heading(body string) string {
	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(body))

	var title string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		heading, ok := node.(*ast.Heading)
		if !entering || !ok || heading.Level != 1 {
			return ast.GoToNext
		}
		title = headingText(heading)
		return ast.Terminate
	})
	return title
}

// headingText concatenates the literal text beneath a heading node.
func headingText(heading *ast.Heading) string {
	var b strings.Builder
	ast.WalkFunc(heading, func(node ast.Node, entering bool) ast.WalkStatus {
		if leaf := node.AsLeaf(); entering && leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
