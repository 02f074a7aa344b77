package scratch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// editorArgv splits an editor command line such as "code --wait" using
// shell quoting rules and appends the file to edit.
func editorArgv(editor, path string) ([]string, error) {
	if strings.TrimSpace(editor) == "" {
		return nil, errors.New("no editor configured: set $EDITOR or GARDEN_EDITOR")
	}

	argv, err := shlex.Split(editor)
	if err != nil {
		return nil, fmt.Errorf("cannot parse editor command %q: %w", editor, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("no editor configured: set $EDITOR or GARDEN_EDITOR")
	}
	return append(argv, path), nil
}
