// Package output provides structured output handling for the garden CLI.
//
// Every command renders through a Printer, which switches between
// human-readable and JSON output based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
//	printer.Success(map[string]any{"status": "committed", "path": res.Path})
//	printer.Error(err)
//
// # Styling
//
// Human output uses lipgloss styles that are cleared when output is piped
// or --color never is given.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success, including "nothing written"
//	output.ExitUserError   // 1: Editor failed, unreadable draft, bad flags
//	output.ExitSystemError // 2: Scratch or garden I/O failed
//	output.ExitConflict    // 3: Garden path cannot hold entries
//
// Domain packages wrap their sentinel errors (scratch.ErrEditorLaunch,
// garden.ErrPersist, ...) as the Cause of an ExitError, so callers can use
// both errors.Is and GetExitCode on the same value.
package output
