// Package main provides the entry point for the garden CLI.
package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gorewood/garden/internal/capture"
	"github.com/gorewood/garden/internal/config"
	"github.com/gorewood/garden/internal/garden"
	"github.com/gorewood/garden/internal/logging"
	"github.com/gorewood/garden/internal/output"
	"github.com/gorewood/garden/internal/scratch"
)

// newWriteCmd creates the write command.
func newWriteCmd() *cobra.Command {
	var titleFlag string
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a new garden entry in your editor",
		Long: `Open your editor on a scratch file and save what you write as a new entry.

The entry is named after its title. The title comes from the title: line
at the top of the scratch file, which --title fills in for you. Without a
title the first "# Heading" is used, and failing that the entry is named
after the time the command started.

If you quit the editor without writing anything, nothing is saved. If the
entry cannot be saved, the scratch file is kept and its path is printed.

Examples:
  garden write                          # Untitled entry, named by time
  garden write -t "Morning Notes"       # Saved as morning-notes.md
  garden write -p ~/notes --json        # Other garden, JSON result`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWrite(cmd, titleFlag)
		},
	}
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Title of the entry")
	return cmd
}

// runWrite executes the write command.
func runWrite(cmd *cobra.Command, title string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())

	settings, err := config.Load(cmd.Flags())
	if err != nil {
		err = output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(err)
		return err
	}
	logger := logging.New(settings.LogLevel, cmd.ErrOrStderr(), useColor(cmd))
	if settings.ConfigFile != "" {
		logger.Debug().Str("file", settings.ConfigFile).Msg("loaded config")
	}

	writer, err := garden.Open(settings.GardenPath)
	if err != nil {
		printer.Error(err)
		return err
	}
	writer = writer.WithLogger(logger)

	pipeline := newPipeline(cmd, settings, writer, logger)
	outcome, err := pipeline.Run(title)
	if err != nil {
		printWriteError(printer, outcome, err)
		return err
	}

	return printWriteResult(printer, outcome.Result)
}

// newPipeline builds the capture pipeline around the user's editor.
func newPipeline(cmd *cobra.Command, settings *config.Settings, writer *garden.Writer, logger zerolog.Logger) *capture.Pipeline {
	session := scratch.NewSession(settings.Editor, nil).
		WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()).
		WithLogger(logger)
	return capture.New(session, writer, logger)
}

// printWriteResult reports a committed or skipped entry.
func printWriteResult(printer *output.Printer, res *garden.Result) error {
	if res.Status == garden.StatusSkipped {
		return printer.Success(map[string]any{
			"status":  string(res.Status),
			"message": "nothing written",
		})
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"status": string(res.Status),
			"name":   res.Name,
			"path":   res.Path,
		})
	}

	if err := printer.Success(map[string]any{"message": "Planted " + res.Name}); err != nil {
		return err
	}
	printer.KeyValue("Path", res.Path)
	return nil
}

// printWriteError reports a failed capture, pointing at the kept scratch file.
func printWriteError(printer *output.Printer, outcome *capture.Outcome, err error) {
	scratchPath := ""
	if outcome != nil {
		scratchPath = outcome.ScratchPath
	}

	if printer.IsJSON() {
		data := map[string]any{
			"error": err.Error(),
			"code":  output.GetExitCode(err),
		}
		if scratchPath != "" {
			data["scratch_path"] = scratchPath
		}
		_ = printer.WriteJSON(data)
		return
	}

	printer.Error(err)
	if scratchPath != "" {
		printer.Warn("your text is still in %s", scratchPath)
	}
}
