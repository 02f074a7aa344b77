// Package main provides the entry point for the garden CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gorewood/garden/internal/config"
	"github.com/gorewood/garden/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against the command's output writer.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Flags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	} else if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the garden CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garden",
		Short: "Capture notes into a plain-text garden",
		Long: `Garden - capture a note in your editor and file it into your garden.

Each invocation opens your editor on a scratch file. When the editor exits,
the text is saved into the garden directory as a Markdown file named after
its title (or the time it was started when there is no title). Existing
entries are never overwritten. Closing the editor without writing anything
saves nothing.

The garden directory defaults to ~/.garden and can be set with --garden-path
or GARDEN_PATH. The editor is taken from GARDEN_EDITOR, VISUAL or EDITOR.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'garden --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return loadEnvFile()
	}

	flags := cmd.PersistentFlags()
	flags.StringP(config.FlagGardenPath, "p", "", "Garden directory (default ~/.garden)")
	flags.Bool("json", false, "Output in JSON format")
	flags.String("color", "auto", "Colorize output: auto, always, never")
	flags.String(config.FlagLogLevel, "", "Log level: debug, info, warn, error")

	lipgloss.SetHasDarkBackground(true)

	addCommands(cmd)

	return cmd
}

// loadEnvFile loads the env file in the config directory, if there is one.
func loadEnvFile() error {
	dir := config.Dir()
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, "env")
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return output.NewUserErrorWithCause("cannot read "+path, err)
}

// addCommands adds all subcommands.
func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newWriteCmd())
	cmd.AddCommand(newServeCmd())
}
