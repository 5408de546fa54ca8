// Package cli implements the reticle command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nanofab/reticle/pkg/buildinfo"
)

// appName is the application name used for display.
const appName = "reticle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reticle merges chip designs into foundry reticle templates",
		Long:         `Reticle merges a user design into an ASML reticle template, resolves layer numbering conflicts, and stamps a scannable Code-39 barcode, a human-readable label and the build date onto the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}
