// Package cli provides the command-line interface for axlocator.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/axlocator/pkg/core"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "hierarchy",
		Aliases: []string{"f"},
		Usage:   "Element hierarchy snapshot (.xml, .yaml, .json)",
		EnvVars: []string{"AXLOCATOR_HIERARCHY"},
	},
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to axlocator.yaml (default: ./axlocator.yaml, then $AXLOCATOR_HOME)",
		EnvVars: []string{"AXLOCATOR_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "format",
		Usage:   "Result format (json, text)",
		EnvVars: []string{"AXLOCATOR_FORMAT"},
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Also write the JSON result to this file",
	},
	&cli.IntFlag{
		Name:  "max-depth",
		Usage: "Maximum traversal depth, 0 for the root only (overrides config)",
	},
	&cli.DurationFlag{
		Name:    "timeout",
		Usage:   "Give up if a query has not finished after this long (0 = no limit)",
		EnvVars: []string{"AXLOCATOR_TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file",
		EnvVars: []string{"AXLOCATOR_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Log to stderr",
		EnvVars: []string{"AXLOCATOR_VERBOSE"},
	},
}

// NewApp builds the axlocator application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "axlocator",
		Usage:   "Locate elements in accessibility hierarchies",
		Version: Version,
		Description: `axlocator finds UI elements in accessibility element trees using
attribute criteria, Role[Index] path hints and a smart fallback for actions.

Examples:
  axlocator -f app.xml find --role AXButton -c title=Save
  axlocator -f app.yaml collect --role AXButton --where 'el.enabled'
  axlocator -f app.xml navigate 'AXWindow[1]/AXToolbar[1]/AXButton[2]'
  axlocator -f app.xml perform --action AXPress -c title=Save
  axlocator -f app.xml hierarchy --depth 3`,
		Flags: GlobalFlags,
		// Criteria values such as actionNames=AXPress,AXShowMenu contain commas.
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			findCommand,
			collectCommand,
			navigateCommand,
			performCommand,
			hierarchyCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps command errors to process exit codes. Errors outside the
// core model (flag parsing, usage) exit with 1.
func exitCode(err error) int {
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Category.ExitCode()
	}
	return 1
}
