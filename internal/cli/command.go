package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/dircat/internal/consolidate"
	"github.com/idelchi/dircat/internal/integration"
	"github.com/idelchi/dircat/internal/largefiles"
	"github.com/idelchi/dircat/internal/scan"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with args, writing reports to stdout and
// diagnostics to stderr.
func (c CLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := c.rootCommand(stdout, stderr)
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

// app carries the state shared by the subcommands.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
}

func (c CLI) rootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "dircat",
		Short: "Consolidate source files into one report or list oversized files",
		Long: heredoc.Doc(`
			dircat walks a directory tree and either concatenates the matching files
			into a single text report, or lists the files above a size threshold,
			largest first.

			Directories named in --exclude are skipped at every depth and never read.

			Settings can also come from a config file (dircat.yaml in the current
			directory or in ~/.config/dircat/) and from DIRCAT_* environment variables,
			e.g. DIRCAT_MIN_SIZE=1GiB.
		`),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default: dircat.yaml in . or ~/.config/dircat)")
	root.PersistentFlags().Bool("debug", false, "Enable debug output")

	root.AddCommand(
		a.consolidateCommand(),
		a.splitCommand(),
		a.largeCommand(),
		a.initCommand(),
	)

	return root
}

func (a *app) consolidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate [path]",
		Short: "Concatenate matching files into one text report",
		Long: heredoc.Doc(`
			Writes every file below path whose name ends with one of --ext into the
			report, each preceded by a "----- <path> -----" header. Files that cannot
			be read or are not valid UTF-8 get a placeholder instead of their contents.

			Path defaults to the current directory.
		`),
		Example: heredoc.Doc(`
			dircat consolidate
			dircat consolidate ./service -x .go,.md,!_test.go -o service.txt
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, a.configFile)
			if err != nil {
				return err
			}

			return a.runConsolidate(cmd.Context(), pathArg(args), settings)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceP("ext", "x", consolidate.DefaultExtensions,
		"File suffixes to include (e.g., .go,.md). Use '!' prefix to exclude (e.g., !_test.go)")
	flags.StringP("output", "o", consolidate.DefaultOutput, "Report file")
	walkFlags(cmd, scan.DefaultExcludes)

	return cmd
}

func (a *app) splitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [path]",
		Short: "Write one report per configured target (frontend and backend by default)",
		Long: heredoc.Doc(`
			Runs the consolidation once per target. Target roots are resolved
			relative to path, outputs relative to the current directory.

			A target whose root does not exist is reported and skipped; the
			remaining targets still run.

			Targets are configured under the "targets" key of the config file:

			  targets:
			    - name: frontend
			      root: frontend
			      extensions: [.js, .jsx, .css, .html]
			      output: frontend_code.txt
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, a.configFile)
			if err != nil {
				return err
			}

			return a.runSplit(cmd.Context(), pathArg(args), settings)
		},
	}

	walkFlags(cmd, scan.DefaultExcludes)

	return cmd
}

func (a *app) largeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "large [path]",
		Short: "List files at or above a size threshold, largest first",
		Long: heredoc.Doc(`
			Stats every file below path and prints those whose size is at least
			--min-size, sorted by size in descending order.

			A file that cannot be stat'ed (for example a dangling symlink) aborts
			the scan unless --keep-going is given.
		`),
		Example: heredoc.Doc(`
			dircat large
			dircat large / --min-size 1GiB --top 20 --format table --keep-going
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, a.configFile)
			if err != nil {
				return err
			}

			return a.runLarge(cmd.Context(), pathArg(args), settings)
		},
	}

	flags := cmd.Flags()
	flags.String("min-size", humanize.IBytes(uint64(largefiles.DefaultThreshold)), "Minimum file size (e.g., 500MB, 1GiB, 0 for all)") //nolint:gosec // DefaultThreshold is positive
	flags.IntP("top", "t", 0, "Number of files to display (0=all)")
	flags.StringP("format", "f", "plain", "Output format: plain, table or json")
	flags.Bool("keep-going", false, "Skip files that cannot be stat'ed instead of aborting")
	walkFlags(cmd, nil)

	return cmd
}

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Print the zsh integration script",
		Long: heredoc.Doc(`
			Prints a zsh function "dcl" that runs "dircat large" and lets you pick one
			of the listed files with fzf. Load it with:

			  eval "$(dircat init)"
		`),
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rendered, err := integration.Render()
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, rendered)

			return nil
		},
	}
}

// walkFlags registers the traversal flags shared by every subcommand.
func walkFlags(cmd *cobra.Command, excludes []string) {
	flags := cmd.Flags()
	flags.StringSliceP("exclude", "e", excludes, "Directory names to skip at any depth")
	flags.StringSliceP("pattern", "p", nil, "Regex patterns for paths to exclude")
	flags.IntP("depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.Bool("gitignore", false, "Respect the .gitignore at the root of the walk")
	flags.SortFlags = false
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}

	return args[0]
}
