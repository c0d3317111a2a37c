package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/idelchi/dircat/internal/consolidate"
	"github.com/idelchi/dircat/internal/largefiles"
	"github.com/idelchi/dircat/internal/logger"
	"github.com/idelchi/dircat/internal/scan"
)

// User-facing messages.
const (
	msgConsolidated = "\nEl código consolidado ha sido guardado en %s\n"
	msgRootMissing  = "Error: el directorio '%s' no existe; se omite '%s'.\n"
)

//nolint:gochecknoglobals // Config constant
var allowedFormats = []string{"plain", "table", "json"}

func (a *app) newLogger(settings Settings) zerolog.Logger {
	return logger.New(a.stderr, settings.Debug)
}

func (a *app) consolidateOptions(settings Settings, log zerolog.Logger) consolidate.Options {
	return consolidate.Options{
		Exclude:   settings.Exclude,
		Patterns:  settings.Patterns,
		MaxDepth:  settings.Depth,
		GitIgnore: settings.GitIgnore,
		Logger:    log,
	}
}

func (a *app) runConsolidate(ctx context.Context, path string, settings Settings) error {
	if settings.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	log := a.newLogger(settings)

	summary, err := consolidate.Run(ctx, consolidate.Target{
		Name:       "consolidate",
		Root:       path,
		Extensions: settings.Extensions,
		Output:     settings.Output,
	}, a.consolidateOptions(settings, log))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, msgConsolidated, summary.Output)

	return nil
}

// runSplit runs every target; missing roots are reported and do not fail the
// command. Any other target failure is returned after all targets have run.
func (a *app) runSplit(ctx context.Context, base string, settings Settings) error {
	if settings.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	log := a.newLogger(settings)

	targets := make([]consolidate.Target, 0, len(settings.Targets))

	for _, target := range settings.Targets {
		if target.Root == "" {
			return fmt.Errorf("target %q has no root", target.Name)
		}

		if !filepath.IsAbs(target.Root) {
			target.Root = filepath.Join(base, target.Root)
		}

		if target.Output == "" {
			target.Output = target.Name + "_code.txt"
		}

		targets = append(targets, target)
	}

	var errs []error

	for _, outcome := range consolidate.RunAll(ctx, targets, a.consolidateOptions(settings, log)) {
		switch {
		case outcome.Skipped():
			fmt.Fprintf(a.stderr, msgRootMissing, outcome.Target.Root, outcome.Target.Name)
		case outcome.Err != nil:
			errs = append(errs, fmt.Errorf("target %q: %w", outcome.Target.Name, outcome.Err))
		default:
			fmt.Fprintf(a.stdout, msgConsolidated, outcome.Summary.Output)
		}
	}

	return errors.Join(errs...)
}

func (a *app) runLarge(ctx context.Context, path string, settings Settings) error {
	format := strings.ToLower(settings.Format)
	if !slices.Contains(allowedFormats, format) {
		return fmt.Errorf("invalid output format %q: must be one of %v", settings.Format, allowedFormats)
	}

	if settings.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	if settings.Top < 0 {
		return errors.New("top cannot be negative")
	}

	threshold, err := humanize.ParseBytes(settings.MinSize)
	if err != nil {
		return fmt.Errorf("invalid min-size: %w", err)
	}

	log := a.newLogger(settings)

	scanner, err := scan.New(scan.Options{
		Root:      path,
		Exclude:   settings.Exclude,
		Patterns:  settings.Patterns,
		MaxDepth:  settings.Depth,
		GitIgnore: settings.GitIgnore,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	enableProgress := format != "json" && !settings.Debug && a.stderrIsTerminal()

	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(a.stderr, "\033[?25l")
		defer fmt.Fprint(a.stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(a.stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := largefiles.Find(ctx, scanner, largefiles.Options{
		Threshold: int64(threshold), //nolint:gosec // Size conversion from humanize is safe
		Limit:     settings.Top,
		KeepGoing: settings.KeepGoing,
		Logger:    log,
	}, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(a.stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch format {
	case "json":
		return PrintJSON(report, a.stdout)
	case "table":
		return PrintTable(report, a.stdout)
	default:
		return PrintPlain(report, a.stdout)
	}
}

func (a *app) stderrIsTerminal() bool {
	f, ok := a.stderr.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
