package consolidate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/idelchi/dircat/internal/scan"
)

// DefaultOutput is the report written when no output path is configured.
const DefaultOutput = "consolidated_code.txt"

// DefaultExtensions are the suffixes consolidated when none are configured.
//
//nolint:gochecknoglobals // Config constant
var DefaultExtensions = []string{".js", ".html", ".py"}

// Target is one (root, suffixes, output) configuration.
type Target struct {
	// Name identifies the target in messages.
	Name string `mapstructure:"name"`
	// Root is the directory to consolidate.
	Root string `mapstructure:"root"`
	// Extensions are the suffixes a file must end with.
	Extensions []string `mapstructure:"extensions"`
	// Output is the report path.
	Output string `mapstructure:"output"`
}

// DefaultTargets returns the frontend/backend pair used by the split command.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:       "frontend",
			Root:       "frontend",
			Extensions: []string{".js", ".jsx", ".css", ".html"},
			Output:     "frontend_code.txt",
		},
		{
			Name:       "backend",
			Root:       "backend",
			Extensions: []string{".js", ".json"},
			Output:     "backend_code.txt",
		},
	}
}

// Options holds the settings shared by every target.
type Options struct {
	// Exclude holds directory names that are never descended into.
	Exclude []string
	// Patterns holds regular expressions for paths to leave out.
	Patterns []string
	// MaxDepth is the maximum traversal depth (0=unlimited).
	MaxDepth int
	// GitIgnore applies the .gitignore found at the target root.
	GitIgnore bool
	// Logger receives progress and diagnostics.
	Logger zerolog.Logger
}

// Run consolidates a single target.
// The root is validated before the report is created, so a missing root
// leaves no report behind; the returned error then matches scan.ErrRootMissing.
func Run(ctx context.Context, target Target, opt Options) (summary Summary, err error) {
	log := opt.Logger.With().Str("target", target.Name).Logger()

	if target.Output == "" {
		target.Output = DefaultOutput
	}

	scanner, err := scan.New(scan.Options{
		Root:       target.Root,
		Exclude:    opt.Exclude,
		Patterns:   opt.Patterns,
		Extensions: target.Extensions,
		Skip:       []string{target.Output},
		MaxDepth:   opt.MaxDepth,
		GitIgnore:  opt.GitIgnore,
		Logger:     log,
	})
	if err != nil {
		return Summary{}, err
	}

	files, err := scanner.Files(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("scanning %q: %w", scanner.Root(), err)
	}

	log.Debug().Int("files", len(files)).Str("output", target.Output).Msg("writing report")

	out, err := os.Create(target.Output)
	if err != nil {
		return Summary{}, fmt.Errorf("creating report: %w", err)
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report: %w", cerr)
		}
	}()

	buffered := bufio.NewWriter(out)
	writer := NewWriter(buffered, log)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return writer.Summary(), err
		}

		if err := writer.Write(Read(path)); err != nil {
			return writer.Summary(), fmt.Errorf("writing report %q: %w", target.Output, err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return writer.Summary(), fmt.Errorf("writing report %q: %w", target.Output, err)
	}

	summary = writer.Summary()
	summary.Output = target.Output

	log.Info().
		Int("files", summary.Files).
		Int("failed", summary.Failed).
		Int64("bytes", summary.Bytes).
		Msg("report written")

	return summary, nil
}

// Outcome is the result of one target in RunAll.
type Outcome struct {
	Target  Target
	Summary Summary
	Err     error
}

// Skipped reports whether the target was not run because its root is missing.
func (o Outcome) Skipped() bool {
	return errors.Is(o.Err, scan.ErrRootMissing)
}

// RunAll runs every target independently; a failing target does not stop the others.
func RunAll(ctx context.Context, targets []Target, opt Options) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))

	for _, target := range targets {
		summary, err := Run(ctx, target, opt)
		outcome := Outcome{Target: target, Summary: summary, Err: err}

		switch {
		case outcome.Skipped():
			opt.Logger.Debug().Err(err).Str("target", target.Name).Msg("target root missing")
		case err != nil:
			opt.Logger.Warn().Err(err).Str("target", target.Name).Msg("target not consolidated")
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}
