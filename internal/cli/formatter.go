package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dircat/internal/largefiles"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// SeparatorWidth is the width of the line printed after each plain record.
	SeparatorWidth = 40
)

// PrintPlain prints each large file as a path line, a size line and a separator.
func PrintPlain(report *largefiles.Report, writer io.Writer) error {
	separator := strings.Repeat("-", SeparatorWidth)

	for _, f := range report.Files {
		if _, err := fmt.Fprintf(writer, "Ruta: %s\nTamaño: %d bytes\n%s\n", f.Path, f.Size, separator); err != nil {
			return err
		}
	}

	return nil
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *largefiles.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
func PrintTable(report *largefiles.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	total := report.TotalBytes()

	fmt.Fprintf(w, "\nFiles >= %s:\t\t\n", humanize.IBytes(uint64(report.Threshold))) //nolint:gosec // Threshold is positive

	for i, f := range report.Files {
		pct := 0.0
		if report.ScannedBytes > 0 {
			pct = 100.0 * float64(f.Size) / float64(report.ScannedBytes)
		}

		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			i+1, f.Path, humanize.IBytes(uint64(f.Size)), pct) //nolint:gosec // Sizes are positive
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Large files:\t%d (%s)\n", len(report.Files), humanize.IBytes(uint64(total))) //nolint:gosec // Sizes are positive
	fmt.Fprintf(w, "Scanned files:\t%d\n", report.Scanned)
	fmt.Fprintf(w, "Scanned size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(report.ScannedBytes)), report.ScannedBytes) //nolint:gosec // Sizes are positive

	if report.Errors > 0 {
		fmt.Fprintf(w, "Skipped (stat errors):\t%d\n", report.Errors)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}
