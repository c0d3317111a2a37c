package consolidate

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Report text. The placeholders are user-facing and kept in Spanish.
const (
	// HeaderFormat precedes every file; the verb receives the path.
	HeaderFormat = "\n----- %s -----\n"
	// PlaceholderDecode replaces the contents of a file that is not valid text.
	PlaceholderDecode = "\n[Error: Archivo contiene caracteres no compatibles]\n"
	// PlaceholderNotFound replaces the contents of a file that vanished.
	PlaceholderNotFound = "\n[Error: Archivo no encontrado]\n"
	// PlaceholderOtherFormat replaces the contents on any other failure; the
	// verb receives the error description.
	PlaceholderOtherFormat = "\n[Error inesperado: %s]\n"
)

// Summary describes a finished consolidation.
type Summary struct {
	// Output is the path of the written report.
	Output string `json:"output"`
	// Files is the number of files written, including placeholders.
	Files int `json:"files"`
	// Failed is the number of files replaced by a placeholder.
	Failed int `json:"failed"`
	// Bytes is the number of bytes written to the report.
	Bytes int64 `json:"bytes"`
}

// Writer appends file sections to a report.
type Writer struct {
	out     io.Writer
	log     zerolog.Logger
	summary Summary
}

// NewWriter returns a Writer appending to out.
func NewWriter(out io.Writer, log zerolog.Logger) *Writer {
	return &Writer{out: out, log: log}
}

// Write appends the header for res.Path followed by the contents or the
// matching placeholder. Only failures writing to the report are returned.
func (w *Writer) Write(res Result) error {
	if err := w.printf(HeaderFormat, res.Path); err != nil {
		return err
	}

	w.summary.Files++

	switch res.Kind {
	case OK:
		n, err := w.out.Write(res.Content)
		w.summary.Bytes += int64(n)

		return err
	case DecodeFailure:
		w.fail(res)

		return w.printf("%s", PlaceholderDecode)
	case NotFound:
		w.fail(res)

		return w.printf("%s", PlaceholderNotFound)
	default:
		w.fail(res)

		description := "unknown error"
		if res.Err != nil {
			description = res.Err.Error()
		}

		return w.printf(PlaceholderOtherFormat, description)
	}
}

// Summary returns the counters accumulated so far.
func (w *Writer) Summary() Summary {
	return w.summary
}

func (w *Writer) fail(res Result) {
	w.summary.Failed++
	w.log.Debug().Err(res.Err).Str("path", res.Path).Stringer("kind", res.Kind).Msg("writing placeholder")
}

func (w *Writer) printf(format string, args ...any) error {
	n, err := fmt.Fprintf(w.out, format, args...)
	w.summary.Bytes += int64(n)

	return err
}
