package consolidate

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Kind classifies the outcome of reading a file.
type Kind int

const (
	// OK means the file was read and is valid UTF-8.
	OK Kind = iota
	// DecodeFailure means the file is not valid UTF-8 text.
	DecodeFailure
	// NotFound means the file disappeared between listing and reading.
	NotFound
	// Other covers every remaining read failure.
	Other
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case DecodeFailure:
		return "decode failure"
	case NotFound:
		return "not found"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Result is the outcome of reading one file.
// Content is only set when Kind is OK; Err is only set otherwise.
type Result struct {
	Path    string
	Kind    Kind
	Content []byte
	Err     error
}

// Read loads path and validates it as UTF-8 text.
// It never returns an error; failures are classified into the Result.
func Read(path string) Result {
	file, err := os.Open(path)
	if err != nil {
		return failed(path, err)
	}
	defer file.Close()

	content, err := io.ReadAll(transform.NewReader(file, encoding.UTF8Validator))
	if err != nil {
		return failed(path, err)
	}

	return Result{Path: path, Kind: OK, Content: content}
}

func failed(path string, err error) Result {
	kind := Other

	switch {
	case errors.Is(err, encoding.ErrInvalidUTF8):
		kind = DecodeFailure
	case errors.Is(err, fs.ErrNotExist):
		kind = NotFound
	}

	return Result{Path: path, Kind: kind, Err: err}
}
