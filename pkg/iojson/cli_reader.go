package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when neither a file nor piped stdin was provided.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe JSON")

// FileReader decodes a T from the file named by its --file flag, falling
// back to piped stdin.
type FileReader[T any] struct {
	path  string
	stdin *os.File
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON document (use - to read stdin)",
		Destination: &fr.path,
	}
}

// Provided reports whether the --file flag was set.
func (fr *FileReader[T]) Provided() bool { return fr.path != "" }

// Read decodes the input document.
func (fr *FileReader[T]) Read() (T, error) {
	var (
		input  T
		reader io.Reader
	)

	switch fr.path {
	case "", "-":
		stdin := fr.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		if term.IsTerminal(int(stdin.Fd())) {
			return input, ErrNoInput
		}
		reader = stdin
	default:
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
