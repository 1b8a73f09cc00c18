// Package logutils builds the zerolog logger shared by every command.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Options controls where and how log lines are written.
type Options struct {
	// Level is one of trace, debug, info, warn, error, fatal, panic.
	Level string
	// File receives JSON log lines. When empty, Writer (or stderr) is used.
	File string
	// Writer is used when File is empty. Defaults to os.Stderr.
	Writer io.Writer
	// Pretty switches non-file output to zerolog's console format.
	Pretty bool
}

// New returns a logger configured from opts and a closer that releases the
// log file, if one was opened. The closer is always safe to call.
func New(opts Options) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	var writer io.Writer = os.Stderr
	if opts.Writer != nil {
		writer = opts.Writer
	}

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	case opts.Pretty:
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}
