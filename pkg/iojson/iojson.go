// Package iojson reads and writes JSON documents for the non-interactive
// commands.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Error is the document written to stderr when a --json command fails.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallbackError builds the error document by hand for the case where the
// error itself cannot be marshalled.
func fallbackError(msg string, cause error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(cause.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders an Error document.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		return fallbackError(msg, err)
	}
	return string(bits)
}

// WriteErrorTo writes an Error document to w.
func WriteErrorTo(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteError writes an Error document to stderr.
func WriteError(msg string, data map[string]any) error {
	return WriteErrorTo(os.Stderr, msg, data)
}

// WriteWith marshals obj as indented JSON to w. Marshalling failures are
// reported to ew as an Error document.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, fallbackError("marshal output", err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
