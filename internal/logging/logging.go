// Package logging routes the standard logger away from the terminal.
//
// The TUI owns stdout and the CLI prints results there, so diagnostics
// go to a file when one is configured and nowhere otherwise.
package logging

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

const prefix = "items"

// Setup points the standard logger at path, or discards output when path
// is empty. The returned func closes the log file.
func Setup(path string) (func() error, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	log.Printf("logging to %s", path)
	return f.Close, nil
}
