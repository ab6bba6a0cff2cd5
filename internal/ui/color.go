package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

const (
	symCheck = "✔"
	symCross = "✖"
)

// SetColorForcing overrides terminal detection for both fatih/color and
// lipgloss. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		color.NoColor = false
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// C paints s with c unless colors are off.
func C(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(Current().Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(Current().Error, symCross+" "+msg)) }
