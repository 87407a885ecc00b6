package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// configureColor sets the global color mode from a --color flag value:
// auto, always or never. auto enables color when stdout is a terminal and
// NO_COLOR is unset.
func configureColor(mode string) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto", "":
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("unknown color mode: %s", mode)
	}
	return nil
}

// styles holds the color formatters for human output.
type styles struct {
	heading  *color.Color
	entity   *color.Color
	match    *color.Color
	metadata *color.Color
}

// newStyles creates formatters. They print plain text when enabled is
// false.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold, color.FgHiWhite),
		entity:   color.New(color.Bold, color.FgHiBlue),
		match:    color.New(color.FgYellow),
		metadata: color.New(color.FgHiBlue),
	}
	if !enabled {
		for _, c := range []*color.Color{s.heading, s.entity, s.match, s.metadata} {
			c.DisableColor()
		}
	}
	return s
}
