package display

import (
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled decides whether output to w should be colored.
// In auto mode only terminals get color, and fatih/color's own detection
// (NO_COLOR, dumb terminals) can still switch it off.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return !color.NoColor
}

// ApplyColorMode sets fatih/color's process-wide switch so every colored
// writer, loggers included, follows the same mode.
func ApplyColorMode(mode string) {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
}

// Palette holds the colors used for terminal output. A disabled palette
// renders plain text.
type Palette struct {
	enabled   bool
	header    *color.Color
	highlight *color.Color
	success   *color.Color
	warning   *color.Color
	failure   *color.Color
	progress  *color.Color
	faint     *color.Color
}

// NewPalette creates a palette with color on or off.
func NewPalette(enabled bool) *Palette {
	p := &Palette{
		enabled:   enabled,
		header:    color.New(color.FgCyan, color.Bold),
		highlight: color.New(color.Bold, color.FgYellow),
		success:   color.New(color.FgGreen),
		warning:   color.New(color.FgYellow),
		failure:   color.New(color.FgRed),
		progress:  color.New(color.FgCyan),
		faint:     color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.header, p.highlight, p.success, p.warning, p.failure, p.progress, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Enabled reports whether the palette emits color codes.
func (p *Palette) Enabled() bool {
	return p.enabled
}
