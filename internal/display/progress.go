package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator prints per-file scan progress: [N/Total] filename
type ProgressIndicator struct {
	writer     io.Writer
	palette    *Palette
	totalFiles int
	current    int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, palette *Palette) *ProgressIndicator {
	if palette == nil {
		palette = NewPalette(false)
	}
	return &ProgressIndicator{
		writer:  w,
		palette: palette,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start(total int) {
	p.totalFiles = total
	p.current = 0
	fmt.Fprintf(p.writer, "Scanning %d license file(s):\n", total)
}

// Step displays progress for current item: [N/Total] filename (cyan)
func (p *ProgressIndicator) Step(path string) {
	p.current++
	fmt.Fprintln(p.writer, p.palette.progress.Sprintf("  [%d/%d] %s", p.current, p.totalFiles, filepath.Base(path)))
}

// Complete displays the scan summary with a green checkmark
func (p *ProgressIndicator) Complete(matched int) {
	fmt.Fprintf(p.writer, "%s Scanned %d file(s), %d matched\n", p.palette.success.Sprint("✓"), p.current, matched)
}
