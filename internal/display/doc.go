// Package display provides terminal output for license searches: result
// blocks, per-file progress, warnings and status lines.
//
// # Results
//
// ResultRenderer prints one block per match record, the phrase emphasised
// wherever it occurs (case-insensitive), then a status line:
//
//	renderer := display.NewResultRenderer(os.Stdout, display.NewPalette(true))
//	renderer.RenderOutcome(outcome)
//
//	--- MIT License [Compliance: N/A (Local Search Only)] ---
//	MIT License
//
//	[...]
//
//	Permission is hereby granted, ...
//
//	Search complete. Found matches in 1 file(s).
//
// # Progress
//
// ProgressIndicator satisfies the searcher's progress hook:
//
//	Scanning 3 license file(s):
//	  [1/3] apache.txt
//	  [2/3] bsd.txt
//	  [3/3] mit.txt
//	✓ Scanned 3 file(s), 2 matched
//
// # Colors
//
// Colors come from fatih/color. ColorEnabled resolves the auto, always and
// never modes, using go-isatty to detect terminals. A Palette built with
// color disabled renders plain text, which is what tests and pipes see.
package display
