// Package ui provides terminal output components for vtconsole's one-shot
// commands.
//
// # Components Overview
//
//	Spinner       - Animated status indicator while a request is in flight
//	Header        - Title line with the time range being shown
//	Tables        - Bubbles tables, indicator lists, and titled sections
//	Progress bars - Percentage bars colored by how healthy the share is
//	Sparkline     - Block-character trend lines for float histories
//
// # Color Scheme
//
// Colors share the dashboard's neon palette. ConfigureColors applies the
// output.color setting and the --no-color flag; DisableColors switches to
// plain ASCII through termenv.
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Fetching stats")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
package ui
