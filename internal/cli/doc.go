// Package cli implements the vtconsole command-line interface.
//
// The package is organized around Cobra commands. Each command's RunE loads
// the config, builds an api.Client, and hands off to a plain function that
// takes its output writer and options, so the work can be tested without
// going through Cobra.
//
// # Command Structure
//
//	vtconsole dashboard          - Live full-screen dashboard
//	vtconsole stats              - One-shot aggregate report
//	vtconsole history <field>    - One float field as a sparkline
//	vtconsole describe <start>   - Label and duration of a range
//	vtconsole upload <file.csv>  - Send a CSV configuration
//	vtconsole init               - Create .vtconsole.yaml
//	vtconsole config [set|show]  - Edit or print the config
//	vtconsole units              - List display units
//
// # Flag Handling
//
// Global flags (--config, --no-color, --json) are defined on the root
// command. Data commands share --start and --stop through RangeFlags;
// empty values fall back to the configured range.
//
// # Machine Output
//
// With --json every command writes a JSONEnvelope, and failures are mapped
// to stable error codes by ErrorToJSON.
package cli
