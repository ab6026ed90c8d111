// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Interactive viewer with cached diagrams, clear-swath summary, msgpack export
// 0.2.0 - PNG/SVG output, terminal canvas, viper config file
// 0.1.0 - Initial release: nadir and transmit ambiguity diagram, headless recorder output
