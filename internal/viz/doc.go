// Package viz renders run data for the terminal: lipgloss styles, energy
// plots through asciigraph and a Braille canvas for particle projections.
package viz
