// Package export writes scenes, sampled curves and runs to SVG, JSON and CSV.
package export
