// Package ui holds the color themes shared by the line-oriented CLI output and
// the interactive dashboard. The active theme is process-wide and is chosen
// once at startup by InitTheme.
package ui
