// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides styled terminal output for the benchmark runner CLI.
//
// Styling is automatically disabled when stdout is not a terminal, so piped
// and CI output stays clean. Diagnostics belong in pkg/logging; this package
// is only for the human-facing progress and summary lines on stdout.
package ux

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette. Verdict-led: green for equal, red for not equal,
// amber for anything needing a second look.
var (
	ColorEqual    = lipgloss.Color("#34D399") // emerald - equal verdicts, success
	ColorNotEqual = lipgloss.Color("#F87171") // soft red - not-equal verdicts
	ColorError    = lipgloss.Color("#DC2626") // red - failures
	ColorWarning  = lipgloss.Color("#FBBF24") // amber - warnings, skipped cases
	ColorAccent   = lipgloss.Color("#38BDF8") // sky - titles, highlights
	ColorMuted    = lipgloss.Color("#64748B") // slate - secondary text
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorEqual),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
}

// Icon provides status glyphs for per-case output.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconFailure Icon = "✗"
	IconWarning Icon = "⚠"
	IconArrow   Icon = "→"
)

// Render returns the icon with its semantic styling, or the bare glyph in
// plain mode.
func (i Icon) Render() string {
	if plainMode {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconFailure:
		return Styles.Error.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	default:
		return string(i)
	}
}

// plainMode disables all styling. Detected once at startup from stdout;
// overridable for tests and for --quiet runs.
var plainMode = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

// SetPlain forces styling on or off regardless of TTY detection.
func SetPlain(plain bool) {
	plainMode = plain
}

// Plain reports whether styling is disabled.
func Plain() bool {
	return plainMode
}

// Title prints a styled title line.
func Title(text string) {
	if plainMode {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	if plainMode {
		fmt.Printf("OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message.
func Warning(text string) {
	if plainMode {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message.
func Error(text string) {
	if plainMode {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconFailure.Render(), Styles.Error.Render(text))
}

// Info prints an informational message.
func Info(text string) {
	if plainMode {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text, or nothing in plain mode.
func Muted(text string) {
	if plainMode {
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// CaseStatus prints one benchmark case outcome line.
//
// Example (styled): ✓ libs/gsl-sf [Eq] → Eq
// Example (plain):  ok	libs/gsl-sf	Eq	Eq
func CaseStatus(name, expected, actual string, correct bool) {
	if plainMode {
		status := "ok"
		if !correct {
			status = "wrong"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", status, name, expected, actual)
		return
	}

	icon := IconSuccess
	if !correct {
		icon = IconFailure
	}
	fmt.Printf("%s %s %s %s %s\n",
		icon.Render(),
		name,
		Styles.Muted.Render("["+expected+"]"),
		Styles.Muted.Render(string(IconArrow)),
		actual,
	)
}

// Summary prints the end-of-run counts and elapsed time.
func Summary(correct, incorrect, failed, total int, elapsed time.Duration) {
	if plainMode {
		fmt.Printf("SUMMARY: correct=%d incorrect=%d failed=%d total=%d elapsed=%s\n",
			correct, incorrect, failed, total, elapsed.Round(time.Millisecond))
		return
	}

	line := fmt.Sprintf("\n%s %s  %s %s",
		Styles.Success.Render(fmt.Sprintf("%d", correct)), Styles.Muted.Render("correct"),
		Styles.Error.Render(fmt.Sprintf("%d", incorrect)), Styles.Muted.Render("incorrect"),
	)
	if failed > 0 {
		line += fmt.Sprintf("  %s %s",
			Styles.Warning.Render(fmt.Sprintf("%d", failed)), Styles.Muted.Render("failed"))
	}
	line += fmt.Sprintf("  %s %s  %s",
		Styles.Bold.Render(fmt.Sprintf("%d", total)), Styles.Muted.Render("total"),
		Styles.Muted.Render(elapsed.Round(time.Millisecond).String()),
	)
	fmt.Println(line)
}
