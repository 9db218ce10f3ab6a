// Package cliui holds the terminal styling shared by switchboard commands.
package cliui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	green  = lipgloss.Color("82")
	red    = lipgloss.Color("196")
	orange = lipgloss.Color("214")
	blue   = lipgloss.Color("39")
	grey   = lipgloss.Color("245")
	dim    = lipgloss.Color("242")
	white  = lipgloss.Color("255")
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(green).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(red).Render("✗")

	StepStyle   = lipgloss.NewStyle().Foreground(grey)
	KeyStyle    = lipgloss.NewStyle().Foreground(grey)
	DimStyle    = lipgloss.NewStyle().Foreground(dim)
	ValueStyle  = lipgloss.NewStyle().Foreground(white)
	NameStyle   = lipgloss.NewStyle().Bold(true).Foreground(blue)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(orange)
	ErrorStyle  = lipgloss.NewStyle().Foreground(red)
)

const spinnerInterval = 80 * time.Millisecond

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(green)
	spinnerFrames = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")
)

// spin redraws msg behind a braille spinner until stop closes.
func spin(w io.Writer, msg string, stop <-chan struct{}) {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := string(spinnerFrames[i%len(spinnerFrames)])
		fmt.Fprintf(w, "\r  %s %s", spinnerStyle.Render(frame), msg)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Step runs fn behind a spinner and leaves a ✓ or ✗ line with the
// elapsed time. fn's error is returned unchanged.
func Step(w io.Writer, msg string, fn func() error) error {
	stop := make(chan struct{})
	spun := make(chan struct{})
	go func() {
		defer close(spun)
		spin(w, msg, stop)
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	close(stop)
	<-spun

	fmt.Fprintf(w, "\r  %s %s %s\n", mark(err), msg, StepStyle.Render("("+FormatDuration(elapsed)+")"))
	return err
}

func mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration renders sub-second durations in milliseconds and longer
// ones in tenths of a second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// ProviderLine is one row of the provider status table.
func ProviderLine(name string, configured bool) string {
	if configured {
		return fmt.Sprintf("  %s  %s", SuccessMark, NameStyle.Render(name))
	}
	return fmt.Sprintf("  %s  %s  %s", FailMark, NameStyle.Render(name), DimStyle.Render("not configured"))
}

// RenderMarkdown renders a chat reply for the terminal. On failure the
// raw content is returned with the error.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return content, err
	}
	out, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return out, nil
}
