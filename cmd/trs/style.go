package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type styles struct {
	result lipgloss.Style
	hint   lipgloss.Style
	rule   lipgloss.Style
	err    lipgloss.Style
	ok     lipgloss.Style
}

// newStyles colours output only when stdout is a terminal.
func newStyles() styles {
	if !isTerminal(os.Stdout) {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		result: lipgloss.NewStyle().Bold(true),
		hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		rule:   lipgloss.NewStyle().Faint(true),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
