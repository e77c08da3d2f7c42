package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("K O L I C H K A")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Your store, in the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"kolichka", "Open the store (interactive TUI)"},
		{"kolichka login", "Sign in with email and password"},
		{"kolichka logout", "Clear your session"},
		{"kolichka update", "Check for updates"},
		{"kolichka --version", "Show version"},
		{"kolichka help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("KOLICHKA_API_URL, KOLICHKA_DATA_DIR, KOLICHKA_DEBUG")
	fmt.Printf("\n  Environment: %s\n\n", env)
}
