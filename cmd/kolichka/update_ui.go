package main

import "fmt"

// ANSI color constants for update output (no lipgloss — runs outside TUI).
const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiItalic    = "\033[3m"
	ansiTangerine = "\033[38;2;251;146;60m"  // #fb923c
	ansiAmber     = "\033[38;2;251;191;36m"  // #fbbf24
	ansiSlate     = "\033[38;2;136;144;160m" // #8890a0
)

// printUpdateLogo prints the spaced KOLICHKA wordmark in alternating warm tones.
func printUpdateLogo() {
	letters := "KOLICHKA"
	colors := [2]string{ansiTangerine, ansiAmber}
	fmt.Print("\n  ")
	for i, ch := range letters {
		fmt.Printf("%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// printUpdateSuccess prints the update-complete message.
func printUpdateSuccess(oldVersion, newVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s  %s%s→%s  %s%s%s%s\n",
		ansiSlate, oldVersion, ansiReset,
		ansiTangerine, ansiBold, ansiReset,
		ansiTangerine, ansiBold, newVersion, ansiReset,
	)
	fmt.Printf("\n  %s%sFresh off the shelf.%s\n\n", ansiAmber, ansiItalic, ansiReset)
}

// printAlreadyCurrent prints the already-up-to-date message.
func printAlreadyCurrent(currentVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s%s  %s%s✦%s  %s%scurrent%s\n",
		ansiTangerine, ansiBold, currentVersion, ansiReset,
		ansiAmber, ansiBold, ansiReset,
		ansiSlate, ansiItalic, ansiReset,
	)
	fmt.Printf("\n  %s%sNothing new on the shelf.%s\n\n", ansiAmber, ansiItalic, ansiReset)
}
