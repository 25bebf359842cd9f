package kiosk

import "fmt"

// FormatDuration renders a minute count for the terminal screen. An hour or
// more shows hours and minutes ("2h 5m"); under an hour shows minutes only
// ("45 minutes").
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
