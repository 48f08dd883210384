package cli

import (
	"fmt"
	"strings"
	"unicode"
)

// FormatDuration formats milliseconds to human readable string
func FormatDuration(ms int) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	secs := float64(ms) / 1000
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs = secs - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// FormatBytes formats bytes to human readable string
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatBytesInt formats bytes (int) to human readable string
func FormatBytesInt(bytes int) string {
	return FormatBytes(int64(bytes))
}

// FormatActive renders a store active state (0 or 1) for display
func FormatActive(active int) string {
	if active == 1 {
		return "open"
	}
	return "closed"
}

// NormalizeMAC normalizes a label or gateway MAC address to the bare
// uppercase hex form the platform expects. Separator characters and
// surrounding whitespace are removed.
func NormalizeMAC(mac string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(mac) {
		switch r {
		case ':', '-', '.', ' ':
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
