package ui

import "github.com/fatih/color"

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Magenta    = color.New(color.FgMagenta).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldWhite  = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SeverityTag returns a colored severity label for issue lists.
func SeverityTag(severity string) string {
	switch severity {
	case "critical":
		return BoldRed("CRITICAL")
	case "high":
		return Red("HIGH")
	case "medium":
		return Yellow("MEDIUM")
	case "low":
		return Cyan("LOW")
	default:
		return Dim("INFO")
	}
}

// CriticalMark returns the critical-path marker for schedule rows.
func CriticalMark(critical bool) string {
	if critical {
		return BoldRed("*")
	}
	return " "
}

// ConfidenceTag returns a colored confidence label.
func ConfidenceTag(confidence string) string {
	switch confidence {
	case "high":
		return Green("high")
	default:
		return Yellow("low")
	}
}
