package cmd

import "github.com/fatih/color"

// Terminal styles for the interactive session: green for available, red for
// registered, yellow for warnings and in-progress notices, cyan for
// headings. fatih/color degrades to plain text on non-TTY output.
var (
	colorGood    = color.New(color.FgGreen, color.Bold).SprintFunc()
	colorBad     = color.New(color.FgRed, color.Bold).SprintFunc()
	colorWarn    = color.New(color.FgYellow, color.Bold).SprintFunc()
	colorHeading = color.New(color.FgCyan, color.Bold).SprintFunc()
)
