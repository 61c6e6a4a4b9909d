package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, lasso
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorOrange = lipgloss.Color("214") // Orange - window selection
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(16)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// Editor styles.
var (
	styleNode         = lipgloss.NewStyle().Foreground(colorWhite)
	styleNodeSelected = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleEdge         = lipgloss.NewStyle().Foreground(colorDim)
	styleLasso        = lipgloss.NewStyle().Foreground(colorGreen)
	styleWindow       = lipgloss.NewStyle().Foreground(colorOrange)
	styleToolbar      = lipgloss.NewStyle().Foreground(colorGray)
	styleToolbarValue = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleStatusError  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints graph statistics on a single line.
func printStats(nodeCount, connCount int) {
	fmt.Println("  " + StyleDim.Render(formatStats(nodeCount, connCount)))
}

// printRenderStats prints graph statistics followed by how many renders
// came from the artifact cache.
func printRenderStats(nodeCount, connCount, rendered, cached int) {
	line := "  " + StyleDim.Render(formatStats(nodeCount, connCount))
	if rendered > 0 {
		status, style := iconFresh, styleComputed
		switch {
		case cached == rendered:
			status, style = iconCached, styleCached
		case cached > 0:
			status = fmt.Sprintf("%d/%d %s", cached, rendered, iconCached)
		}
		line += StyleDim.Render(" · ") + style.Render(status)
	}
	fmt.Println(line)
}

func formatStats(nodeCount, connCount int) string {
	parts := []string{
		plural(nodeCount, "node", "nodes"),
		plural(connCount, "connection", "connections"),
	}
	return strings.Join(parts, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
