package tui

// UI Layout Constants
// These constants define spacing and dimensions for the TUI layout

const (
	// Borders and padding
	BorderWidth       = 2 // Width or height consumed by a rounded border
	PaddingHorizontal = 2 // Horizontal padding inside the tab content box

	// Fixed rows around the tab content
	TitleLines       = 1
	RequestBoxLines  = 3 // Method and URL inside a border
	TabBarLines      = 1
	FooterLines      = 2 // Key hints + status bar
	ChromeHeight     = TitleLines + RequestBoxLines + TabBarLines + FooterLines
	ResponseTabLines = 2 // Sub-tab bar + status summary

	// Project pane share of the terminal width, in percent
	ProjectPanePercent = 20

	// URL display keeps room for the method label
	MethodLabelWidth = 12
)
