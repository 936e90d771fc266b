// Package styles holds the lipgloss styles of the planner TUI.
//
// The package-level variables are rebuilt by SetActiveTheme. It is not
// thread-safe and is meant to be called once before the program starts.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	SurfaceColor   lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	// Header is the app title line.
	Header lipgloss.Style
	// Title heads a section such as "Daily itinerary".
	Title lipgloss.Style
	// Subtitle is the muted line under the header.
	Subtitle lipgloss.Style

	// Form labels
	Label        lipgloss.Style
	LabelFocused lipgloss.Style

	// Chips are preference tags and pace options.
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	ChipCursor   lipgloss.Style

	// Card frames a destination or a day.
	Card lipgloss.Style

	// History list rows
	ListItem       lipgloss.Style
	ListItemActive lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	// Status bar messages
	StatusBar   lipgloss.Style
	ErrorBox    lipgloss.Style
	ConfirmBox  lipgloss.Style
	SpinnerText lipgloss.Style
)

var activeTheme = ThemeDefault

func init() {
	SetActiveTheme(ThemeDefault)
}

// ActiveTheme returns the theme the styles were last built for.
func ActiveTheme() ThemeName {
	return activeTheme
}

// SetActiveTheme rebuilds every style from the named palette.
// Unknown names fall back to the default theme.
func SetActiveTheme(name ThemeName) {
	if !IsValidTheme(string(name)) {
		name = ThemeDefault
	}
	activeTheme = name
	apply(GetPalette(name))
}

func apply(p *ColorPalette) {
	PrimaryColor = p.Primary
	SecondaryColor = p.Secondary
	WarningColor = p.Warning
	ErrorColor = p.Error
	MutedColor = p.Muted
	SurfaceColor = p.Surface
	TextColor = p.Text
	BorderColor = p.Border

	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted = lipgloss.NewStyle().Foreground(MutedColor)
	Text = lipgloss.NewStyle().Foreground(TextColor)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginTop(1)

	Subtitle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(MutedColor).
		Width(14)

	LabelFocused = Label.
		Bold(true).
		Foreground(PrimaryColor)

	Chip = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	ChipSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(SurfaceColor).
		Background(SecondaryColor).
		Padding(0, 1)

	ChipCursor = lipgloss.NewStyle().
		Underline(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	ListItem = lipgloss.NewStyle().
		Padding(0, 1)

	ListItemActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 1)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	StatusBar = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Padding(0, 1)

	ErrorBox = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	ConfirmBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WarningColor).
		Padding(1, 2)

	SpinnerText = lipgloss.NewStyle().
		Foreground(SecondaryColor)
}
