package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorMagenta     = lipgloss.Color("#C678DD")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorPurple).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)
)

// Task row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	IncompleteStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	PriorityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	DepthIndent = "  "
)

// Section styles
var (
	PendingHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorYellow)

	CompletedHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGreen)

	SectionRuleStyle = lipgloss.NewStyle().
				Foreground(ColorGrayDim)
)

// Task detail styles
var (
	DueStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	ScheduledStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	TimeStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	CancelledStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Strikethrough(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(14)

	ModalValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Status icons
const (
	IconOpen      = "○"
	IconDone      = "✓"
	IconCancelled = "✗"
	IconPriority  = "!"
)
