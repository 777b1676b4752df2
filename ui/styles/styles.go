package styles

import "github.com/charmbracelet/lipgloss"

var (
	Blue   = lipgloss.Color("39")
	Green  = lipgloss.Color("42")
	Yellow = lipgloss.Color("220")
	Gray   = lipgloss.Color("245")
	Bright = lipgloss.Color("255")
	Cyan   = lipgloss.Color("51")
)

func InputStyle(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Blue).
		Padding(0, 1)
	if width > 4 {
		s = s.Width(width - 4)
	}
	return s
}

func CursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true)
}

func PromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Blue)
}

func PlaceholderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Gray)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Gray).MarginTop(1)
}

func TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Bright)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Cyan).Bold(true)
}

func AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Blue)
}

// OptionStyle colours a list entry depending on selection.
func OptionStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Foreground(Blue).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(Bright)
}

func PaletteRowStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(Cyan)
	}
	return lipgloss.NewStyle().Foreground(Bright)
}

func UserHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Green).Bold(true)
}

func AssistantHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Blue).Bold(true)
}

func SystemHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
}

func TimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Gray).Faint(true)
}

func BodyStyle() lipgloss.Style {
	return lipgloss.NewStyle().PaddingLeft(2)
}

func SystemBodyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("228")).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Yellow).
		Padding(0, 1).
		MarginLeft(2)
}

func SeparatorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Gray)
}

func LoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Blue).MarginTop(1)
}
