package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const Banner = `
 ███████╗            ██████╗  ██╗      ██╗
 ██╔════╝           ██╔════╝  ██║      ██║
 █████╗   █████╗    ██║       ██║      ██║
 ██╔══╝   ╚════╝    ██║       ██║      ██║
 ███████╗           ╚██████╗  ███████╗ ██║
 ╚══════╝            ╚═════╝  ╚══════╝ ╚═╝`

var (
	gradientFrom, _ = colorful.Hex("#0066ff")
	gradientTo, _   = colorful.Hex("#00ff66")
)

// Gradient colours text column by column from blue to green.
func Gradient(text string) string {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for col, r := range []rune(line) {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			t := 0.0
			if width > 1 {
				t = float64(col) / float64(width-1)
			}
			c := gradientFrom.BlendLuv(gradientTo, t).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
		}
	}
	return b.String()
}

func RenderHeader() string {
	return lipgloss.NewStyle().MarginBottom(1).Render(Gradient(Banner))
}
