package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/ui/styles"
)

func RenderMessages(messages []models.Message, width int, md *Markdown) string {
	if len(messages) == 0 {
		return ""
	}

	sepWidth := 50
	if width > 0 && width-4 < sepWidth {
		sepWidth = width - 4
	}
	separator := styles.SeparatorStyle().Render(strings.Repeat("─", max(sepWidth, 1)))

	var b strings.Builder
	for i, msg := range messages {
		stamp := styles.TimestampStyle().Render(msg.Timestamp.Format("15:04"))
		switch msg.Role {
		case models.User:
			b.WriteString(styles.UserHeaderStyle().Render("👤 You") + " " + stamp + "\n")
			b.WriteString(styles.BodyStyle().Render(msg.Content))
		case models.System:
			b.WriteString(styles.SystemHeaderStyle().Render("System") + " " + stamp + "\n")
			b.WriteString(styles.SystemBodyStyle().Render(msg.Content))
		default:
			title := msg.Service.Icon() + " Assistant"
			if msg.Service != "" {
				title += fmt.Sprintf(" (%s)", msg.Service)
			}
			b.WriteString(styles.AssistantHeaderStyle().Render(title) + " " + stamp + "\n")
			b.WriteString(styles.BodyStyle().Render(md.Render(msg.ID, msg.Content, width-4)))
		}
		b.WriteString("\n")
		if i < len(messages)-1 {
			b.WriteString(separator + "\n")
		}
	}
	return b.String()
}
