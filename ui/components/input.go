package components

import (
	"strings"

	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/ui/styles"
)

const Placeholder = "Type your message or @path/to/file"

// RenderInput draws the prompt row with a block cursor at a rune offset.
func RenderInput(input []rune, cursor int, width int) string {
	var b strings.Builder
	b.WriteString(styles.PromptStyle().Render("> "))

	if len(input) == 0 {
		b.WriteString(styles.CursorStyle().Render(" "))
		b.WriteString(styles.PlaceholderStyle().Render(Placeholder))
		return styles.InputStyle(width).Render(b.String())
	}

	cursor = min(max(cursor, 0), len(input))
	text := styles.TextStyle()
	b.WriteString(text.Render(string(input[:cursor])))
	under := " "
	if cursor < len(input) {
		under = string(input[cursor])
	}
	b.WriteString(styles.CursorStyle().Render(under))
	if cursor+1 < len(input) {
		b.WriteString(text.Render(string(input[cursor+1:])))
	}
	return styles.InputStyle(width).Render(b.String())
}

// LoadingText is the status line shown while a provider runs.
func LoadingText(service provider.ID, dots int) string {
	var label string
	switch service {
	case provider.Claude:
		label = "🧠 Claude is thinking"
	case provider.Gemini:
		label = "🤖 Gemini is thinking"
	case provider.Codex:
		label = "⚡ Codex is thinking"
	default:
		label = "🤖 Processing"
	}
	return label + strings.Repeat(".", dots)
}

// RenderExecution replaces the input row while a job is in flight. Partial
// output is drawn as plain text; markdown is applied once the reply lands in
// the transcript.
func RenderExecution(exec models.Execution, dots int, width int) string {
	out := styles.LoadingStyle().Render(LoadingText(exec.Service, dots))
	if exec.IsStreaming && exec.StreamingText != "" {
		body := styles.BodyStyle()
		if width > 4 {
			body = body.Width(width - 2)
		}
		out += "\n" + body.Render(exec.StreamingText)
	}
	return out
}
