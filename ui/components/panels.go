package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
	"github.com/Rorical/ecli/ui/styles"
)

const navigationHint = "Use ↑↓ arrows to navigate, Enter to select"

func renderOptions(options []string, selected int) string {
	var b strings.Builder
	for i, opt := range options {
		marker := "  "
		if i == selected {
			marker = "▶ "
		}
		b.WriteString(styles.OptionStyle(i == selected).Render(marker+opt) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderTips() string {
	accent, text := styles.AccentStyle(), styles.TextStyle()
	lines := []string{
		text.Render("Tips for getting started:"),
		"",
		text.Render("• Be specific for the best results"),
		text.Render("• ") + accent.Render("/setup") + text.Render(" to initialize your configuration"),
		text.Render("• ") + accent.Render("/mode") + text.Render(" to switch between different modes"),
		text.Render("• ") + accent.Render("/help") + text.Render(" for more information"),
	}
	return strings.Join(lines, "\n")
}

func RenderWelcome() string {
	return RenderTips() + "\n" + styles.HintStyle().Render("Press Enter to set up a coding tool, or start typing")
}

func RenderModeSelect(selected int) string {
	return styles.TextStyle().Render("Which mode do you want to use?") + "\n\n" +
		renderOptions(models.ModeOptions, selected) + "\n" +
		styles.HintStyle().Render(navigationHint+", Esc to go back")
}

func RenderToolSelect(selected int, authenticated map[provider.ID]bool) string {
	tools := models.ToolOptions()
	names := make([]string, len(tools))
	for i, id := range tools {
		names[i] = id.ToolName()
		if authenticated[id] {
			names[i] += " ✓"
		}
	}
	return styles.TextStyle().Render("Hey Boss! Please choose the best coding tool") + "\n\n" +
		renderOptions(names, selected) + "\n" +
		styles.HintStyle().Render(navigationHint+", Esc to go back")
}

type setupCopy struct {
	vendor string
	url    string
}

var setupText = map[provider.ID]setupCopy{
	provider.Claude: {"Anthropic", "https://console.anthropic.com/"},
	provider.Gemini: {"Google AI Studio", "https://aistudio.google.com/app/apikey"},
	provider.Codex:  {"OpenAI", "https://platform.openai.com/api-keys"},
}

// RenderSetup shows the key entry panel. Only the key length is drawn.
func RenderSetup(id provider.ID, keyLen int, width int) string {
	info := setupText[id]
	accent, text := styles.AccentStyle(), styles.TextStyle()

	var field string
	if keyLen > 0 {
		field = text.Render(strings.Repeat("*", keyLen))
	} else {
		field = styles.PlaceholderStyle().Render(fmt.Sprintf("Enter your %s API key", info.vendor))
	}
	box := styles.InputStyle(width).Render(accent.Render("API Key: ") + field + styles.PlaceholderStyle().Render("█"))

	return styles.TitleStyle().Render(fmt.Sprintf("%s %s Setup", id.Icon(), id.ToolName())) + "\n\n" +
		text.Render(fmt.Sprintf("Welcome to %s! Please enter your %s API key:", id.ToolName(), info.vendor)) + "\n" +
		text.Render("Get your API key from: ") + accent.Render(info.url) + "\n\n" +
		box + "\n" +
		styles.HintStyle().Render("Enter your API key and press Enter to save, Esc to cancel")
}

func RenderModelSelect(id provider.ID, options []string, selected int) string {
	var b strings.Builder
	for i, m := range options {
		if i == selected {
			b.WriteString(styles.OptionStyle(true).Render("▶ "+m+" ◀") + "\n")
		} else {
			b.WriteString(styles.OptionStyle(false).Render("  "+m) + "\n")
		}
	}
	return styles.TitleStyle().Render(fmt.Sprintf("🤖 Select %s Model", id.DisplayName())) + "\n\n" +
		strings.TrimRight(b.String(), "\n") + "\n" +
		styles.HintStyle().Render(navigationHint+", Esc to cancel")
}

// RenderPalette lists the filtered commands under the input row.
func RenderPalette(cmds []registry.Command, selected int) string {
	if len(cmds) == 0 {
		return styles.PlaceholderStyle().Render("No matching commands")
	}
	var b strings.Builder
	for i, c := range cmds {
		row := fmt.Sprintf("%-20s %s", c.Name, c.Description)
		b.WriteString(styles.PaletteRowStyle(i == selected).Render(row) + "\n")
	}
	b.WriteString(styles.HintStyle().Faint(true).Render(navigationHint + ", Esc to close"))
	return b.String()
}
