package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/ecli/internal/dispatcher"
	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/update"
	"github.com/Rorical/ecli/ui/components"
)

// AppModel adapts the controller to tea.Model and renders its state.
type AppModel struct {
	controller *update.Controller
	dispatcher *dispatcher.EventDispatcher
	markdown   *components.Markdown
	help       help.Model
}

func NewAppModel(c *update.Controller, d *dispatcher.EventDispatcher, markdown bool) *AppModel {
	return &AppModel{
		controller: c,
		dispatcher: d,
		markdown:   components.NewMarkdown(markdown),
		help:       help.New(),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.controller.TickCmd(),
		m.dispatcher.Listen(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.controller.Update(msg)
	if _, ok := msg.(dispatcher.EventMsg); ok {
		return m, tea.Batch(cmd, m.dispatcher.Listen())
	}
	return m, cmd
}

func (m *AppModel) View() string {
	s := m.controller.State()
	var b strings.Builder

	b.WriteString(components.RenderHeader())
	b.WriteString("\n")

	if transcript := components.RenderMessages(s.History, s.Width, m.markdown); transcript != "" {
		b.WriteString(transcript)
		b.WriteString("\n")
	}

	b.WriteString(m.body(s))
	b.WriteString("\n")

	m.help.Width = s.Width
	helpView := m.help.ShortHelpView(m.controller.Keys().ShortHelp())
	b.WriteString(components.RenderStatus(s, helpView, s.Width))

	return b.String()
}

func (m *AppModel) body(s *models.AppState) string {
	switch s.Mode {
	case models.Welcome:
		return components.RenderWelcome()
	case models.ModeSelect:
		return components.RenderModeSelect(s.ModeIndex)
	case models.ToolSelect:
		return components.RenderToolSelect(s.ToolIndex, s.Authenticated)
	case models.ProviderSetup:
		return components.RenderSetup(s.SetupProvider, len(s.APIKeyInput), s.Width)
	case models.ModelSelect:
		return components.RenderModelSelect(s.ModelProvider, s.ModelOptions, s.ModelIndex)
	case models.CommandPalette:
		return components.RenderInput(s.Input, s.Cursor, s.Width) + "\n" +
			components.RenderPalette(s.Palette, s.CommandIndex)
	default:
		if s.Execution.IsExecuting {
			return components.RenderExecution(s.Execution, s.LoadingDots, s.Width)
		}
		var out string
		if len(s.History) == 0 {
			out = components.RenderTips() + "\n\n"
		}
		return out + components.RenderInput(s.Input, s.Cursor, s.Width)
	}
}
