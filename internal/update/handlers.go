package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/registry"
)

// typed returns the printable text carried by a key event, if any.
func typed(msg tea.KeyMsg) (string, bool) {
	if msg.Alt {
		return "", false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return "", false
		}
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

func (c *Controller) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, c.keys.Quit) {
		return tea.Quit
	}

	switch c.state.Mode {
	case models.Welcome:
		return c.handleWelcome(msg)
	case models.ModeSelect:
		c.handleModeSelect(msg)
	case models.ToolSelect:
		c.handleToolSelect(msg)
	case models.ProviderSetup:
		c.handleProviderSetup(msg)
	case models.ModelSelect:
		c.handleModelSelect(msg)
	case models.CommandPalette:
		return c.handlePalette(msg)
	case models.Prompting:
		return c.handlePrompting(msg)
	}
	return nil
}

func (c *Controller) handleWelcome(msg tea.KeyMsg) tea.Cmd {
	s := c.state
	if key.Matches(msg, c.keys.Submit) {
		s.ResetInput()
		s.Apply(models.WithMode(models.ModeSelect))
		s.ModeIndex = 0
		return nil
	}
	if _, ok := typed(msg); ok {
		s.Mode = models.Prompting
		return c.handlePrompting(msg)
	}
	return nil
}

func (c *Controller) handleModeSelect(msg tea.KeyMsg) {
	s := c.state
	n := len(models.ModeOptions)
	switch {
	case key.Matches(msg, c.keys.Up):
		s.ModeIndex = models.Wrap(s.ModeIndex, -1, n)
	case key.Matches(msg, c.keys.Down):
		s.ModeIndex = models.Wrap(s.ModeIndex, 1, n)
	case key.Matches(msg, c.keys.Submit):
		if s.ModeIndex == 0 {
			s.Mode = models.ToolSelect
			s.ToolIndex = 0
		} else {
			// Scenario mode has no flow yet.
			s.Mode = models.Welcome
		}
		s.ModeIndex = 0
		s.ResetInput()
	case key.Matches(msg, c.keys.Cancel):
		s.ModeIndex = 0
		s.Mode = s.RestingMode()
	}
}

func (c *Controller) handleToolSelect(msg tea.KeyMsg) {
	s := c.state
	tools := models.ToolOptions()
	switch {
	case key.Matches(msg, c.keys.Up):
		s.ToolIndex = models.Wrap(s.ToolIndex, -1, len(tools))
	case key.Matches(msg, c.keys.Down):
		s.ToolIndex = models.Wrap(s.ToolIndex, 1, len(tools))
	case key.Matches(msg, c.keys.Submit):
		id := tools[s.ToolIndex]
		s.ToolIndex = 0
		s.ResetInput()
		if s.IsAuthenticated(id) {
			s.SelectedProvider = id
			s.Mode = models.Prompting
			s.AddSystem(fmt.Sprintf("✅ %s is ready. Type a prompt below.", id.ToolName()))
			return
		}
		c.openSetup(id)
	case key.Matches(msg, c.keys.Cancel):
		s.ToolIndex = 0
		s.Mode = s.RestingMode()
	}
}

func (c *Controller) handleProviderSetup(msg tea.KeyMsg) {
	s := c.state
	id := s.SetupProvider
	switch {
	case key.Matches(msg, c.keys.Submit):
		apiKey := strings.TrimSpace(string(s.APIKeyInput))
		if apiKey == "" {
			s.AddSystem("❌ Please enter a valid API key")
			return
		}
		if err := c.deps.Store.Set(config.KeyFor(id, apiKey)); err != nil {
			log.WithError(err).WithField("provider", id).Warn("failed to persist api key")
		}
		s.Authenticated[id] = true
		s.SelectedProvider = id
		s.APIKeyInput = nil
		s.SetupProvider = ""
		s.Mode = models.Prompting
		s.AddSystem(fmt.Sprintf("✅ API key saved successfully!\nYou can now use: ecli %s [your prompt] or type a prompt below", id))
	case key.Matches(msg, c.keys.Backspace), key.Matches(msg, c.keys.Delete):
		if n := len(s.APIKeyInput); n > 0 {
			s.APIKeyInput = s.APIKeyInput[:n-1]
		}
	case key.Matches(msg, c.keys.Cancel):
		s.APIKeyInput = nil
		s.SetupProvider = ""
		s.Mode = s.RestingMode()
	default:
		if text, ok := typed(msg); ok {
			s.APIKeyInput = append(s.APIKeyInput, []rune(text)...)
		}
	}
}

func (c *Controller) handleModelSelect(msg tea.KeyMsg) {
	s := c.state
	n := len(s.ModelOptions)
	switch {
	case key.Matches(msg, c.keys.Up):
		s.ModelIndex = models.Wrap(s.ModelIndex, -1, n)
	case key.Matches(msg, c.keys.Down):
		s.ModelIndex = models.Wrap(s.ModelIndex, 1, n)
	case key.Matches(msg, c.keys.Submit):
		if n == 0 {
			s.Mode = models.Prompting
			return
		}
		id, model := s.ModelProvider, s.ModelOptions[s.ModelIndex]
		if err := c.deps.Store.Set(config.ModelFor(id, model)); err != nil {
			log.WithError(err).WithField("provider", id).Warn("failed to persist model")
		}
		s.Models[id] = model
		s.AddSystem(fmt.Sprintf("✅ %s model set to %s", id.DisplayName(), model))
		c.closeModelSelect()
	case key.Matches(msg, c.keys.Cancel):
		c.closeModelSelect()
	}
}

func (c *Controller) closeModelSelect() {
	s := c.state
	s.ModelProvider = ""
	s.ModelOptions = nil
	s.ModelIndex = 0
	s.Mode = models.Prompting
}

func (c *Controller) handlePalette(msg tea.KeyMsg) tea.Cmd {
	s := c.state
	switch {
	case key.Matches(msg, c.keys.Up):
		s.CommandIndex = models.Wrap(s.CommandIndex, -1, len(s.Palette))
	case key.Matches(msg, c.keys.Down):
		s.CommandIndex = models.Wrap(s.CommandIndex, 1, len(s.Palette))
	case key.Matches(msg, c.keys.Cancel):
		c.closePalette()
		s.ResetInput()
	case key.Matches(msg, c.keys.Submit):
		if len(s.Palette) == 0 {
			// nothing matches; treat the buffer as a literal submission
			c.closePalette()
			return c.submit()
		}
		cmd := s.Palette[s.CommandIndex]
		c.closePalette()
		s.ResetInput()
		return c.runCommand(cmd)
	case key.Matches(msg, c.keys.Backspace), key.Matches(msg, c.keys.Delete):
		if key.Matches(msg, c.keys.Backspace) {
			s.Backspace()
		} else {
			s.DeleteForward()
		}
		switch {
		case len(s.Input) == 0:
			c.closePalette()
		case !strings.HasPrefix(s.InputText(), "/"):
			c.closePalette()
		default:
			c.refilter()
		}
	case key.Matches(msg, c.keys.Left):
		s.MoveCursor(-1)
	case key.Matches(msg, c.keys.Right):
		s.MoveCursor(1)
	default:
		if text, ok := typed(msg); ok {
			s.Insert(text)
			if strings.HasPrefix(s.InputText(), "/") {
				c.refilter()
			} else {
				c.closePalette()
			}
		}
	}
	return nil
}

func (c *Controller) openPalette() {
	s := c.state
	s.Mode = models.CommandPalette
	s.CommandIndex = 0
	s.Palette = registry.Filter(s.InputText())
}

func (c *Controller) refilter() {
	s := c.state
	s.Palette = registry.Filter(s.InputText())
	if s.CommandIndex >= len(s.Palette) {
		s.CommandIndex = 0
	}
}

func (c *Controller) closePalette() {
	s := c.state
	s.Palette = nil
	s.CommandIndex = 0
	s.Mode = models.Prompting
}

func (c *Controller) handlePrompting(msg tea.KeyMsg) tea.Cmd {
	s := c.state
	// The input row shows execution status while a job runs.
	if s.Execution.IsExecuting {
		return nil
	}
	switch {
	case key.Matches(msg, c.keys.Submit):
		return c.submit()
	case key.Matches(msg, c.keys.Left):
		s.MoveCursor(-1)
	case key.Matches(msg, c.keys.Right):
		s.MoveCursor(1)
	case key.Matches(msg, c.keys.Backspace):
		s.Backspace()
	case key.Matches(msg, c.keys.Delete):
		s.DeleteForward()
	default:
		if text, ok := typed(msg); ok {
			s.Insert(text)
		}
	}
	// Any edit that leaves exactly "/" opens the palette.
	if s.Mode == models.Prompting && s.InputText() == "/" {
		c.openPalette()
	}
	return nil
}
