package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
)

func (c *Controller) runCommand(cmd registry.Command) tea.Cmd {
	s := c.state
	log.WithField("command", cmd.Name).Debug("running command")

	switch cmd.Action {
	case registry.ActionLogout:
		if err := c.deps.Store.Clear(); err != nil {
			log.WithError(err).Warn("failed to remove credentials")
		}
		for _, id := range provider.Priority {
			s.Authenticated[id] = false
		}
		s.SelectedProvider = ""
		c.refreshModels()
		s.AddSystem("✅ Logged out. All stored API keys were removed.")
	case registry.ActionSetup, registry.ActionMode:
		s.ModeIndex = 0
		s.Mode = models.ModeSelect
	case registry.ActionModel:
		c.openModelSelect()
	case registry.ActionHelp:
		s.AddSystem(registry.HelpText())
	default:
		s.AddSystem(fmt.Sprintf("🚧 %s is coming soon!", cmd.Name))
	}
	return nil
}

// openModelSelect picks the highest priority authenticated provider.
func (c *Controller) openModelSelect() {
	s := c.state
	id, ok := provider.Resolve("", s.Authenticated)
	if !ok {
		s.AddSystem("⚠️ No AI provider configured. Run /setup before choosing a model.")
		return
	}
	options := c.deps.ModelsFor(id)
	if len(options) == 0 {
		s.AddSystem(fmt.Sprintf("⚠️ No models are available for %s.", id.DisplayName()))
		return
	}

	s.ModelProvider = id
	s.ModelOptions = options
	s.ModelIndex = 0
	current := c.deps.Store.Model(id)
	for i, m := range options {
		if m == current {
			s.ModelIndex = i
			break
		}
	}
	s.Mode = models.ModelSelect
}
