package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/eventbus"
	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
)

const noProviderMessage = "⚠️ No AI provider configured.\n" +
	"Run /setup, or press Enter on an empty prompt from the welcome screen, to add an API key."

// directive recognises `ecli <provider> [body]`.
func directive(input string) (provider.ID, string, bool) {
	fields := strings.Fields(input)
	if len(fields) < 2 || fields[0] != "ecli" {
		return "", "", false
	}
	id, ok := provider.Parse(fields[1])
	if !ok || string(id) != strings.ToLower(fields[1]) {
		return "", "", false
	}
	rest := strings.TrimSpace(input)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "ecli"))
	rest = strings.TrimSpace(rest[len(fields[1]):])
	return id, rest, true
}

func usage(id provider.ID) string {
	return fmt.Sprintf("%s ready - Usage:\n"+
		"• ecli %s \"your question here\" - for prompts\n"+
		"• ecli %s /help - for CLI commands", id.ToolName(), id, id)
}

// submit classifies the input buffer and routes it.
func (c *Controller) submit() tea.Cmd {
	s := c.state
	if s.Execution.IsExecuting {
		return nil
	}
	input := strings.TrimSpace(s.InputText())
	if input == "" {
		s.ResetInput()
		return nil
	}

	if strings.HasPrefix(input, "/") {
		s.ResetInput()
		cmd, ok := registry.Lookup(input)
		if !ok {
			s.AddSystem(fmt.Sprintf("Unknown command: %s\nType /help to see available commands.", input))
			return nil
		}
		return c.runCommand(cmd)
	}

	if id, body, ok := directive(input); ok {
		s.ResetInput()
		if !s.IsAuthenticated(id) {
			s.AddSystem(fmt.Sprintf("⚠️ %s is not configured. Enter your API key to continue.", id.ToolName()))
			c.openSetup(id)
			return nil
		}
		if body == "" {
			s.AddSystem(usage(id))
			return nil
		}
		cmd := provider.ParseCommand(body)
		display := body
		if cmd.Kind == provider.KindPrompt {
			display = cmd.Content
		}
		return c.dispatch(id, cmd, display)
	}

	id, ok := provider.Resolve(s.SelectedProvider, s.Authenticated)
	if !ok {
		s.ResetInput()
		s.AddSystem(noProviderMessage)
		return nil
	}
	cmd := provider.ParseCommand(input)
	return c.dispatch(id, cmd, cmd.Content)
}

// dispatch hands exactly one job to the runner.
func (c *Controller) dispatch(id provider.ID, cmd provider.Command, display string) tea.Cmd {
	s := c.state
	s.AddMessage(models.User, display, "")
	s.ResetInput()

	jobID := c.deps.NewJobID()
	s.StartExecution(jobID, id, c.deps.Runner.Streams(id))

	log.WithFields(log.Fields{"job": jobID, "provider": id, "kind": cmd.Kind}).Debug("submit")
	if err := c.deps.Runner.Submit(eventbus.ExecuteEvent{JobID: jobID, Provider: id, Command: cmd}); err != nil {
		log.WithError(err).Error("submit failed")
		c.completeExecution(id, "❌ Unexpected error: "+err.Error())
	}
	return nil
}

func (c *Controller) openSetup(id provider.ID) {
	s := c.state
	s.SetupProvider = id
	s.APIKeyInput = nil
	s.Mode = models.ProviderSetup
}
