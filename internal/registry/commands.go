package registry

import (
	"fmt"
	"strings"
)

// Action names the behaviour bound to a slash command.
type Action string

const (
	ActionHooks            Action = "hooks"
	ActionIDE              Action = "ide"
	ActionInit             Action = "init"
	ActionInstallGithubApp Action = "install-github-app"
	ActionLogout           Action = "logout"
	ActionMCP              Action = "mcp"
	ActionMemory           Action = "memory"
	ActionMigrateInstaller Action = "migrate-installer"
	ActionMode             Action = "mode"
	ActionModel            Action = "model"
	ActionSetup            Action = "setup"
	ActionHelp             Action = "help"
)

// Command is one entry of the slash command palette.
type Command struct {
	Name        string
	Description string
	Action      Action
}

var commands = []Command{
	{"/hooks", "Manage hook configurations for tool events", ActionHooks},
	{"/ide", "Manage IDE integrations and show status", ActionIDE},
	{"/init", "Initialize a new CLAUDE.md file with codebase documentation", ActionInit},
	{"/install-github-app", "Set up Claude GitHub Actions for a repository", ActionInstallGithubApp},
	{"/logout", "Sign out and remove all stored API keys", ActionLogout},
	{"/mcp", "Manage MCP servers", ActionMCP},
	{"/memory", "Edit Claude memory files", ActionMemory},
	{"/migrate-installer", "Migrate from global npm installation to local installation", ActionMigrateInstaller},
	{"/mode", "Choose the interaction mode and coding tool", ActionMode},
	{"/model", "Set the AI model for your configured provider", ActionModel},
	{"/setup", "Initialize configuration for your AI provider", ActionSetup},
	{"/help", "Show help information", ActionHelp},
}

// Commands returns the registry in display order. The slice is a copy.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// Filter returns the commands whose name starts with prefix, ignoring case.
func Filter(prefix string) []Command {
	p := strings.ToLower(prefix)
	var out []Command
	for _, c := range commands {
		if strings.HasPrefix(strings.ToLower(c.Name), p) {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a command by its exact name, ignoring case and surrounding space.
func Lookup(name string) (Command, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range commands {
		if c.Name == n {
			return c, true
		}
	}
	return Command{}, false
}

// HelpText renders the registry as the /help transcript message.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-22s %s\n", c.Name, c.Description)
	}
	b.WriteString("\nDirect provider access:\n")
	fmt.Fprintf(&b, "  %-22s %s\n", `ecli claude "prompt"`, "Ask Claude Code")
	fmt.Fprintf(&b, "  %-22s %s\n", `ecli gemini "prompt"`, "Ask Gemini CLI")
	fmt.Fprintf(&b, "  %-22s %s\n", `ecli codex "prompt"`, "Ask Codex")
	b.WriteString("\nAnything else is sent to your configured provider.")
	return b.String()
}
