package provider

import (
	"context"
	"strings"
)

// CodexAdapter shells out to `codex exec`.
type CodexAdapter struct {
	command []string
	creds   Credentials
}

func NewCodexAdapter(command []string, creds Credentials) *CodexAdapter {
	if len(command) == 0 {
		command = []string{"npx", "codex"}
	}
	return &CodexAdapter{command: command, creds: creds}
}

func (c *CodexAdapter) ID() ID {
	return Codex
}

func (c *CodexAdapter) ParseCommand(raw string) Command {
	return ParseCommand(raw)
}

func (c *CodexAdapter) Execute(ctx context.Context, cmd Command) Result {
	if cmd.Kind == KindCLI {
		if res, ok := codexLocal(cmd.Content, c.creds.Model(Codex)); ok {
			return res
		}
		cmd = Command{Kind: KindPrompt, Content: cmd.Content}
	}

	key := c.creds.APIKey(Codex)
	if key == "" {
		return MissingCredential(Codex)
	}

	argv := append(append([]string{}, c.command...), "exec", "-m", c.creds.Model(Codex), cmd.Content)
	out := process{argv: argv, env: map[string]string{Codex.EnvVar(): key}}.run(ctx, nil)

	if out.spawnErr != nil {
		return failure("Failed to execute", "Codex CLI",
			out.spawnErr.Error()+"\nMake sure Codex CLI is installed", out.spawnErr.Error())
	}
	if out.exitCode != 0 {
		detail := strings.TrimSpace(out.stderr)
		if mentionsAuth(out.stderr) {
			detail = "Please run 'npx codex login' to authenticate with OpenAI"
		} else if detail == "" {
			detail = "Unknown error occurred"
		}
		return failure("Error from", "Codex CLI", detail, out.stderr)
	}

	response := ExtractCodexResponse(out.stdout)
	if response == "" {
		response = "Command executed successfully but no output returned"
	}
	return Result{Success: true, Output: response}
}

func codexLocal(content, model string) (Result, bool) {
	switch strings.TrimSpace(content) {
	case "help":
		return Result{Success: true, Output: "Codex Commands:\n" +
			"• /help - Show this help message\n" +
			"• /version - Show Codex CLI version\n" +
			"• Or use regular prompts for AI assistance"}, true
	case "version":
		return Result{Success: true, Output: "OpenAI Codex CLI (model " + model + ")"}, true
	}
	return Result{}, false
}

// ExtractCodexResponse strips the exec framing: the answer starts after the
// `codex` speaker line and ends at the `tokens used:` footer. Output without
// that framing is returned trimmed.
func ExtractCodexResponse(output string) string {
	clean := strings.TrimSpace(output)
	var lines []string
	started := false
	for _, line := range strings.Split(clean, "\n") {
		if strings.TrimSpace(line) == "codex" || strings.Contains(line, "] codex") {
			started = true
			continue
		}
		if strings.Contains(line, "tokens used:") {
			break
		}
		if started && strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return clean
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
