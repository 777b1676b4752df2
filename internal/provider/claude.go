package provider

import (
	"context"
	"encoding/json"
	"strings"
)

const claudeVersion = "1.0.59 (Claude Code SDK)"

// claudeEvent is one line of `claude --output-format stream-json`.
type claudeEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// ClaudeAdapter runs Claude Code in print mode and streams its JSON events.
type ClaudeAdapter struct {
	command []string
	creds   Credentials
}

func NewClaudeAdapter(command []string, creds Credentials) *ClaudeAdapter {
	if len(command) == 0 {
		command = []string{"claude"}
	}
	return &ClaudeAdapter{command: command, creds: creds}
}

func (c *ClaudeAdapter) ID() ID {
	return Claude
}

func (c *ClaudeAdapter) ParseCommand(raw string) Command {
	return ParseCommand(raw)
}

func (c *ClaudeAdapter) Execute(ctx context.Context, cmd Command) Result {
	return c.ExecuteStreaming(ctx, cmd, nil)
}

func (c *ClaudeAdapter) ExecuteStreaming(ctx context.Context, cmd Command, onChunk func(string)) Result {
	if cmd.Kind == KindCLI {
		switch strings.TrimSpace(cmd.Content) {
		case "help":
			res := Result{Success: true, Output: "Claude Code Commands:\n" +
				"• /help - Show this help message\n" +
				"• /version - Show Claude Code version\n" +
				"• Or use regular prompts for AI assistance"}
			emit(onChunk, res.Output)
			return res
		case "version":
			res := Result{Success: true, Output: claudeVersion}
			emit(onChunk, res.Output)
			return res
		}
		cmd = Command{Kind: KindPrompt, Content: cmd.Content}
	}

	key := c.creds.APIKey(Claude)
	if key == "" {
		return MissingCredential(Claude)
	}

	argv := append(append([]string{}, c.command...),
		"-p", cmd.Content,
		"--model", c.creds.Model(Claude),
		"--max-turns", "1",
		"--output-format", "stream-json",
		"--verbose",
	)
	proc := process{argv: argv, env: map[string]string{Claude.EnvVar(): key}}

	var text strings.Builder
	var final string
	var haveResult, resultIsError bool
	out := proc.run(ctx, func(line string) {
		var ev claudeEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return
		}
		switch ev.Type {
		case "assistant":
			for _, block := range ev.Message.Content {
				if block.Type == "text" {
					text.WriteString(block.Text)
				}
			}
			if onChunk != nil && text.Len() > 0 {
				onChunk(text.String())
			}
		case "result":
			haveResult = true
			resultIsError = ev.IsError || (ev.Subtype != "" && ev.Subtype != "success")
			final = ev.Result
		}
	})

	if out.spawnErr != nil {
		return failure("Failed to execute", "Claude Code",
			out.spawnErr.Error()+"\nMake sure @anthropic-ai/claude-code is installed", out.spawnErr.Error())
	}
	if out.exitCode != 0 || resultIsError {
		return failure("Error from", "Claude Code", claudeErrorDetail(out.stderr+final), out.stderr)
	}

	if !haveResult || final == "" {
		final = text.String()
	}
	if final == "" {
		if strings.TrimSpace(out.stdout) == "" {
			return failure("Error from", "Claude Code", "No response received from Claude", "empty response")
		}
		final = "Response received but no text content found"
	}
	emit(onChunk, final)
	return Result{Success: true, Output: final}
}

func claudeErrorDetail(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return "Please set your Anthropic API key with /setup or authenticate with the Claude CLI"
	case strings.Contains(lower, "rate limit"):
		return "Rate limit exceeded. Please try again later."
	case strings.TrimSpace(text) == "":
		return "Unknown error occurred"
	default:
		return strings.TrimSpace(text)
	}
}
