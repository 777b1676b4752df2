package provider

import (
	"context"
	"regexp"
	"strings"
)

var cachedCredentialsBanner = regexp.MustCompile(`(?m)^Loaded cached credentials\.[ \t]*\r?\n?`)

// GeminiAdapter drives the Gemini CLI in non-interactive prompt mode.
type GeminiAdapter struct {
	command []string
	creds   Credentials
}

func NewGeminiAdapter(command []string, creds Credentials) *GeminiAdapter {
	if len(command) == 0 {
		command = []string{"npx", "gemini"}
	}
	return &GeminiAdapter{command: command, creds: creds}
}

func (g *GeminiAdapter) ID() ID {
	return Gemini
}

func (g *GeminiAdapter) ParseCommand(raw string) Command {
	return ParseCommand(raw)
}

func (g *GeminiAdapter) Execute(ctx context.Context, cmd Command) Result {
	return g.ExecuteStreaming(ctx, cmd, nil)
}

func (g *GeminiAdapter) ExecuteStreaming(ctx context.Context, cmd Command, onChunk func(string)) Result {
	if cmd.Kind == KindCLI {
		if res, ok := g.local(cmd.Content); ok {
			emit(onChunk, res.Output)
			return res
		}
		cmd = Command{Kind: KindPrompt, Content: cmd.Content}
	}

	key := g.creds.APIKey(Gemini)
	if key == "" {
		return MissingCredential(Gemini)
	}

	argv := append(append([]string{}, g.command...), "-m", g.creds.Model(Gemini), "-p", cmd.Content)
	proc := process{argv: argv, env: map[string]string{Gemini.EnvVar(): key}}

	var acc strings.Builder
	out := proc.run(ctx, func(line string) {
		acc.WriteString(line)
		acc.WriteString("\n")
		if partial := ScrubGemini(acc.String()); partial != "" {
			emit(onChunk, partial)
		}
	})

	if out.spawnErr != nil {
		return failure("Failed to execute", "Gemini CLI",
			out.spawnErr.Error()+"\nMake sure @google/gemini-cli is installed", out.spawnErr.Error())
	}
	if out.exitCode != 0 {
		detail := strings.TrimSpace(out.stderr)
		if strings.Contains(out.stderr, "API key") {
			detail = "Please set your API key using /setup"
		} else if detail == "" {
			detail = "Unknown error occurred"
		}
		return failure("Error from", "Gemini CLI", detail, out.stderr)
	}

	final := ScrubGemini(out.stdout)
	emit(onChunk, final)
	return Result{Success: true, Output: final}
}

func (g *GeminiAdapter) local(content string) (Result, bool) {
	switch strings.TrimSpace(content) {
	case "help":
		return Result{Success: true, Output: "Gemini CLI Commands:\n" +
			"• /help - Show this help message\n" +
			"• /version - Show Gemini CLI version\n" +
			"• Or use regular prompts for AI assistance"}, true
	case "version":
		return Result{Success: true, Output: "Gemini CLI (model " + g.creds.Model(Gemini) + ")"}, true
	}
	return Result{}, false
}

// ScrubGemini removes the cached-credentials banner the CLI prints before answers.
func ScrubGemini(output string) string {
	return strings.TrimSpace(cachedCredentialsBanner.ReplaceAllString(strings.TrimSpace(output), ""))
}

func emit(onChunk func(string), text string) {
	if onChunk != nil {
		onChunk(text)
	}
}
