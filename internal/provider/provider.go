package provider

import (
	"context"
	"fmt"
	"strings"
)

// ID identifies one of the supported assistant back-ends.
type ID string

const (
	Claude ID = "claude"
	Gemini ID = "gemini"
	Codex  ID = "codex"
)

// Priority is the fixed order used whenever more than one provider could serve a request.
var Priority = []ID{Claude, Gemini, Codex}

func (id ID) String() string {
	return string(id)
}

// DisplayName is the short human label ("Claude", "Gemini", "Codex").
func (id ID) DisplayName() string {
	switch id {
	case Claude:
		return "Claude"
	case Gemini:
		return "Gemini"
	case Codex:
		return "Codex"
	default:
		return string(id)
	}
}

// ToolName is the label used in the tool selection list.
func (id ID) ToolName() string {
	switch id {
	case Claude:
		return "Claude Code"
	case Gemini:
		return "Gemini CLI"
	case Codex:
		return "CodeX OpenAI"
	default:
		return string(id)
	}
}

// Icon returns the transcript glyph for the provider.
func (id ID) Icon() string {
	switch id {
	case Claude:
		return "🧠"
	case Codex:
		return "⚡"
	default:
		return "🤖"
	}
}

// EnvVar names the environment variable the provider CLI reads its key from.
func (id ID) EnvVar() string {
	switch id {
	case Claude:
		return "ANTHROPIC_API_KEY"
	case Gemini:
		return "GEMINI_API_KEY"
	case Codex:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// Parse maps a user supplied name onto an ID.
func Parse(name string) (ID, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "claude", "anthropic":
		return Claude, true
	case "gemini", "google":
		return Gemini, true
	case "codex", "openai":
		return Codex, true
	}
	return "", false
}

// CommandKind distinguishes free prompts from adapter-level CLI subcommands.
type CommandKind int

const (
	KindPrompt CommandKind = iota
	KindCLI
)

func (k CommandKind) String() string {
	if k == KindCLI {
		return "cli"
	}
	return "prompt"
}

// Command is a parsed request for an adapter.
type Command struct {
	Kind    CommandKind
	Content string
}

// Result is the normalized outcome of one invocation. Failures are reported
// through Success=false and a user-facing Output, never as Go errors.
type Result struct {
	Success bool
	Output  string
	Err     string
}

// Adapter is the capability every provider back-end offers.
type Adapter interface {
	ID() ID
	ParseCommand(raw string) Command
	Execute(ctx context.Context, cmd Command) Result
}

// Streamer is implemented by adapters that can deliver incremental output.
// onChunk receives the accumulated text so far; the final Result.Output equals
// the last value passed to onChunk.
type Streamer interface {
	ExecuteStreaming(ctx context.Context, cmd Command, onChunk func(partial string)) Result
}

// ParseCommand implements the shared parsing rules: a quoted string is a
// prompt with the quotes removed, a leading slash marks a CLI subcommand,
// anything else is a bare prompt.
func ParseCommand(raw string) Command {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'') && first == last {
			return Command{Kind: KindPrompt, Content: raw[1 : len(raw)-1]}
		}
	}
	if strings.HasPrefix(raw, "/") {
		return Command{Kind: KindCLI, Content: raw[1:]}
	}
	return Command{Kind: KindPrompt, Content: raw}
}

// Resolve picks the provider for a request. A preferred provider wins when it
// is authenticated; otherwise the first authenticated provider in Priority.
func Resolve(preferred ID, authenticated map[ID]bool) (ID, bool) {
	if preferred != "" && authenticated[preferred] {
		return preferred, true
	}
	for _, id := range Priority {
		if authenticated[id] {
			return id, true
		}
	}
	return "", false
}

func failure(marker, name, detail, errText string) Result {
	return Result{
		Success: false,
		Output:  fmt.Sprintf("❌ %s %s:\n%s", marker, name, detail),
		Err:     errText,
	}
}

// MissingCredential is the adapter-local failure raised before any process is spawned.
func MissingCredential(id ID) Result {
	return failure("Missing credentials for", id.DisplayName(),
		fmt.Sprintf("No %s API key configured. Run /setup to add one.", id.DisplayName()),
		"missing api key")
}
