package provider

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds struct {
	keys   map[ID]string
	models map[ID]string
}

func (s staticCreds) APIKey(id ID) string { return s.keys[id] }
func (s staticCreds) Model(id ID) string  { return s.models[id] }

func withKey(id ID, key string) staticCreds {
	return staticCreds{
		keys:   map[ID]string{id: key},
		models: map[ID]string{Claude: "sonnet", Gemini: "gemini-2.5-flash", Codex: "o4-mini"},
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func shell(script string) []string {
	return []string{"sh", "-c", script, "sh"}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		raw  string
		want Command
	}{
		{`"explain this"`, Command{Kind: KindPrompt, Content: "explain this"}},
		{`'single quoted'`, Command{Kind: KindPrompt, Content: "single quoted"}},
		{`"/help"`, Command{Kind: KindPrompt, Content: "/help"}},
		{"/help", Command{Kind: KindCLI, Content: "help"}},
		{"/version", Command{Kind: KindCLI, Content: "version"}},
		{"write a test", Command{Kind: KindPrompt, Content: "write a test"}},
		{`"mismatched'`, Command{Kind: KindPrompt, Content: `"mismatched'`}},
		{`"`, Command{Kind: KindPrompt, Content: `"`}},
		{"", Command{Kind: KindPrompt, Content: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.raw))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		preferred ID
		auth      map[ID]bool
		want      ID
		ok        bool
	}{
		{"none", "", map[ID]bool{}, "", false},
		{"only gemini", "", map[ID]bool{Gemini: true}, Gemini, true},
		{"priority", "", map[ID]bool{Codex: true, Gemini: true, Claude: true}, Claude, true},
		{"gemini over codex", "", map[ID]bool{Codex: true, Gemini: true}, Gemini, true},
		{"preferred wins", Codex, map[ID]bool{Claude: true, Codex: true}, Codex, true},
		{"preferred not authenticated", Codex, map[ID]bool{Gemini: true}, Gemini, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.preferred, tt.auth)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProviderName(t *testing.T) {
	id, ok := Parse(" Claude ")
	assert.True(t, ok)
	assert.Equal(t, Claude, id)

	id, ok = Parse("openai")
	assert.True(t, ok)
	assert.Equal(t, Codex, id)

	_, ok = Parse("llama")
	assert.False(t, ok)
}

func TestScrubGemini(t *testing.T) {
	assert.Equal(t, "Hello there", ScrubGemini("Loaded cached credentials.\nHello there\n"))
	assert.Equal(t, "a\nb", ScrubGemini("a\nLoaded cached credentials.\nb"))
	assert.Equal(t, "", ScrubGemini("Loaded cached credentials."))
	assert.Equal(t, "plain", ScrubGemini("  plain  "))
}

func TestExtractCodexResponse(t *testing.T) {
	framed := strings.Join([]string{
		"[2025-07-20T10:00:00] OpenAI Codex v0.1",
		"--------",
		"[2025-07-20T10:00:01] codex",
		"",
		"Here is the answer.",
		"Second line.",
		"[2025-07-20T10:00:02] tokens used: 321",
	}, "\n")
	assert.Equal(t, "Here is the answer.\nSecond line.", ExtractCodexResponse(framed))

	bare := "codex\nanswer\ntokens used: 5"
	assert.Equal(t, "answer", ExtractCodexResponse(bare))

	assert.Equal(t, "no framing at all", ExtractCodexResponse("  no framing at all\n"))
}

func TestLocalCommandsNeedNoCredentials(t *testing.T) {
	creds := staticCreds{models: map[ID]string{Claude: "sonnet", Gemini: "gemini-2.5-flash", Codex: "o4-mini"}}
	missing := []string{"/nonexistent/ecli-test-binary"}
	adapters := []Adapter{
		NewClaudeAdapter(missing, creds),
		NewGeminiAdapter(missing, creds),
		NewCodexAdapter(missing, creds),
		NewCodexAPIAdapter("", creds),
	}
	for _, a := range adapters {
		t.Run(a.ID().String(), func(t *testing.T) {
			help := a.Execute(context.Background(), a.ParseCommand("/help"))
			assert.True(t, help.Success)
			assert.Contains(t, help.Output, "/help")

			version := a.Execute(context.Background(), a.ParseCommand("/version"))
			assert.True(t, version.Success)
			assert.NotEmpty(t, version.Output)
		})
	}

	res := NewClaudeAdapter(missing, creds).Execute(context.Background(), Command{Kind: KindCLI, Content: "version"})
	assert.Equal(t, "1.0.59 (Claude Code SDK)", res.Output)
}

func TestMissingCredential(t *testing.T) {
	creds := staticCreds{}
	tests := []struct {
		adapter Adapter
		prefix  string
	}{
		{NewClaudeAdapter(nil, creds), "❌ Missing credentials for Claude:"},
		{NewGeminiAdapter(nil, creds), "❌ Missing credentials for Gemini:"},
		{NewCodexAdapter(nil, creds), "❌ Missing credentials for Codex:"},
		{NewCodexAPIAdapter("", creds), "❌ Missing credentials for Codex:"},
	}
	for _, tt := range tests {
		res := tt.adapter.Execute(context.Background(), Command{Kind: KindPrompt, Content: "hi"})
		assert.False(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Output, tt.prefix), res.Output)
	}

	// unknown CLI subcommands are prompts and still need a key
	res := NewGeminiAdapter(nil, creds).Execute(context.Background(), Command{Kind: KindCLI, Content: "refactor"})
	assert.False(t, res.Success)
}

func TestGeminiStreamsAndScrubs(t *testing.T) {
	requireShell(t)
	script := `echo "Loaded cached credentials."; echo "model=$2 prompt=$4"; echo "key=$GEMINI_API_KEY"`
	g := NewGeminiAdapter(shell(script), withKey(Gemini, "g-key"))

	var chunks []string
	res := g.ExecuteStreaming(context.Background(), Command{Kind: KindPrompt, Content: "hi"}, func(p string) {
		chunks = append(chunks, p)
	})

	require.True(t, res.Success, res.Output)
	assert.Equal(t, "model=gemini-2.5-flash prompt=hi\nkey=g-key", res.Output)
	require.NotEmpty(t, chunks)
	assert.Equal(t, res.Output, chunks[len(chunks)-1])
	for _, c := range chunks {
		assert.NotContains(t, c, "Loaded cached credentials")
	}
	for i := 1; i < len(chunks); i++ {
		assert.True(t, strings.HasPrefix(chunks[i], chunks[i-1]), "chunks must only grow")
	}
}

func TestGeminiFailures(t *testing.T) {
	requireShell(t)
	creds := withKey(Gemini, "g-key")

	res := NewGeminiAdapter(shell(`echo boom >&2; exit 3`), creds).Execute(context.Background(), Command{Content: "hi"})
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Output, "❌ Error from Gemini CLI:"), res.Output)
	assert.Contains(t, res.Output, "boom")

	res = NewGeminiAdapter(shell(`echo "invalid API key" >&2; exit 1`), creds).Execute(context.Background(), Command{Content: "hi"})
	assert.Contains(t, res.Output, "/setup")

	res = NewGeminiAdapter([]string{"/nonexistent/ecli-test-binary"}, creds).Execute(context.Background(), Command{Content: "hi"})
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Output, "❌ Failed to execute Gemini CLI:"), res.Output)
}

func TestClaudeStreamJSON(t *testing.T) {
	requireShell(t)
	script := `
echo '{"type":"system","subtype":"init"}'
echo '{"type":"assistant","message":{"content":[{"type":"text","text":"Hello"}]}}'
echo 'not json'
echo '{"type":"assistant","message":{"content":[{"type":"text","text":", world"}]}}'
echo '{"type":"result","subtype":"success","is_error":false,"result":"Hello, world"}'
`
	c := NewClaudeAdapter(shell(script), withKey(Claude, "a-key"))

	var chunks []string
	res := c.ExecuteStreaming(context.Background(), Command{Kind: KindPrompt, Content: "greet"}, func(p string) {
		chunks = append(chunks, p)
	})
	require.True(t, res.Success, res.Output)
	assert.Equal(t, "Hello, world", res.Output)
	assert.Equal(t, []string{"Hello", "Hello, world", "Hello, world"}, chunks)
}

func TestClaudeErrorResult(t *testing.T) {
	requireShell(t)
	script := `echo '{"type":"result","subtype":"error","is_error":true,"result":"Invalid API key"}'`
	res := NewClaudeAdapter(shell(script), withKey(Claude, "a-key")).Execute(context.Background(), Command{Content: "x"})
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Output, "❌ Error from Claude Code:"), res.Output)
	assert.Contains(t, res.Output, "/setup")
}

func TestCodexExtractsFramedOutput(t *testing.T) {
	requireShell(t)
	script := `printf '[t] OpenAI Codex\n[t] codex\n%s %s %s\n[t] tokens used: 10\n' "$1" "$3" "$OPENAI_API_KEY"`
	c := NewCodexAdapter(shell(script), withKey(Codex, "o-key"))

	res := c.Execute(context.Background(), c.ParseCommand(`"fix it"`))
	require.True(t, res.Success, res.Output)
	assert.Equal(t, "exec o4-mini o-key", res.Output)
}

func TestCodexAuthHint(t *testing.T) {
	requireShell(t)
	res := NewCodexAdapter(shell(`echo "not logged in, unauthorized" >&2; exit 1`), withKey(Codex, "o-key")).
		Execute(context.Background(), Command{Content: "hi"})
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Output, "❌ Error from Codex CLI:"), res.Output)
	assert.Contains(t, res.Output, "npx codex login")
}

func TestCodexIsNotAStreamer(t *testing.T) {
	var a Adapter = NewCodexAdapter(nil, staticCreds{})
	_, ok := a.(Streamer)
	assert.False(t, ok)

	a = NewCodexAPIAdapter("", staticCreds{})
	_, ok = a.(Streamer)
	assert.True(t, ok)
}
