package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/provider"
)

func TestPassthroughArgv(t *testing.T) {
	tests := []struct {
		name   string
		id     provider.ID
		prefix []string
		model  string
		args   []string
		want   []string
	}{
		{"gemini gets model first", provider.Gemini, []string{"npx", "gemini"}, "gemini-2.5-flash",
			[]string{"-p", "hi"}, []string{"npx", "gemini", "-m", "gemini-2.5-flash", "-p", "hi"}},
		{"gemini without model", provider.Gemini, []string{"gemini"}, "", nil, []string{"gemini"}},
		{"claude untouched", provider.Claude, []string{"claude"}, "opus",
			[]string{"--version"}, []string{"claude", "--version"}},
		{"codex untouched", provider.Codex, []string{"npx", "codex"}, "o3",
			[]string{"login"}, []string{"npx", "codex", "login"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passthroughArgv(tt.id, tt.prefix, tt.model, tt.args))
		})
	}

	prefix := []string{"gemini"}
	passthroughArgv(provider.Gemini, prefix, "m", []string{"x"})
	assert.Equal(t, []string{"gemini"}, prefix, "prefix must not be modified")
}

func TestChildEnv(t *testing.T) {
	base := []string{"PATH=/bin"}

	env := childEnv(base, provider.Claude, "sk-ant")
	assert.Equal(t, []string{"PATH=/bin", "ANTHROPIC_API_KEY=sk-ant"}, env)
	assert.Len(t, base, 1)

	assert.Equal(t, base, childEnv(base, provider.Gemini, ""))
	assert.Contains(t, childEnv(nil, provider.Codex, "k"), "OPENAI_API_KEY=k")
}

func TestPrintStatus(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "credentials.json"))

	var out bytes.Buffer
	require.NoError(t, printStatus(&out, store))
	assert.Contains(t, out.String(), "No AI provider configured")
	assert.Contains(t, out.String(), store.Path())

	require.NoError(t, store.Set(config.KeyFor(provider.Codex, "k")))
	require.NoError(t, store.Set(config.ModelFor(provider.Codex, "o3")))

	out.Reset()
	require.NoError(t, printStatus(&out, store))
	assert.Regexp(t, `CodeX OpenAI\s+configured\s+model: o3`, out.String())
	assert.Regexp(t, `Claude Code\s+not configured`, out.String())
	assert.Contains(t, out.String(), "Prompts go to Codex by default.")
}

func TestPrintManualHelp(t *testing.T) {
	var out bytes.Buffer
	printManualHelp(&out, []string{"gemini", "-m", "gemini-2.5-flash"})
	assert.Contains(t, out.String(), "1. Run: gemini -m gemini-2.5-flash")
	assert.Contains(t, out.String(), "3. Type: /help")
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"login", "logout", "status", "model", "claude", "gemini", "codex"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "log-level", "codex-backend"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestProviderArg(t *testing.T) {
	id, err := providerArg([]string{"anthropic"}, "")
	require.NoError(t, err)
	assert.Equal(t, provider.Claude, id)

	_, err = providerArg([]string{"mistral"}, "")
	assert.ErrorContains(t, err, "unknown provider")
}

type recordingCloser struct {
	closed int
}

func (r *recordingCloser) Close() error {
	r.closed++
	return nil
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("ECLI_HOME", t.TempDir())
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		log.SetOutput(io.Discard)
	})
	return executeContext(context.Background())
}

func TestExecuteClosesLogOnError(t *testing.T) {
	t.Run("flag error", func(t *testing.T) {
		rec := &recordingCloser{}
		logCloser = rec
		err := runRoot(t, "--no-such-flag")
		require.Error(t, err)
		assert.Equal(t, 1, rec.closed)
		assert.Nil(t, logCloser)
	})

	t.Run("command error", func(t *testing.T) {
		err := runRoot(t, "model", "mistral")
		require.ErrorContains(t, err, "unknown provider")
		assert.Nil(t, logCloser, "log file left open after a failed command")
	})
}

func TestCloseLogIsIdempotent(t *testing.T) {
	rec := &recordingCloser{}
	logCloser = rec
	closeLog()
	closeLog()
	assert.Equal(t, 1, rec.closed)
	assert.Nil(t, logCloser)
}
