package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/provider"
)

// passthroughCmds runs each provider CLI directly with the terminal attached.
func passthroughCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(provider.Priority))
	for _, id := range provider.Priority {
		cmds = append(cmds, &cobra.Command{
			Use:                id.String() + " [args...]",
			Short:              fmt.Sprintf("Run %s directly with the stored API key", id.ToolName()),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPassthrough(cmd, id, args)
			},
		})
	}
	return cmds
}

func runPassthrough(cmd *cobra.Command, id provider.ID, args []string) error {
	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	prefix := commandFor(id)
	model := store.Model(id)

	if len(args) == 1 && args[0] == "/help" {
		printManualHelp(cmd.OutOrStdout(), passthroughArgv(id, prefix, model, nil))
		return nil
	}

	argv := passthroughArgv(id, prefix, model, args)
	if len(argv) == 0 {
		return fmt.Errorf("no command configured for %s", id.DisplayName())
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fmt.Errorf("%s is not available. Please install it first", id.ToolName())
	}

	child := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = childEnv(os.Environ(), id, store.APIKey(id))

	log.WithFields(log.Fields{"provider": id, "args": len(args)}).Info("passthrough started")
	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCodeError{code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", id.ToolName(), err)
	}
	return nil
}

func commandFor(id provider.ID) []string {
	if appSettings == nil {
		return nil
	}
	switch id {
	case provider.Claude:
		return appSettings.Providers.Claude.Command
	case provider.Gemini:
		return appSettings.Providers.Gemini.Command
	case provider.Codex:
		return appSettings.Providers.Codex.Command
	}
	return nil
}

// passthroughArgv builds the child argv. Gemini always gets an explicit model
// so it does not fall back to a quota-limited default.
func passthroughArgv(id provider.ID, prefix []string, model string, args []string) []string {
	argv := append([]string{}, prefix...)
	if id == provider.Gemini && model != "" {
		argv = append(argv, "-m", model)
	}
	return append(argv, args...)
}

// childEnv adds the stored key for id to base. An empty key leaves base as is
// so a key already exported by the user still applies.
func childEnv(base []string, id provider.ID, key string) []string {
	env := append([]string{}, base...)
	if key != "" && id.EnvVar() != "" {
		env = append(env, id.EnvVar()+"="+key)
	}
	return env
}

func printManualHelp(w io.Writer, argv []string) {
	fmt.Fprintln(w, "To see the CLI help:")
	fmt.Fprintf(w, "1. Run: %s\n", strings.Join(argv, " "))
	fmt.Fprintln(w, "2. Wait for the interface to load")
	fmt.Fprintln(w, "3. Type: /help")
}
