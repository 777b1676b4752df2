package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Rorical/ecli/internal/app"
	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/logging"
	"github.com/Rorical/ecli/internal/settings"
)

var (
	cfgFile     string
	v           = viper.New()
	appSettings *settings.Settings
	logCloser   io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "ecli",
	Short: "One terminal for Claude Code, Gemini CLI and Codex",
	Long: `ecli is an interactive terminal front-end for AI coding assistants.
Configure a provider with /setup (or "ecli login"), then type a prompt.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.DefaultStore()
		if err != nil {
			return err
		}

		application, err := app.NewApplication(appSettings, store)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer application.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Start(ctx)
	},
}

// exitCodeError carries a child process exit status out of Execute.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func Execute() {
	err := executeContext(context.Background())
	if err == nil {
		return
	}
	var exit exitCodeError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// executeContext runs the command tree and releases the log file on every
// path, including a failed RunE.
func executeContext(ctx context.Context) error {
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: failed to close log:", err)
	}
	logCloser = nil
}

func initSettings(cmd *cobra.Command, args []string) error {
	home, err := config.Home()
	if err != nil {
		return err
	}
	settings.SetDefaults(v, home)
	if err := settings.Read(v, cfgFile, home); err != nil {
		return err
	}
	appSettings, err = settings.Load(v)
	if err != nil {
		return err
	}

	closer, err := logging.Setup(appSettings.Log)
	logCloser = closer
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	log.WithFields(log.Fields{
		"command": cmd.Name(),
		"config":  v.ConfigFileUsed(),
	}).Debug("settings loaded")
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "settings file (default is $ECLI_HOME/settings.yaml or ~/.ecli/settings.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("codex-backend", settings.BackendCLI, "codex backend: cli or api")

	bindFlags(flags, map[string]string{
		"log-level":     "log.level",
		"codex-backend": "providers.codex.backend",
	})

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, modelCmd)
	for _, c := range passthroughCmds() {
		rootCmd.AddCommand(c)
	}
}

// bindFlags maps command line flags onto settings keys.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(name)))
	}
}
