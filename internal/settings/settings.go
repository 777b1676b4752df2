// Package settings holds the application settings read through viper from
// <home>/settings.yaml, ECLI_* environment variables and command line flags.
package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendCLI = "cli"
	BackendAPI = "api"
)

type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	Providers ProvidersSettings `mapstructure:"providers"`
	UI        UISettings        `mapstructure:"ui"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ProvidersSettings struct {
	Claude ProviderSettings `mapstructure:"claude"`
	Gemini ProviderSettings `mapstructure:"gemini"`
	Codex  CodexSettings    `mapstructure:"codex"`
}

// ProviderSettings is the argv prefix used to launch a provider CLI.
type ProviderSettings struct {
	Command []string `mapstructure:"command"`
}

type CodexSettings struct {
	Command []string `mapstructure:"command"`
	Backend string   `mapstructure:"backend"`
	BaseURL string   `mapstructure:"base_url"`
}

type UISettings struct {
	Markdown bool `mapstructure:"markdown"`
	TickMS   int  `mapstructure:"tick_ms"`
}

// Tick is the loading indicator interval.
func (u UISettings) Tick() time.Duration {
	if u.TickMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(u.TickMS) * time.Millisecond
}

// SetDefaults registers every key so env overrides and Unmarshal see them.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, "ecli.log"))

	v.SetDefault("providers.claude.command", []string{"claude"})
	v.SetDefault("providers.gemini.command", []string{"npx", "gemini"})
	v.SetDefault("providers.codex.command", []string{"npx", "codex"})
	v.SetDefault("providers.codex.backend", BackendCLI)
	v.SetDefault("providers.codex.base_url", "")

	v.SetDefault("ui.markdown", true)
	v.SetDefault("ui.tick_ms", 300)
}

// Read wires the settings file and environment into v. A missing settings
// file is not an error; an explicit cfgFile that cannot be read is.
func Read(v *viper.Viper, cfgFile, home string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName("settings")
	}

	v.SetEnvPrefix("ECLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

// Load decodes v into Settings and validates it.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	s.Providers.Codex.Backend = strings.ToLower(strings.TrimSpace(s.Providers.Codex.Backend))
	switch s.Providers.Codex.Backend {
	case BackendCLI, BackendAPI:
	default:
		return nil, fmt.Errorf("invalid providers.codex.backend %q (want %s or %s)",
			s.Providers.Codex.Backend, BackendCLI, BackendAPI)
	}
	return &s, nil
}
