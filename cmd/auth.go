package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/provider"
)

var loginCmd = &cobra.Command{
	Use:       "login [provider]",
	Short:     "Store an API key for a provider",
	Long:      `Prompt for an API key and save it to the credentials file. Without an argument a provider is chosen from a list.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: providerNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.DefaultStore()
		if err != nil {
			return err
		}

		id, err := providerArg(args, "Select provider to configure")
		if err != nil {
			return err
		}

		prompt := promptui.Prompt{
			Label: fmt.Sprintf("%s API key", id.DisplayName()),
			Mask:  '*',
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("API key cannot be empty")
				}
				return nil
			},
		}
		key, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		if err := store.Set(config.KeyFor(id, strings.TrimSpace(key))); err != nil {
			return err
		}
		log.WithField("provider", id).Info("api key stored from command line")
		fmt.Fprintf(cmd.OutOrStdout(), "✅ API key saved for %s\n", id.ToolName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.DefaultStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged out. All stored API keys were removed.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which providers are configured",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.DefaultStore()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), store)
	},
}

func printStatus(w io.Writer, store *config.Store) error {
	creds, err := store.Get()
	if err != nil {
		return err
	}
	auth := creds.Authenticated()

	fmt.Fprintf(w, "Credentials: %s\n\n", store.Path())
	for _, id := range provider.Priority {
		state := "not configured"
		if auth[id] {
			state = "configured"
		}
		fmt.Fprintf(w, "  %s %-14s %-15s model: %s\n", id.Icon(), id.ToolName(), state, store.Model(id))
	}
	if active, ok := provider.Resolve("", auth); ok {
		fmt.Fprintf(w, "\nPrompts go to %s by default.\n", active.DisplayName())
	} else {
		fmt.Fprintln(w, "\nNo AI provider configured. Run \"ecli login\" or /setup inside ecli.")
	}
	return nil
}

func providerNames() []string {
	names := make([]string, len(provider.Priority))
	for i, id := range provider.Priority {
		names[i] = id.String()
	}
	return names
}

// providerArg parses args[0] or asks the user to pick a provider.
func providerArg(args []string, label string) (provider.ID, error) {
	if len(args) > 0 {
		id, ok := provider.Parse(args[0])
		if !ok {
			return "", fmt.Errorf("unknown provider %q (want one of %s)", args[0], strings.Join(providerNames(), ", "))
		}
		return id, nil
	}

	items := make([]string, len(provider.Priority))
	for i, id := range provider.Priority {
		items[i] = id.ToolName()
	}
	sel := promptui.Select{
		Label: label,
		Items: items,
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return provider.Priority[i], nil
}
