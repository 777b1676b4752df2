package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/registry"
)

var modelCmd = &cobra.Command{
	Use:       "model [provider]",
	Short:     "Choose the model a provider runs with",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: providerNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.DefaultStore()
		if err != nil {
			return err
		}

		id, err := providerArg(args, "Select provider")
		if err != nil {
			return err
		}

		options := registry.ModelsFor(id)
		if len(options) == 0 {
			return fmt.Errorf("no models known for %s", id.DisplayName())
		}

		sel := promptui.Select{
			Label:     fmt.Sprintf("Select %s model", id.DisplayName()),
			Items:     options,
			CursorPos: registry.ModelIndex(id, store.Model(id)),
			Size:      len(options),
		}
		_, model, err := sel.Run()
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}

		if err := store.Set(config.ModelFor(id, model)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s model set to %s\n", id.DisplayName(), model)
		return nil
	},
}
