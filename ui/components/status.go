package components

import (
	"strings"

	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/ui/styles"
)

// RenderStatus draws the bottom bar: active provider, auth summary, hints.
func RenderStatus(state *models.AppState, help string, width int) string {
	var parts []string

	if active, ok := provider.Resolve(state.SelectedProvider, state.Authenticated); ok {
		label := active.Icon() + " " + active.DisplayName()
		if m := state.Models[active]; m != "" {
			label += " · " + m
		}
		parts = append(parts, label)
	} else {
		parts = append(parts, "no provider configured")
	}

	var auth []string
	for _, id := range provider.Priority {
		mark := "✗"
		if state.Authenticated[id] {
			mark = "✓"
		}
		auth = append(auth, mark+" "+id.DisplayName())
	}
	parts = append(parts, strings.Join(auth, " "))

	if state.Execution.IsExecuting {
		parts = append(parts, "running"+strings.Repeat(".", state.LoadingDots))
	} else {
		parts = append(parts, state.Mode.String())
	}
	if help != "" {
		parts = append(parts, help)
	}

	return styles.StatusStyle(width).Render(strings.Join(parts, " │ "))
}
