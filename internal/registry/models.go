package registry

import "github.com/Rorical/ecli/internal/provider"

var models = map[provider.ID][]string{
	provider.Claude: {
		"sonnet",
		"opus",
		"haiku",
		"claude-sonnet-4-20250514",
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
	},
	provider.Gemini: {
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
	},
	provider.Codex: {
		"o4-mini",
		"gpt-4o",
		"gpt-4o-mini",
		"claude-3-5-sonnet-20241022",
		"gemini-2.0-flash-exp",
	},
}

var defaults = map[provider.ID]string{
	provider.Claude: "sonnet",
	provider.Gemini: "gemini-2.5-flash",
	provider.Codex:  "o4-mini",
}

// ModelsFor lists the selectable models of a provider; nil for unknown ids.
func ModelsFor(id provider.ID) []string {
	list, ok := models[id]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func DefaultModel(id provider.ID) string {
	return defaults[id]
}

// ModelIndex is the position of model in the provider list, or 0 when absent.
func ModelIndex(id provider.ID, model string) int {
	for i, m := range models[id] {
		if m == model {
			return i
		}
	}
	return 0
}
