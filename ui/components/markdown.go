package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	log "github.com/sirupsen/logrus"
)

// Markdown renders assistant replies through glamour. Renderers are built per
// wrap width and rendered output is cached by message ID, since transcript
// entries never change once appended.
type Markdown struct {
	enabled   bool
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	cache     map[string]string
	cacheW    int
}

func NewMarkdown(enabled bool) *Markdown {
	return &Markdown{
		enabled:   enabled,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[string]string),
	}
}

func (m *Markdown) renderer(width int) *glamour.TermRenderer {
	if r, ok := m.renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.WithError(err).Warn("markdown renderer unavailable")
		return nil
	}
	m.renderers[width] = r
	return r
}

// Render returns content as terminal markdown, or unchanged when disabled or
// on failure. An empty id disables caching.
func (m *Markdown) Render(id, content string, width int) string {
	if m == nil || !m.enabled {
		return content
	}
	if width < 20 {
		width = 80
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if width != m.cacheW {
		m.cache = make(map[string]string)
		m.cacheW = width
	}
	if id != "" {
		if out, ok := m.cache[id]; ok {
			return out
		}
	}

	r := m.renderer(width)
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		log.WithError(err).Debug("markdown render failed")
		return content
	}
	out = strings.Trim(out, "\n")
	if id != "" {
		m.cache[id] = out
	}
	return out
}
