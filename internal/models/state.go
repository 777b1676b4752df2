package models

import (
	"time"

	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
)

// Mode is the single active interaction context.
type Mode int

const (
	Welcome Mode = iota
	ModeSelect
	ToolSelect
	ProviderSetup
	ModelSelect
	CommandPalette
	Prompting
)

func (m Mode) String() string {
	switch m {
	case Welcome:
		return "welcome"
	case ModeSelect:
		return "mode-select"
	case ToolSelect:
		return "tool-select"
	case ProviderSetup:
		return "provider-setup"
	case ModelSelect:
		return "model-select"
	case CommandPalette:
		return "command-palette"
	case Prompting:
		return "prompting"
	default:
		return "unknown"
	}
}

// ModeOptions and the tool list drive the two selection panels.
var ModeOptions = []string{"Default", "Scenario"}

func ToolOptions() []provider.ID {
	return provider.Priority
}

// Execution tracks the single in-flight provider invocation.
type Execution struct {
	IsExecuting   bool
	IsStreaming   bool
	StreamingText string
	Service       provider.ID
	JobID         string
	Started       time.Time
}

// AppState is owned by the input controller. Renderers only read it.
type AppState struct {
	Mode Mode

	// Input is edited in runes; Cursor is a rune offset in [0, len(Input)].
	Input  []rune
	Cursor int

	ModeIndex    int
	ToolIndex    int
	ModelIndex   int
	CommandIndex int

	// SetupProvider and APIKeyInput are meaningful only in ProviderSetup.
	SetupProvider provider.ID
	APIKeyInput   []rune

	// ModelProvider and ModelOptions are meaningful only in ModelSelect.
	ModelProvider provider.ID
	ModelOptions  []string

	// Palette is the filtered command list shown in CommandPalette.
	Palette []registry.Command

	Authenticated    map[provider.ID]bool
	SelectedProvider provider.ID
	// Models mirrors the stored model choice per provider for rendering.
	Models map[provider.ID]string

	Execution   Execution
	LoadingDots int

	History []Message

	Width  int
	Height int
}

// NewAppState seeds the state from the stored authentication flags.
func NewAppState(authenticated map[provider.ID]bool) *AppState {
	s := &AppState{
		Authenticated: make(map[provider.ID]bool),
		Models:        make(map[provider.ID]string),
	}
	for id, ok := range authenticated {
		s.Authenticated[id] = ok
	}
	s.Mode = s.RestingMode()
	return s
}

// Change is one field update applied through Apply.
type Change func(*AppState)

// Apply merges a set of changes in order.
func (s *AppState) Apply(changes ...Change) {
	for _, c := range changes {
		c(s)
	}
}

func WithMode(m Mode) Change {
	return func(s *AppState) { s.Mode = m }
}

func WithInput(text string) Change {
	return func(s *AppState) {
		s.Input = []rune(text)
		s.Cursor = len(s.Input)
	}
}

func WithSelectedProvider(id provider.ID) Change {
	return func(s *AppState) { s.SelectedProvider = id }
}

func (s *AppState) InputText() string {
	return string(s.Input)
}

func (s *AppState) IsAuthenticated(id provider.ID) bool {
	return s.Authenticated[id]
}

func (s *AppState) AnyAuthenticated() bool {
	for _, ok := range s.Authenticated {
		if ok {
			return true
		}
	}
	return false
}

// RestingMode is where cancelled panels return to.
func (s *AppState) RestingMode() Mode {
	if s.AnyAuthenticated() {
		return Prompting
	}
	return Welcome
}

func (s *AppState) ResetInput() {
	s.Input = nil
	s.Cursor = 0
}

// Insert splices text at the cursor and advances past it.
func (s *AppState) Insert(text string) {
	r := []rune(text)
	if len(r) == 0 {
		return
	}
	s.clampCursor()
	out := make([]rune, 0, len(s.Input)+len(r))
	out = append(out, s.Input[:s.Cursor]...)
	out = append(out, r...)
	out = append(out, s.Input[s.Cursor:]...)
	s.Input = out
	s.Cursor += len(r)
}

// Backspace removes the rune before the cursor.
func (s *AppState) Backspace() {
	s.clampCursor()
	if s.Cursor == 0 {
		return
	}
	s.Input = append(s.Input[:s.Cursor-1:s.Cursor-1], s.Input[s.Cursor:]...)
	s.Cursor--
}

// DeleteForward removes the rune under the cursor.
func (s *AppState) DeleteForward() {
	s.clampCursor()
	if s.Cursor >= len(s.Input) {
		return
	}
	s.Input = append(s.Input[:s.Cursor:s.Cursor], s.Input[s.Cursor+1:]...)
}

func (s *AppState) MoveCursor(delta int) {
	s.Cursor += delta
	s.clampCursor()
}

func (s *AppState) clampCursor() {
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor > len(s.Input) {
		s.Cursor = len(s.Input)
	}
}

func (s *AppState) AddMessage(role Role, content string, service provider.ID) {
	s.History = append(s.History, NewMessage(role, content, service))
}

func (s *AppState) AddSystem(content string) {
	s.AddMessage(System, content, "")
}

// StartExecution marks a job in flight. Streaming implies executing.
func (s *AppState) StartExecution(jobID string, service provider.ID, streaming bool) {
	s.Execution = Execution{
		IsExecuting: true,
		IsStreaming: streaming,
		Service:     service,
		JobID:       jobID,
		Started:     time.Now(),
	}
	s.LoadingDots = 0
}

func (s *AppState) CompleteExecution() {
	s.Execution = Execution{}
	s.LoadingDots = 0
}

// Wrap moves index by delta over a list of length n with wraparound.
func Wrap(index, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((index+delta)%n + n) % n
}
