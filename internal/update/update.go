package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/dispatcher"
	"github.com/Rorical/ecli/internal/eventbus"
	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
)

// CredentialStore is the part of the credential store the controller writes.
type CredentialStore interface {
	Set(partial config.Credentials) error
	Clear() error
	Authenticated() (map[provider.ID]bool, error)
	Model(id provider.ID) string
}

// Runner executes provider jobs out of band.
type Runner interface {
	Submit(ev eventbus.ExecuteEvent) error
	Streams(id provider.ID) bool
}

type Deps struct {
	Store     CredentialStore
	Runner    Runner
	ModelsFor func(provider.ID) []string
	NewJobID  func() string
	Tick      time.Duration
}

// Controller is the input state machine. All state mutation happens in
// Update, on the Bubble Tea goroutine.
type Controller struct {
	state *models.AppState
	deps  Deps
	keys  KeyMap
}

func NewController(state *models.AppState, deps Deps) *Controller {
	if deps.ModelsFor == nil {
		deps.ModelsFor = registry.ModelsFor
	}
	if deps.NewJobID == nil {
		deps.NewJobID = uuid.NewString
	}
	if deps.Tick <= 0 {
		deps.Tick = 300 * time.Millisecond
	}
	c := &Controller{state: state, deps: deps, keys: DefaultKeyMap()}
	c.refreshModels()
	return c
}

// refreshModels copies the stored model choices into the state so rendering
// never reads the credentials file.
func (c *Controller) refreshModels() {
	if c.deps.Store == nil {
		return
	}
	if c.state.Models == nil {
		c.state.Models = make(map[provider.ID]string)
	}
	for _, id := range provider.Priority {
		c.state.Models[id] = c.deps.Store.Model(id)
	}
}

func (c *Controller) State() *models.AppState {
	return c.state
}

func (c *Controller) Keys() KeyMap {
	return c.keys
}

type TickMsg time.Time

func (c *Controller) TickCmd() tea.Cmd {
	return tea.Tick(c.deps.Tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)
	case tea.WindowSizeMsg:
		c.state.Width = msg.Width
		c.state.Height = msg.Height
	case TickMsg:
		if c.state.Execution.IsExecuting {
			c.state.LoadingDots = (c.state.LoadingDots + 1) % 4
		}
		return c.TickCmd()
	case dispatcher.EventMsg:
		c.handleCoreEvent(msg.Event)
	}
	return nil
}

func (c *Controller) handleCoreEvent(event eventbus.CoreEvent) {
	s := c.state
	switch e := event.(type) {
	case eventbus.ChunkEvent:
		if s.Execution.IsStreaming && s.Execution.JobID == e.JobID {
			s.Execution.StreamingText = e.Text
		}
	case eventbus.ResultEvent:
		if !s.Execution.IsExecuting || s.Execution.JobID != e.JobID {
			log.WithField("job", e.JobID).Debug("ignoring stale result")
			return
		}
		c.completeExecution(e.Provider, e.Result.Output)
	case eventbus.CredentialsChangedEvent:
		c.reloadAuthentication()
	}
}

func (c *Controller) completeExecution(service provider.ID, output string) {
	s := c.state
	s.AddMessage(models.ResultRole(output), output, service)
	s.CompleteExecution()
}

func (c *Controller) reloadAuthentication() {
	auth, err := c.deps.Store.Authenticated()
	if err != nil {
		log.WithError(err).Warn("could not reload credentials")
		return
	}
	s := c.state
	s.Authenticated = auth
	c.refreshModels()
	if s.SelectedProvider != "" && !s.IsAuthenticated(s.SelectedProvider) {
		s.SelectedProvider = ""
	}
	if s.Mode == models.Welcome && s.AnyAuthenticated() {
		s.Mode = models.Prompting
	}
	log.WithField("authenticated", auth).Debug("credentials reloaded")
}
