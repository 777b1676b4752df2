package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/Rorical/ecli/internal/config"
	"github.com/Rorical/ecli/internal/core"
	"github.com/Rorical/ecli/internal/dispatcher"
	"github.com/Rorical/ecli/internal/eventbus"
	"github.com/Rorical/ecli/internal/models"
	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/settings"
	"github.com/Rorical/ecli/internal/update"
)

// Application manages the complete application lifecycle
type Application struct {
	settings   *settings.Settings
	store      *config.Store
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ProviderService
	model      *AppModel
}

// Adapters builds one adapter per provider from the launch settings.
func Adapters(cfg *settings.Settings, creds provider.Credentials) []provider.Adapter {
	var codex provider.Adapter
	if cfg.Providers.Codex.Backend == settings.BackendAPI {
		codex = provider.NewCodexAPIAdapter(cfg.Providers.Codex.BaseURL, creds)
	} else {
		codex = provider.NewCodexAdapter(cfg.Providers.Codex.Command, creds)
	}
	return []provider.Adapter{
		provider.NewClaudeAdapter(cfg.Providers.Claude.Command, creds),
		provider.NewGeminiAdapter(cfg.Providers.Gemini.Command, creds),
		codex,
	}
}

func NewApplication(cfg *settings.Settings, store *config.Store) (*Application, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("app: settings and credential store are required")
	}

	auth, err := store.Authenticated()
	if err != nil {
		// A broken file reads as nothing configured; /setup rewrites it.
		log.WithError(err).Warn("credentials unreadable, starting unauthenticated")
		auth = map[provider.ID]bool{}
	}

	log.WithFields(log.Fields{
		"authenticated": auth,
		"codex_backend": cfg.Providers.Codex.Backend,
	}).Info("starting ecli")

	eb := eventbus.NewEventBus()
	disp := dispatcher.NewEventDispatcher(eb)
	service := core.NewProviderService(eb, Adapters(cfg, store)...)

	controller := update.NewController(models.NewAppState(auth), update.Deps{
		Store:  store,
		Runner: service,
		Tick:   cfg.UI.Tick(),
	})

	return &Application{
		settings:   cfg,
		store:      store,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      NewAppModel(controller, disp, cfg.UI.Markdown),
	}, nil
}

// Start runs the terminal UI until the user quits.
func (app *Application) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := app.store.Watch(ctx, app.dispatcher.NotifyCredentialsChanged); err != nil {
			log.WithError(err).Warn("credential watcher stopped")
		}
	}()
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	stats := app.service.Stats()
	log.WithFields(log.Fields{
		"completed": stats.Completed,
		"failed":    stats.Failed,
	}).Info("session closed")
}
