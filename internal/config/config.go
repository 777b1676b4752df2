package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Rorical/ecli/internal/provider"
	"github.com/Rorical/ecli/internal/registry"
	log "github.com/sirupsen/logrus"
)

const credentialsFile = "credentials.json"

// Credentials is the persisted document. Empty fields are omitted on disk.
type Credentials struct {
	AnthropicAPIKey     string `json:"anthropicApiKey,omitempty"`
	GeminiAPIKey        string `json:"geminiApiKey,omitempty"`
	OpenAIAPIKey        string `json:"openaiApiKey,omitempty"`
	SelectedClaudeModel string `json:"selectedClaudeModel,omitempty"`
	SelectedGeminiModel string `json:"selectedGeminiModel,omitempty"`
	SelectedCodexModel  string `json:"selectedCodexModel,omitempty"`
}

// APIKey returns the stored key for a provider.
func (c Credentials) APIKey(id provider.ID) string {
	switch id {
	case provider.Claude:
		return c.AnthropicAPIKey
	case provider.Gemini:
		return c.GeminiAPIKey
	case provider.Codex:
		return c.OpenAIAPIKey
	}
	return ""
}

// SelectedModel returns the explicitly chosen model, without defaults.
func (c Credentials) SelectedModel(id provider.ID) string {
	switch id {
	case provider.Claude:
		return c.SelectedClaudeModel
	case provider.Gemini:
		return c.SelectedGeminiModel
	case provider.Codex:
		return c.SelectedCodexModel
	}
	return ""
}

// Authenticated derives the per-provider flags from key presence.
func (c Credentials) Authenticated() map[provider.ID]bool {
	return map[provider.ID]bool{
		provider.Claude: c.AnthropicAPIKey != "",
		provider.Gemini: c.GeminiAPIKey != "",
		provider.Codex:  c.OpenAIAPIKey != "",
	}
}

func (c *Credentials) merge(partial Credentials) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.AnthropicAPIKey, partial.AnthropicAPIKey)
	set(&c.GeminiAPIKey, partial.GeminiAPIKey)
	set(&c.OpenAIAPIKey, partial.OpenAIAPIKey)
	set(&c.SelectedClaudeModel, partial.SelectedClaudeModel)
	set(&c.SelectedGeminiModel, partial.SelectedGeminiModel)
	set(&c.SelectedCodexModel, partial.SelectedCodexModel)
}

// KeyFor builds a partial update carrying only the key of one provider.
func KeyFor(id provider.ID, key string) Credentials {
	switch id {
	case provider.Claude:
		return Credentials{AnthropicAPIKey: key}
	case provider.Gemini:
		return Credentials{GeminiAPIKey: key}
	case provider.Codex:
		return Credentials{OpenAIAPIKey: key}
	}
	return Credentials{}
}

// ModelFor builds a partial update carrying only the model of one provider.
func ModelFor(id provider.ID, model string) Credentials {
	switch id {
	case provider.Claude:
		return Credentials{SelectedClaudeModel: model}
	case provider.Gemini:
		return Credentials{SelectedGeminiModel: model}
	case provider.Codex:
		return Credentials{SelectedCodexModel: model}
	}
	return Credentials{}
}

// Store reads and writes the credentials file. Writers in other processes are
// not coordinated with; the last write wins.
type Store struct {
	path string
	mu   sync.Mutex
}

// Home returns the per-user directory, honouring ECLI_HOME.
func Home() (string, error) {
	if home := os.Getenv("ECLI_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ecli"), nil
}

// DefaultStore opens the store at <home>/credentials.json.
func DefaultStore() (*Store, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(home, credentialsFile)), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Get loads the file. A missing file is an empty document.
func (s *Store) Get() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Credentials, error) {
	var creds Credentials
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return creds, nil
	}
	if err != nil {
		return creds, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

// Set merges the non-empty fields of partial into the stored document.
// An unreadable existing file is replaced.
func (s *Store) Set(partial Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		log.WithError(err).Warn("replacing unreadable credentials file")
		current = Credentials{}
	}
	current.merge(partial)

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear deletes the credentials file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Authenticated reports which providers have a stored key.
func (s *Store) Authenticated() (map[provider.ID]bool, error) {
	creds, err := s.Get()
	if err != nil {
		return Credentials{}.Authenticated(), err
	}
	return creds.Authenticated(), nil
}

// APIKey and Model let the store be handed to adapters directly.
func (s *Store) APIKey(id provider.ID) string {
	creds, err := s.Get()
	if err != nil {
		log.WithError(err).Warn("credentials unavailable")
		return ""
	}
	return creds.APIKey(id)
}

// Model is the selected model for a provider, falling back to its default.
func (s *Store) Model(id provider.ID) string {
	creds, err := s.Get()
	if err != nil {
		log.WithError(err).Warn("credentials unavailable")
	}
	if m := creds.SelectedModel(id); m != "" {
		return m
	}
	return registry.DefaultModel(id)
}
