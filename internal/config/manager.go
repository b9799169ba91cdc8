package config

import (
	"sync"

	"github.com/dshills/mdinput/internal/notify"
)

// Manager holds the active configuration and reloads it on demand.
type Manager struct {
	mu       sync.RWMutex
	opts     Options
	current  Config
	notifier *notify.Notifier
}

// NewManager loads the initial configuration. Reload events are published
// to n when it is non-nil.
func NewManager(opts Options, n *notify.Notifier) (*Manager, error) {
	cfg, err := Load(opts)
	if err != nil {
		return nil, err
	}
	return &Manager{opts: opts, current: cfg, notifier: n}, nil
}

// Current returns a copy of the active configuration.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Path returns the config file path, if any.
func (m *Manager) Path() string {
	return m.opts.Path
}

// History returns the history section.
func (m *Manager) History() HistoryConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.History
}

// Editor returns the editor section.
func (m *Manager) Editor() EditorConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Editor
}

// Reload re-reads all layers. On error the active configuration is kept.
// A successful reload publishes the new Config under notify.TopicConfig.
func (m *Manager) Reload() (Config, error) {
	cfg, err := Load(m.opts)
	if err != nil {
		return m.Current(), err
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()

	if m.notifier != nil {
		m.notifier.Publish(notify.Event{
			Topic:  notify.TopicConfig,
			Value:  cfg.Clone(),
			Source: "config",
		})
	}
	return cfg.Clone(), nil
}
