package led

import (
	"log/slog"

	"github.com/Kurokesu/ar0822-v4l2-driver/internal/events"
)

// Manager drives a record indicator LED from sensor streaming state.
// Solid while the sensor streams, heartbeat while idle.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	indicator   string
	logger      *slog.Logger
}

// NewManager creates an LED manager that reacts to streaming state changes.
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		indicator:  pickIndicator(controller),
		logger:     logger,
	}
}

// pickIndicator chooses the record indicator LED for this board.
func pickIndicator(controller Controller) string {
	available := controller.Available()
	for _, preferred := range []string{"act", "user", "blue"} {
		for _, ledType := range available {
			if ledType == preferred {
				return preferred
			}
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return "act"
}

// Start begins listening for streaming state change events.
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.StreamingChangedEvent) {
		m.handleEvent(e)
	})
	m.setIdle()
	m.logger.Info("LED manager started", "indicator", m.indicator)
}

// Stop stops the LED manager and unsubscribes from events.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if err := m.controller.Set(m.indicator, false, "none"); err != nil {
		m.logger.Debug("failed to turn off indicator LED", "error", err)
	}
	m.logger.Info("LED manager stopped")
}

func (m *Manager) handleEvent(event events.StreamingChangedEvent) {
	m.logger.Debug("streaming state changed", "streaming", event.Streaming)

	if event.Streaming {
		if err := m.controller.Set(m.indicator, true, "solid"); err != nil {
			m.logger.Warn("failed to set indicator LED to solid", "error", err)
		}
		return
	}
	m.setIdle()
}

func (m *Manager) setIdle() {
	if err := m.controller.Set(m.indicator, true, "blink"); err != nil {
		m.logger.Warn("failed to set indicator LED to blink", "error", err)
	}
}

// GetController returns the underlying LED controller for direct API access.
func (m *Manager) GetController() Controller {
	return m.controller
}
