package adapter

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	m "modc.dev/pkg/modc/internal/model"
)

// EventHandler receives positioned diagnostics for replay to the user.
type EventHandler interface {
	Handle(event m.Event)
}

// EventCollector stores every event it receives. It is safe for concurrent use.
type EventCollector struct {
	mu     sync.Mutex
	events []m.Event
}

// NewEventCollector returns an empty EventCollector.
func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Handle implements EventHandler.
func (c *EventCollector) Handle(event m.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
}

// Events returns a copy of the collected events in arrival order.
func (c *EventCollector) Events() []m.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.events)
}

// HasErrors reports whether any error event was collected.
func (c *EventCollector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.ContainsFunc(c.events, func(e m.Event) bool {
		return e.Kind == m.EventError
	})
}

// SlogEventHandler writes events to a structured logger.
type SlogEventHandler struct {
	logger *slog.Logger
}

// NewSlogEventHandler returns a handler logging to logger, or to the default
// logger when logger is nil.
func NewSlogEventHandler(logger *slog.Logger) *SlogEventHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogEventHandler{logger: logger}
}

// Handle implements EventHandler.
func (h *SlogEventHandler) Handle(event m.Event) {
	level := slog.LevelInfo

	switch event.Kind {
	case m.EventError:
		level = slog.LevelError
	case m.EventWarning:
		level = slog.LevelWarn
	case m.EventInfo:
	}

	h.logger.Log(context.Background(), level, event.Message,
		"file", event.Location.File,
		"line", event.Location.Line,
		"column", event.Location.Column,
	)
}

// MultiEventHandler fans every event out to all of its handlers.
type MultiEventHandler []EventHandler

// Handle implements EventHandler.
func (hs MultiEventHandler) Handle(event m.Event) {
	for _, h := range hs {
		if h != nil {
			h.Handle(event)
		}
	}
}
