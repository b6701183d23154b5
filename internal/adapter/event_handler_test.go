package adapter

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	m "modc.dev/pkg/modc/internal/model"
)

func TestEventCollector(t *testing.T) {
	collector := NewEventCollector()
	assert.Empty(t, collector.Events())
	assert.False(t, collector.HasErrors())

	collector.Handle(m.Event{Kind: m.EventInfo, Message: "hello"})
	assert.False(t, collector.HasErrors())

	collector.Handle(m.Event{Kind: m.EventError, Message: "boom"})
	assert.True(t, collector.HasErrors())

	events := collector.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "hello", events[0].Message)
	assert.Equal(t, "boom", events[1].Message)

	events[0].Message = "changed"
	assert.Equal(t, "hello", collector.Events()[0].Message)
}

func TestEventCollector_Concurrent(t *testing.T) {
	collector := NewEventCollector()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			collector.Handle(m.Event{Kind: m.EventWarning})
		}()
	}

	wg.Wait()
	assert.Len(t, collector.Events(), 50)
}

func TestSlogEventHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := NewSlogEventHandler(logger)

	handler.Handle(m.Event{
		Kind:     m.EventError,
		Location: m.Location{File: "MODULE.bazel", Line: 3, Column: 7},
		Message:  "bad directive",
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="bad directive"`)
	assert.Contains(t, out, "file=MODULE.bazel")
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "column=7")
}

func TestNewSlogEventHandler_DefaultLogger(t *testing.T) {
	assert.NotNil(t, NewSlogEventHandler(nil).logger)
}

func TestMultiEventHandler(t *testing.T) {
	first := NewEventCollector()
	second := NewEventCollector()

	MultiEventHandler{first, nil, second}.Handle(m.Event{Message: "x"})

	assert.Len(t, first.Events(), 1)
	assert.Len(t, second.Events(), 1)
}
