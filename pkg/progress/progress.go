// Package progress reports ingestion activity to interested observers.
// Each dataset pass produces informational events, periodic progress
// counts and exactly one terminal event (finished or failed).
package progress

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mamedex/mamedex/pkg/logging"
)

// EventType classifies a progress event.
type EventType int

// Event types, in rough lifecycle order.
const (
	// TypeInfo is a free-form status message.
	TypeInfo EventType = iota

	// TypeProgress carries a current/total record count.
	TypeProgress

	// TypeFinish marks a dataset pass as completed.
	TypeFinish

	// TypeError marks a dataset pass as failed.
	TypeError
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case TypeInfo:
		return "info"
	case TypeProgress:
		return "progress"
	case TypeFinish:
		return "finish"
	case TypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one progress report for a dataset pass.
type Event struct {
	// Dataset names the dataset kind the event belongs to.
	Dataset string

	// Type classifies the event.
	Type EventType

	// Current and Total carry record counts for TypeProgress events;
	// Total is zero when the total is not known up front.
	Current int64
	Total   int64

	// Message carries free-form text for info, finish and error events.
	Message string
}

// Sink receives progress events. Implementations must be safe for
// concurrent use; dataset passes run in parallel.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Publish calls the function.
func (f SinkFunc) Publish(e Event) { f(e) }

// NopSink discards all events.
func NopSink() Sink {
	return SinkFunc(func(Event) {})
}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink writing to the given logger, or the default
// logger when nil.
func NewLogSink(logger *zerolog.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger.With().Str("component", "ingest").Logger()}
}

// Publish logs the event at a level matching its type.
func (s *LogSink) Publish(e Event) {
	var ev *zerolog.Event
	switch e.Type {
	case TypeError:
		ev = s.logger.Error()
	case TypeProgress:
		ev = s.logger.Debug().Int64("current", e.Current).Int64("total", e.Total)
	default:
		ev = s.logger.Info()
	}

	ev = ev.Str("dataset", e.Dataset).Str("type", e.Type.String())
	if e.Message != "" {
		ev.Msg(e.Message)
	} else {
		ev.Send()
	}
}

// CollectSink records every published event, for tests and summaries.
type CollectSink struct {
	mu     sync.Mutex
	events []Event
}

// NewCollectSink creates an empty collecting sink.
func NewCollectSink() *CollectSink {
	return &CollectSink{}
}

// Publish appends the event.
func (s *CollectSink) Publish(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of everything published so far.
func (s *CollectSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// ByDataset returns the published events for one dataset, in order.
func (s *CollectSink) ByDataset(dataset string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, e := range s.events {
		if e.Dataset == dataset {
			out = append(out, e)
		}
	}
	return out
}

// ChannelSink forwards events to a channel, dropping them when the
// channel is full rather than stalling ingestion.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Publish sends the event if the buffer has room.
func (s *ChannelSink) Publish(e Event) {
	select {
	case s.ch <- e:
	default:
	}
}

// Events returns the receive side of the channel.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Close closes the channel. Publish must not be called after Close.
func (s *ChannelSink) Close() {
	close(s.ch)
}
