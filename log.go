// log.go - structured logging for offline/control paths, never the gen() hot path

package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the process-wide structured logger for the cmd tool and offline
// operations (baking, bank loading). Gen/Fill never touch it.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "enginesound",
})

// EngineEvent is one diagnostic raised off the real-time path.
type EngineEvent struct {
	Kind    Kind
	Channel string
	Reason  string
}

// EventSink collects EngineEvents for a host to drain at its own pace,
// instead of the DSP core logging or blocking directly. Only a host pushes
// to it: Bake and the bank loader do not (bank parse failures go to logger
// via logBankParseFailure), and nothing in EngineCore.Gen does.
type EventSink struct {
	events []EngineEvent
}

// NewEventSink returns an empty sink.
func NewEventSink() *EventSink {
	return &EventSink{}
}

// Push records one event.
func (s *EventSink) Push(e EngineEvent) {
	s.events = append(s.events, e)
}

// Drain returns and clears all buffered events.
func (s *EventSink) Drain() []EngineEvent {
	events := s.events
	s.events = nil
	return events
}

func logBankParseFailure(channel, reason string) {
	logger.Warn("bank parse failure", "channel", channel, "reason", reason)
}

func logDampening(channel string) {
	logger.Debug("waveguide dampening engaged", "channel", channel)
}
