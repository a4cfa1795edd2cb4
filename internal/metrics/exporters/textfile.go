// Package exporters writes badge metrics where node_exporter can pick them up.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smazurov/inkbadge/internal/events"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/metrics"
)

// FileName is the textfile written into the collector directory.
const FileName = "inkbadge.prom"

// EventSubscriber interface for subscribing to events.
type EventSubscriber interface {
	Subscribe(handler any) func()
}

// TextfileExporter feeds metrics from bus events and rewrites the textfile
// after every commit and on a fault.
type TextfileExporter struct {
	path     string
	gatherer prometheus.Gatherer
	logger   logging.Logger
	unsubs   []func()
	now      func() time.Time
}

// NewTextfileExporter creates an exporter writing into dir.
func NewTextfileExporter(dir string, logger logging.Logger) *TextfileExporter {
	return &TextfileExporter{
		path:     filepath.Join(dir, FileName),
		gatherer: metrics.Registry(),
		logger:   logger,
		now:      time.Now,
	}
}

// Start subscribes to the cycle events.
func (e *TextfileExporter) Start(bus EventSubscriber) {
	e.unsubs = append(e.unsubs,
		bus.Subscribe(func(events.CycleStartedEvent) {
			metrics.IncCycles()
		}),
		bus.Subscribe(func(ev events.ActionResolvedEvent) {
			metrics.IncAction(ev.Action)
		}),
		bus.Subscribe(func(ev events.WakeArmedEvent) {
			metrics.SetWakeInterval(ev.Interval.Seconds())
		}),
		bus.Subscribe(func(ev events.StateCommittedEvent) {
			metrics.SetState(ev.Index, ev.Locked, float64(e.now().Unix()))
			e.flush()
		}),
		bus.Subscribe(func(ev events.FaultEvent) {
			metrics.SetFault(ev.Code)
			e.flush()
		}),
	)
}

// Stop unsubscribes from the bus.
func (e *TextfileExporter) Stop() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
}

// Write gathers and writes the textfile now.
func (e *TextfileExporter) Write() error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create textfile directory: %w", err)
	}
	return prometheus.WriteToTextfile(e.path, e.gatherer)
}

func (e *TextfileExporter) flush() {
	if err := e.Write(); err != nil {
		e.logger.Warn("Failed to write metrics textfile", "path", e.path, "error", err)
	}
}
