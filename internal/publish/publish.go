// Package publish streams outcomes to external observers while a benchmark
// is still running.
package publish

import (
	"context"
	"time"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/model"
)

// Publisher receives each outcome as soon as it is collected.
type Publisher interface {
	Publish(ctx context.Context, o model.Outcome)
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(context.Context, model.Outcome) {}
func (Nop) Close() error                           { return nil }

// Payload is the wire form of an outcome event.
func Payload(runID string, o model.Outcome) map[string]any {
	p := map[string]any{
		"run_id": runID,
		"index":  o.Index,
		"name":   o.Name,
		"label":  o.Label,
		"status": o.Status.String(),
	}
	switch o.Status {
	case model.StatusCompleted:
		p["duration_ms"] = o.Millis()
	case model.StatusFailed:
		p["reason"] = o.Reason
	}
	return p
}

// Emitting publishes outcomes as named events through an emit function.
// Publish is called from the collector goroutine only, so emit is never
// invoked concurrently.
type Emitting struct {
	RunID string
	Event string
	emit  func(event string, args ...any)
	close func()
}

// Publish implements Publisher.
func (e *Emitting) Publish(ctx context.Context, o model.Outcome) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Publishing outcome.", "event", e.Event, "candidate", o.Name, "status", o.Status.String())
	e.emit(e.Event, Payload(e.RunID, o))
}

// Close implements Publisher. It gives the transport a moment to flush.
func (e *Emitting) Close() error {
	if e.close != nil {
		time.Sleep(flushDelay)
		e.close()
	}
	return nil
}

// flushDelay is how long Close waits before disconnecting.
var flushDelay = 200 * time.Millisecond
