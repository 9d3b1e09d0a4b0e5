package events

import (
	"context"
	"errors"
)

// Notifier receives entity-changed signals after the write that caused them
// has been committed.
type Notifier interface {
	Notify(ctx context.Context, changes ...EntityChangedEvent) error
}

type NotifierFunc func(ctx context.Context, changes ...EntityChangedEvent) error

func (f NotifierFunc) Notify(ctx context.Context, changes ...EntityChangedEvent) error {
	return f(ctx, changes...)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ...EntityChangedEvent) error { return nil }

// Nop discards every signal.
func Nop() Notifier { return nopNotifier{} }

type fanout []Notifier

// Fanout delivers each signal to every notifier and joins their errors.
func Fanout(notifiers ...Notifier) Notifier {
	out := make(fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (f fanout) Notify(ctx context.Context, changes ...EntityChangedEvent) error {
	if len(changes) == 0 {
		return nil
	}
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, changes...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Collector buffers signals so a caller can release them after commit.
type Collector struct {
	changes []EntityChangedEvent
}

func (c *Collector) Add(ev EntityChangedEvent) {
	c.changes = append(c.changes, ev)
}

func (c *Collector) Changes() []EntityChangedEvent {
	return c.changes
}

func (c *Collector) Reset() {
	c.changes = c.changes[:0]
}
