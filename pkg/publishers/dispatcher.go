package publishers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultDeliveryTimeout = 10 * time.Second

// Dispatcher fans events out to publishers in the background. Events are
// delivered one at a time in dispatch order, so every sink sees them in the
// order the store produced them. Delivery failures are logged and never
// reported to the caller.
type Dispatcher struct {
	pubs    []Publisher
	log     Logger
	timeout time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
	done   chan struct{}
}

// NewDispatcher builds a Dispatcher and starts its delivery loop. A zero
// timeout uses the default.
func NewDispatcher(pubs []Publisher, log Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	d := &Dispatcher{
		pubs:    pubs,
		log:     ensureLogger(log),
		timeout: timeout,
		done:    make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Len returns the number of publishers.
func (d *Dispatcher) Len() int { return len(d.pubs) }

// Dispatch queues evt and returns immediately. Events dispatched after Close
// are dropped.
func (d *Dispatcher) Dispatch(evt Event) {
	if len(d.pubs) == 0 {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, evt)
	d.cond.Signal()
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		batch := d.queue
		d.queue = nil
		closed := d.closed
		d.mu.Unlock()

		for _, evt := range batch {
			d.deliver(evt)
		}
		if closed && len(batch) == 0 {
			return
		}
	}
}

func (d *Dispatcher) deliver(evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, pub := range d.pubs {
		g.Go(func() error {
			if err := pub.Publish(ctx, evt); err != nil {
				d.log.WarnObj("event delivery failed", "publisher_delivery_error", map[string]any{
					"publisher_id": pub.ID(),
					"event_type":   evt.Type,
					"error":        err.Error(),
				})
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Close stops accepting events and waits until queued events are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.done
}
