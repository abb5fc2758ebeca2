package notify

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Dispatcher decouples the scheduler from presentation. Publish is a
// non-blocking send into a bounded queue; a worker goroutine drains the
// queue and drives the notifier and the sound player. Sound and visual
// delivery are dispatched independently so a failure in one never
// suppresses the other.
type Dispatcher struct {
	notifier Notifier
	sound    SoundPlayer

	queue   chan Request
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	mu      sync.Mutex
	dropped uint64
}

// NewDispatcher creates a dispatcher with the given sinks. sound may be
// nil when no clip is configured.
func NewDispatcher(notifier Notifier, sound SoundPlayer, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		notifier: notifier,
		sound:    sound,
		queue:    make(chan Request, queueSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	go d.loop()
}

// Stop shuts the worker down after in-flight deliveries complete.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stopCh)
	d.mu.Unlock()
	<-d.doneCh
}

// Publish enqueues a delivery request without blocking. It reports
// whether the request was accepted; a full queue drops the request and
// bumps the dropped counter, keeping at-most-once semantics.
func (d *Dispatcher) Publish(req Request) bool {
	select {
	case d.queue <- req:
		return true
	default:
		atomic.AddUint64(&d.dropped, 1)
		return false
	}
}

// Dropped returns the number of requests discarded due to a full queue.
func (d *Dispatcher) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

func (d *Dispatcher) loop() {
	defer close(d.doneCh)
	for {
		select {
		case req := <-d.queue:
			d.deliver(req)
		case <-d.stopCh:
			return
		}
	}
}

// deliver fires the visual alert and, separately, the sound. Both are
// best-effort; outcomes are observable only in the log.
func (d *Dispatcher) deliver(req Request) {
	ctx := context.Background()

	if err := d.notifier.Notify(ctx, req); err != nil {
		log.Printf("notify: alert %q failed: %v", req.Key, err)
	}

	if req.Sound && d.sound != nil {
		go func() {
			if err := d.sound.Play(ctx); err != nil {
				log.Printf("notify: sound for %q failed: %v", req.Key, err)
			}
		}()
	}
}
