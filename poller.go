package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// defaultPeriod is the delay between two lookups of the target element
const defaultPeriod = 100 * time.Millisecond

// element is a reference into a live document, as returned by a lookup
type element interface {
	activate(ctx context.Context) error
	outerHTML(ctx context.Context) (string, error)
}

// document is the part of a live page the poller reads from; findByID
// returns a nil element when nothing with that id exists
type document interface {
	findByID(ctx context.Context, id string) (element, error)
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{time.NewTicker(d)}
}

type pollState int32

const (
	stateWaiting pollState = iota
	stateDone
)

func (s pollState) String() string {
	switch s {
	case stateWaiting:
		return "waiting"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// poller repeatedly looks up a single element by id and clicks it the first
// time it is found. A poller is good for exactly one page load.
type poller struct {
	doc       document
	id        string
	period    time.Duration
	log       logrus.FieldLogger
	newTicker func(time.Duration) ticker
	started   atomic.Bool
}

// newPoller creates a poller for the element with the given id, falling back
// to the default period when period is not positive
func newPoller(doc document, id string, period time.Duration, log logrus.FieldLogger) *poller {
	if period <= 0 {
		period = defaultPeriod
	}

	return &poller{
		doc:       doc,
		id:        id,
		period:    period,
		log:       log.WithField("id", id),
		newTicker: newTimeTicker,
	}
}

// pollHandle owns the ticker of a started poller. The ticker is stopped
// exactly once, either on the tick that finds the element or when the
// context passed to start is cancelled.
type pollHandle struct {
	ticker   ticker
	stopOnce sync.Once
	done     chan struct{}
	state    atomic.Int32
	ticks    atomic.Int64

	// set before done is closed
	element string
	err     error
}

func newPollHandle(t ticker) *pollHandle {
	return &pollHandle{ticker: t, done: make(chan struct{})}
}

// start begins polling on a new goroutine and returns the handle owning the
// ticker. It must be called once, after the page content has loaded.
func (p *poller) start(ctx context.Context) *pollHandle {
	if !p.started.CompareAndSwap(false, true) {
		panic("poller: start called twice")
	}

	h := newPollHandle(p.newTicker(p.period))
	go p.run(ctx, h)

	return h
}

func (p *poller) run(ctx context.Context, h *pollHandle) {
	defer close(h.done)
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			h.err = ctx.Err()
			return
		case <-h.ticker.C():
			if p.tick(ctx, h) {
				return
			}
		}
	}
}

// tick performs a single lookup and reports whether the poller is done.
// run never calls it again once it has returned true.
func (p *poller) tick(ctx context.Context, h *pollHandle) bool {
	n := h.ticks.Add(1) - 1

	el, err := p.doc.findByID(ctx, p.id)
	if err != nil {
		// a failed lookup is the same as an absent element
		p.log.WithError(err).WithField("tick", n).Debug("Lookup failed, still waiting")
		return false
	}
	if el == nil {
		return false
	}

	desc := describe(ctx, el)
	p.log.WithFields(logrus.Fields{
		"tick":    n,
		"element": desc,
	}).Info("Target element found, triggering click...")

	err = el.activate(ctx)
	if err != nil {
		p.log.WithError(err).Warn("Click failed")
	}

	h.element = desc
	h.err = err
	h.state.Store(int32(stateDone))
	h.stop()

	return true
}

func (h *pollHandle) stop() {
	h.stopOnce.Do(h.ticker.Stop)
}

// Done is closed once the poller has stopped for good
func (h *pollHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the poller stops and returns the click error, or the
// context error if polling was cancelled before the element showed up
func (h *pollHandle) Wait() error {
	<-h.done
	return h.err
}

func (h *pollHandle) State() pollState {
	return pollState(h.state.Load())
}

// Ticks returns how many ticks have been handled so far
func (h *pollHandle) Ticks() int64 {
	return h.ticks.Load()
}

// Element returns the description of the clicked element, if any
func (h *pollHandle) Element() string {
	<-h.done
	return h.element
}
