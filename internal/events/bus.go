// Package events carries fire-and-forget signals from the native process to
// the embedded front end.
package events

import (
	"errors"
	"sync"
)

// Channel names shared with the front end. Keep frontend/dist/index.html in sync.
const (
	ChannelMenu         = "menu-event"
	ChannelSplashClose  = "splashscreen:close"
	ChannelMainShow     = "main:show"
	ChannelLogLine      = "log:line"
	ChannelSidecarReady = "sidecar:ready"
	ChannelSidecarExit  = "sidecar:exit"
	ChannelConfig       = "config:changed"
)

// subscriberCap bounds the per-subscriber backlog; beyond it events are dropped.
const subscriberCap = 32

// ErrNoTransport is returned by a Sink when there is nothing to deliver to
// (the window runtime has not started yet or has already shut down).
var ErrNoTransport = errors.New("events: transport not available")

type Event struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload"`
}

// Sink forwards an event out of the process, typically to the webview.
type Sink interface {
	Emit(channel string, payload any) error
}

// Bus fans events out to in-process subscribers and to an optional Sink.
// Having no subscribers at all is a normal outcome.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
	sink Sink
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

// SetSink installs the outbound transport. A nil sink disables forwarding.
func (b *Bus) SetSink(s Sink) {
	b.mu.Lock()
	b.sink = s
	b.mu.Unlock()
}

// Publish never blocks on a subscriber. The only error it reports is the
// Sink's; in-process delivery cannot fail.
func (b *Bus) Publish(channel string, payload any) error {
	e := Event{Channel: channel, Payload: payload}

	b.mu.RLock()
	for ch := range b.subs[channel] {
		select {
		case ch <- e:
		default:
			// slow subscriber, drop
		}
	}
	sink := b.sink
	b.mu.RUnlock()

	if sink == nil {
		return nil
	}
	return sink.Emit(channel, payload)
}

// Subscribe returns a buffered channel receiving every event published on
// channel until cancel is called. cancel is safe to call more than once.
func (b *Bus) Subscribe(channel string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberCap)

	b.mu.Lock()
	set, ok := b.subs[channel]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[channel] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[channel]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, channel)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}
