package events

import (
	"errors"
	"testing"
)

type recordingSink struct {
	events []Event
	err    error
}

func (r *recordingSink) Emit(channel string, payload any) error {
	r.events = append(r.events, Event{Channel: channel, Payload: payload})
	return r.err
}

func TestPublishWithoutSubscribersIsSilent(t *testing.T) {
	b := NewBus()
	if err := b.Publish(ChannelMenu, "refresh"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestPublishReachesSubscriberAndSink(t *testing.T) {
	b := NewBus()
	sink := &recordingSink{}
	b.SetSink(sink)

	ch, cancel := b.Subscribe(ChannelMenu)
	defer cancel()
	other, cancelOther := b.Subscribe(ChannelLogLine)
	defer cancelOther()

	if err := b.Publish(ChannelMenu, "toggle_logs"); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-ch:
		if e.Channel != ChannelMenu || e.Payload != "toggle_logs" {
			t.Fatalf("unexpected event %+v", e)
		}
	default:
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case e := <-other:
		t.Fatalf("subscriber on another channel received %+v", e)
	default:
	}

	if len(sink.events) != 1 || sink.events[0].Payload != "toggle_logs" {
		t.Fatalf("sink saw %+v", sink.events)
	}
}

func TestPublishReturnsSinkError(t *testing.T) {
	b := NewBus()
	b.SetSink(&recordingSink{err: ErrNoTransport})

	if err := b.Publish(ChannelMenu, "refresh"); !errors.Is(err, ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBus()
	_, cancel := b.Subscribe(ChannelLogLine)
	defer cancel()

	for i := 0; i < subscriberCap*3; i++ {
		if err := b.Publish(ChannelLogLine, i); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCancelClosesChannelOnce(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(ChannelMenu)
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if err := b.Publish(ChannelMenu, "refresh"); err != nil {
		t.Fatal(err)
	}
}
