package logbuf

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"
)

func messages(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Msg
	}
	return out
}

func TestWriteSplitsLines(t *testing.T) {
	b := New(10)

	fmt.Fprint(b, "first\nsec")
	fmt.Fprint(b, "ond\r\n\n   \nthird\n")
	fmt.Fprint(b, "pending")

	got := messages(b.Snapshot())
	want := []string{"first", "second", "third"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSnapshotKeepsNewest(t *testing.T) {
	b := New(3)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	got := messages(b.Snapshot())
	want := []string{"line 3", "line 4", "line 5"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewDefaultsSize(t *testing.T) {
	b := New(0)
	if b.entries.Cap() != DefaultSize {
		t.Fatalf("expected capacity %d, got %d", DefaultSize, b.entries.Cap())
	}
}

func TestSubscribeReceivesNewLines(t *testing.T) {
	b := New(10)
	fmt.Fprintln(b, "before")

	ch, cancel := b.Subscribe()
	defer cancel()

	fmt.Fprintln(b, "after")

	select {
	case e := <-ch:
		if e.Msg != "after" {
			t.Fatalf("expected tail-only delivery, got %q", e.Msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no entry received")
	}
}

func TestForwardStopsOnCancel(t *testing.T) {
	b := New(10)
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan string, 4)
	done := make(chan struct{})
	go func() {
		b.Forward(ctx, func(e Entry) { got <- e.Msg })
		close(done)
	}()

	// Wait until Forward has subscribed.
	deadline := time.Now().Add(time.Second)
	for {
		b.mu.Lock()
		n := len(b.subs)
		b.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Forward never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	logger := log.New(b, "", 0)
	logger.Println("hello")

	select {
	case msg := <-got:
		if msg != "hello" {
			t.Fatalf("got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("entry not forwarded")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Forward did not return after cancel")
	}
}
