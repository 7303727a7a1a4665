// Package logbuf keeps the recent process log in memory for the front end's
// system log panel.
package logbuf

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/petervdpas/personalcloud/internal/util"
)

// DefaultSize is used when a non-positive capacity is requested.
const DefaultSize = 500

type Entry struct {
	TS  time.Time `json:"ts"`
	Msg string    `json:"msg"`
}

// Buffer is an io.Writer suitable for log.SetOutput. Writes are split into
// lines; each non-blank line becomes one Entry.
type Buffer struct {
	mu      sync.Mutex
	entries *util.RingBuffer[Entry]
	subs    map[chan Entry]struct{}
	partial bytes.Buffer
}

func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{
		entries: util.NewRingBuffer[Entry](size),
		subs:    make(map[chan Entry]struct{}),
	}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.partial.Write(p)
	for {
		data := b.partial.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i == -1 {
			break
		}
		line := strings.TrimRight(string(data[:i]), "\r")
		b.partial.Next(i + 1)

		if strings.TrimSpace(line) == "" {
			continue
		}
		e := Entry{TS: time.Now(), Msg: line}
		b.entries.Push(e)
		for ch := range b.subs {
			select {
			case ch <- e:
			default:
			}
		}
	}
	return len(p), nil
}

// Snapshot returns the buffered entries oldest first.
func (b *Buffer) Snapshot() []Entry {
	return b.entries.Snapshot()
}

// Subscribe tails new entries. Entries are dropped for a subscriber that
// falls more than 64 behind.
func (b *Buffer) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Forward calls emit for every new entry until ctx is done. emit must not
// write to the log itself, or it would feed its own input.
func (b *Buffer) Forward(ctx context.Context, emit func(Entry)) {
	ch, cancel := b.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			emit(e)
		}
	}
}
