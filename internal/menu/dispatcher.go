package menu

import (
	"log"
	"sync/atomic"

	"github.com/petervdpas/personalcloud/internal/events"
)

// Publisher is the outbound side of the event bus.
type Publisher interface {
	Publish(channel string, payload any) error
}

type Dispatcher struct {
	pub      Publisher
	quit     func()
	quitting atomic.Bool
}

// NewDispatcher wires menu clicks to pub. quit must terminate the process
// with a zero exit status.
func NewDispatcher(pub Publisher, quit func()) *Dispatcher {
	return &Dispatcher{pub: pub, quit: quit}
}

// Dispatch handles one click. It never fails: unknown ids are logged, and a
// signal the front end cannot receive is only a lost UI hint.
func (d *Dispatcher) Dispatch(id string) {
	if d.quitting.Load() {
		return
	}

	a := ParseAction(id)
	switch a {
	case ActionNone:
		log.Printf("MENU: unrecognized menu id %q", id)

	case ActionQuit:
		if d.quitting.CompareAndSwap(false, true) {
			log.Println("MENU: quit requested")
			d.quit()
		}

	default:
		sig, _ := a.Signal()
		if err := d.pub.Publish(events.ChannelMenu, sig); err != nil {
			log.Printf("MENU: emit %s: %v", sig, err)
		}
	}
}
