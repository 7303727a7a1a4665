// Package sidecar runs the local backend process and hands it the server
// credentials through its environment.
package sidecar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petervdpas/personalcloud/internal/events"
	"github.com/petervdpas/personalcloud/internal/server"
)

// ErrAlreadyRunning is returned by Start while a previous run is still alive.
var ErrAlreadyRunning = errors.New("sidecar: already running")

// waitDelay bounds how long a run is waited on for its output pipes once
// the process itself has exited or been killed.
const waitDelay = 2 * time.Second

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateReady   State = "ready"
	StateExited  State = "exited"
)

type Options struct {
	Command     string
	Args        []string
	Dir         string
	ReadyMarker string
}

type Publisher interface {
	Publish(channel string, payload any) error
}

// ReadyEvent is published on events.ChannelSidecarReady.
type ReadyEvent struct {
	RunID string `json:"run_id"`
	Port  uint16 `json:"port"`
}

// ExitEvent is published on events.ChannelSidecarExit.
type ExitEvent struct {
	RunID string `json:"run_id"`
	Error string `json:"error,omitempty"`
}

type Supervisor struct {
	opt Options
	pub Publisher

	mu     sync.Mutex
	state  State
	runID  string
	cancel context.CancelFunc
	done   chan struct{}
}

func New(opt Options, pub Publisher) *Supervisor {
	return &Supervisor{opt: opt, pub: pub, state: StateIdle}
}

// Enabled reports whether a backend command is configured.
func (s *Supervisor) Enabled() bool {
	return strings.TrimSpace(s.opt.Command) != ""
}

// Start launches the backend with creds in its environment. It returns once
// the process has been spawned; readiness is announced asynchronously.
func (s *Supervisor) Start(ctx context.Context, creds server.Config) error {
	if !s.Enabled() {
		log.Println("SIDECAR: no command configured, skipping")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning || s.state == StateReady {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, s.opt.Command, s.opt.Args...)
	cmd.Dir = s.opt.Dir
	cmd.Env = append(os.Environ(), creds.Env()...)
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	// exec copies into these writers from its own goroutines, which Wait
	// abandons after WaitDelay even if a grandchild still holds the pipes.
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		cancel()
		stdoutW.Close()
		stderrW.Close()
		return fmt.Errorf("start sidecar %s: %w", s.opt.Command, err)
	}

	runID := uuid.NewString()
	done := make(chan struct{})
	s.state = StateRunning
	s.runID = runID
	s.cancel = cancel
	s.done = done

	log.Printf("SIDECAR: started %s pid=%d run=%s port=%d", s.opt.Command, cmd.Process.Pid, runID, creds.Port)

	var ready sync.Once
	markReady := func() {
		ready.Do(func() {
			s.setState(runID, StateReady)
			log.Printf("SIDECAR: ready (run=%s)", runID)
			s.publish(events.ChannelSidecarReady, ReadyEvent{RunID: runID, Port: creds.Port})
		})
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go s.scan(&readers, stdoutR, "[OUT]", markReady)
	go s.scan(&readers, stderrR, "[ERR]", markReady)

	go func() {
		defer close(done)
		defer cancel()

		werr := cmd.Wait()
		// Leftover children of the run share its process group.
		killProcessGroup(cmd)
		stdoutW.Close()
		stderrW.Close()
		readers.Wait()

		s.setState(runID, StateExited)
		ev := ExitEvent{RunID: runID}
		if werr != nil {
			ev.Error = werr.Error()
			log.Printf("SIDECAR: exited (run=%s): %v", runID, werr)
		} else {
			log.Printf("SIDECAR: exited (run=%s)", runID)
		}
		s.publish(events.ChannelSidecarExit, ev)
	}()

	return nil
}

func (s *Supervisor) scan(wg *sync.WaitGroup, r *io.PipeReader, prefix string, onReady func()) {
	defer wg.Done()
	// Keep draining after a scan error so exec's copy never blocks on us.
	defer io.Copy(io.Discard, r)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		log.Printf("%s %s", prefix, line)
		if s.opt.ReadyMarker != "" && strings.Contains(line, s.opt.ReadyMarker) {
			onReady()
		}
	}
}

func (s *Supervisor) setState(runID string, st State) {
	s.mu.Lock()
	if s.runID == runID {
		s.state = st
	}
	s.mu.Unlock()
}

func (s *Supervisor) publish(channel string, payload any) {
	if err := s.pub.Publish(channel, payload); err != nil {
		log.Printf("SIDECAR: emit %s: %v", channel, err)
	}
}

// Stop kills the current run, if any, and waits for it to be reaped.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the current run exits or ctx is done.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}
