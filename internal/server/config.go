// Package server holds the ephemeral credentials of the local backend: the
// loopback port it will listen on and the bearer token clients must present.
package server

import (
	"fmt"
	"log"
	"strconv"
	"sync"
)

// Environment variable names the backend process reads its credentials from.
const (
	EnvPort  = "API_PORT"
	EnvToken = "API_SECRET_TOKEN"
)

// Config is the value handed to the front end verbatim.
type Config struct {
	Port  uint16 `json:"port"`
	Token string `json:"token"`
}

// Env returns the credentials as KEY=value pairs for a child process.
func (c Config) Env() []string {
	return []string{
		EnvPort + "=" + strconv.Itoa(int(c.Port)),
		EnvToken + "=" + c.Token,
	}
}

// BaseURL is the address the backend is expected to serve on.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", c.Port)
}

// AuthorizationHeader is the header value clients send to the backend.
func (c Config) AuthorizationHeader() string {
	return "Bearer " + c.Token
}

func (c Config) valid() bool {
	return c.Port != 0 && ValidToken(c.Token)
}

// Shared is the process-wide Config. It is built once at startup and never
// mutated afterwards; the lock only makes concurrent copies safe.
type Shared struct {
	mu  sync.RWMutex
	cfg Config
}

func NewShared(cfg Config) *Shared {
	return &Shared{cfg: cfg}
}

// Get returns a copy of the config. A value that no longer has the shape
// Bootstrap produced means memory was corrupted; serving it would hand the
// front end broken credentials, so Get panics instead.
func (s *Shared) Get() Config {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	if !cfg.valid() {
		panic(fmt.Sprintf("server: shared config is corrupt (port=%d, token length=%d)", cfg.Port, len(cfg.Token)))
	}
	return cfg
}

// Bootstrap allocates a port, mints a token and logs both once.
func Bootstrap() (*Shared, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	port, err := AllocatePort()
	if err != nil {
		return nil, err
	}

	log.Printf("server config created -> port: %d, token: %s", port, token)

	return NewShared(Config{Port: port, Token: token}), nil
}
