package server

import (
	"fmt"
	"net"
)

// loopbackAny asks the OS for any free port on the loopback interface.
const loopbackAny = "127.0.0.1:0"

// AllocatePort binds an ephemeral loopback listener, reads back the port the
// OS assigned and releases it again so the real server can bind it later.
// There is no retry: failing to bind port 0 means the environment is broken.
func AllocatePort() (uint16, error) {
	l, err := net.Listen("tcp", loopbackAny)
	if err != nil {
		return 0, fmt.Errorf("allocate port: %w", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("release port %d: %w", port, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("allocate port: os returned invalid port %d", port)
	}
	return uint16(port), nil
}
