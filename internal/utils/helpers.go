package utils

import (
	"errors"
	"net"
	"strconv"
	"strings"
)

// ValidateListenAddr checks that the provided address is a usable host:port
// pair for a TCP listener.
func ValidateListenAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("listen address is empty")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("listen address must be in host:port form")
	}
	if strings.Contains(host, " ") {
		return errors.New("listen address cannot contain spaces")
	}
	if !isValidPort(port) {
		return errors.New("listen address port must be between 0 and 65535")
	}
	return nil
}

// isValidPort checks the port component. Port 0 is allowed so the OS can pick
// an ephemeral port.
func isValidPort(port string) bool {
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 0 && n <= 65535
}
