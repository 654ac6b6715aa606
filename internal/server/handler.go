package server

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bstardust/threadpool-server/internal/accesslog"
	"github.com/bstardust/threadpool-server/internal/logger"
	"github.com/bstardust/threadpool-server/internal/stats"
)

const (
	pageHello    = "hello.html"
	pageNotFound = "404.html"
)

// Handler answers a single connection: it reads the request line, maps it to
// a canned page, and writes a minimal HTTP/1.1 response. It runs entirely on
// a pool worker.
type Handler struct {
	docRoot    string
	sleepDelay time.Duration
	reporter   *stats.Reporter
	journal    *accesslog.Journal
}

// NewHandler creates a connection handler serving files from docRoot.
func NewHandler(docRoot string, sleepDelay time.Duration, reporter *stats.Reporter, journal *accesslog.Journal) *Handler {
	return &Handler{
		docRoot:    docRoot,
		sleepDelay: sleepDelay,
		reporter:   reporter,
		journal:    journal,
	}
}

// Handle processes one connection to completion and closes it.
func (h *Handler) Handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	requestLine, err := reader.ReadString('\n')
	if err != nil {
		logger.Warn("Failed to read request line from %s: %v", conn.RemoteAddr(), err)
		h.reporter.Error()
		return
	}
	requestLine = strings.TrimRight(requestLine, "\r\n")

	status, page := h.route(requestLine)

	body, err := os.ReadFile(filepath.Join(h.docRoot, page))
	if err != nil {
		logger.Error("Failed to read %s: %v", page, err)
		h.reporter.Error()
		h.writeResponse(conn, 500, []byte("Internal Server Error"))
		h.journal.Record(requestLine, 500, remoteAddr(conn))
		return
	}

	if err := h.writeResponse(conn, status, body); err != nil {
		logger.Warn("Failed to write response to %s: %v", conn.RemoteAddr(), err)
		h.reporter.Error()
		return
	}

	switch status {
	case 200:
		h.reporter.Served()
	case 404:
		h.reporter.NotFound()
	}
	h.journal.Record(requestLine, status, remoteAddr(conn))
}

// route maps a raw request line to a response status and page. The sleep
// route blocks its worker on purpose; that is the demonstration the endpoint
// exists for.
func (h *Handler) route(requestLine string) (status int, page string) {
	switch requestLine {
	case "GET / HTTP/1.1":
		return 200, pageHello
	case "GET /sleep HTTP/1.1":
		time.Sleep(h.sleepDelay)
		return 200, pageHello
	default:
		return 404, pageNotFound
	}
}

func (h *Handler) writeResponse(conn net.Conn, status int, body []byte) error {
	_, err := fmt.Fprintf(conn, "HTTP/1.1 %s\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\n\r\n%s",
		statusText(status), len(body), body)
	return err
}

func statusText(status int) string {
	switch status {
	case 200:
		return "200 OK"
	case 404:
		return "404 Not Found"
	default:
		return "500 Internal Server Error"
	}
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
