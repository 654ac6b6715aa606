package server

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bstardust/threadpool-server/internal/accesslog"
	"github.com/bstardust/threadpool-server/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocRoot(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, pageHello), []byte("<h1>Hello!</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pageNotFound), []byte("<h1>Oops!</h1>"), 0644))
	return dir
}

// exchange runs the handler against one end of a pipe and returns everything
// it wrote for the given request line.
func exchange(t *testing.T, h *Handler, requestLine string) string {
	t.Helper()

	client, srv := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Handle(srv)
	}()

	_, err := client.Write([]byte(requestLine + "\r\n\r\n"))
	require.NoError(t, err)

	resp, err := io.ReadAll(client)
	require.NoError(t, err)
	client.Close()
	<-done

	return string(resp)
}

func TestHandlerServesRoot(t *testing.T) {
	reporter := stats.New()
	reporter.Start()
	h := NewHandler(testDocRoot(t), 0, reporter, accesslog.New(""))

	resp := exchange(t, h, "GET / HTTP/1.1")

	assert.Contains(t, resp, "HTTP/1.1 200 OK")
	assert.Contains(t, resp, "Content-Length: 15")
	assert.Contains(t, resp, "<h1>Hello!</h1>")

	served, notFound, errs := reporter.Totals()
	assert.Equal(t, 1, served)
	assert.Equal(t, 0, notFound)
	assert.Equal(t, 0, errs)
}

func TestHandlerAnswersUnknownPathWith404(t *testing.T) {
	reporter := stats.New()
	reporter.Start()
	h := NewHandler(testDocRoot(t), 0, reporter, accesslog.New(""))

	resp := exchange(t, h, "GET /missing HTTP/1.1")

	assert.Contains(t, resp, "HTTP/1.1 404 Not Found")
	assert.Contains(t, resp, "<h1>Oops!</h1>")

	_, notFound, _ := reporter.Totals()
	assert.Equal(t, 1, notFound)
}

func TestHandlerSleepRouteDelays(t *testing.T) {
	reporter := stats.New()
	reporter.Start()
	h := NewHandler(testDocRoot(t), 30*time.Millisecond, reporter, accesslog.New(""))

	start := time.Now()
	resp := exchange(t, h, "GET /sleep HTTP/1.1")
	elapsed := time.Since(start)

	assert.Contains(t, resp, "HTTP/1.1 200 OK")
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestHandlerRecordsAccessLog(t *testing.T) {
	journal := accesslog.New(filepath.Join(t.TempDir(), "access.json"))
	reporter := stats.New()
	reporter.Start()
	h := NewHandler(testDocRoot(t), 0, reporter, journal)

	exchange(t, h, "GET / HTTP/1.1")
	exchange(t, h, "GET /nope HTTP/1.1")

	assert.Equal(t, 2, journal.Len())
	assert.Equal(t, 1, journal.CountStatus(200))
	assert.Equal(t, 1, journal.CountStatus(404))
}

func TestHandlerMissingPageIs500(t *testing.T) {
	reporter := stats.New()
	reporter.Start()
	// Empty doc root: no hello.html to serve.
	h := NewHandler(t.TempDir(), 0, reporter, accesslog.New(""))

	resp := exchange(t, h, "GET / HTTP/1.1")

	assert.Contains(t, resp, "HTTP/1.1 500 Internal Server Error")

	_, _, errs := reporter.Totals()
	assert.Equal(t, 1, errs)
}
