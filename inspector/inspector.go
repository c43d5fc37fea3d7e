// Package inspector is an optional diagnostics server: it streams LogEvents
// from a running compile over a websocket so a browser tab can watch
// warnings/debug output live. It never touches compile traffic itself — it
// only ever reads from a channel of already-decoded LogEvents the caller
// hands it (spec.md §1 Non-goals: "non-protocol concerns... this package
// must never see CompileRequest/CompileResponse traffic").
//
// Grounded on the teacher's websockets go.mod, which lists gin and
// gorilla/websocket for a demo whose source file was not present in the
// retrieved copy, plus tableflip (tbflip's go.mod) and
// go-systemd/activation (imported by systemd-socket-activation/main.go);
// this package gives those four dependencies a real, exercised home
// rather than dropping them. Listener lifecycle (tableflip upgrade, systemd
// socket-activation fallback) and the colored phase logging are adapted
// from graceful_restarts/tbflip/main.go and
// graceful_restarts/systemd-socket-activation/main.go.
package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cloudflare/tableflip"
	"github.com/coreos/go-systemd/activation"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"embeddedsass/internal/wire"
)

var colorCode = "\033[36m"

func logf(format string, args ...interface{}) {
	log.Printf(colorCode+format+"\033[0m", args...)
}

func logPhase(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf(colorCode + "==================== " + msg + " ====================\033[0m")
}

// Event is the JSON shape broadcast to connected clients.
type Event struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Formatted string `json:"formatted"`
}

// Server fans LogEvents out to connected websocket clients.
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New returns a Server with no clients connected yet.
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Watch consumes events until the channel closes, broadcasting each to
// every connected client. Run it in its own goroutine per compile.
func (s *Server) Watch(events <-chan *wire.LogEvent) {
	for ev := range events {
		s.broadcast(eventFromLogEvent(ev))
	}
}

func eventFromLogEvent(ev *wire.LogEvent) Event {
	kind := "warning"
	switch ev.Type {
	case wire.LogEventDeprecationWarning:
		kind = "deprecation"
	case wire.LogEventDebug:
		kind = "debug"
	}
	return Event{Type: kind, Message: ev.Message, Formatted: ev.Formatted}
}

func (s *Server) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logf("websocket upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// Drain and discard incoming frames until the client disconnects; this
	// endpoint is push-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/logs", s.handleWS)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

// ListenAndServe runs the diagnostics HTTP server on addr, supporting
// zero-downtime restarts via SIGHUP (tableflip). Only when tableflip fails
// to provide a listener for addr does it fall back to systemd socket
// activation, and then to binding addr itself.
func (s *Server) ListenAndServe(addr string) error {
	upg, err := tableflip.New(tableflip.Options{})
	if err != nil {
		return fmt.Errorf("inspector: tableflip.New: %w", err)
	}
	defer upg.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP)
		for range sig {
			logPhase("received SIGHUP, upgrading inspector listener")
			if err := upg.Upgrade(); err != nil {
				logf("upgrade failed: %v", err)
			}
		}
	}()

	ln, err := s.listener(upg, addr)
	if err != nil {
		return err
	}
	logPhase("inspector listening on %s", ln.Addr())

	srv := &http.Server{Handler: s.router()}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logf("serve error: %v", err)
		}
	}()

	if err := upg.Ready(); err != nil {
		return fmt.Errorf("inspector: upg.Ready: %w", err)
	}
	<-upg.Exit()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// listener prefers a tableflip-managed listener (so SIGHUP upgrades work),
// falls back to a systemd-activated socket, and finally binds addr
// directly.
func (s *Server) listener(upg *tableflip.Upgrader, addr string) (net.Listener, error) {
	if ln, err := upg.Listen("tcp", addr); err == nil {
		return ln, nil
	}

	listeners, err := activation.Listeners()
	if err == nil && len(listeners) > 0 && listeners[0] != nil {
		logf("using systemd-activated listener")
		return listeners[0], nil
	}

	return net.Listen("tcp", addr)
}
