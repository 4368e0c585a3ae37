package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"navigator/internal/store"
)

const writeTimeout = 5 * time.Second

// SnapshotSource is read on every request and stream tick
type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// Server exposes the store over HTTP:
//
//	GET /api/snapshot  current snapshot as JSON
//	GET /ws            websocket streaming a snapshot every interval
type Server struct {
	source   SnapshotSource
	interval time.Duration
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader
	server   *http.Server

	// mu orders stream registration against Shutdown
	mu       sync.Mutex
	done     chan struct{}
	stopping bool
	streams  sync.WaitGroup
}

// NewServer creates a server listening on addr once started
func NewServer(addr string, source SnapshotSource, interval time.Duration, logger logrus.FieldLogger) *Server {
	s := &Server{
		source:   source,
		interval: interval,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		done: make(chan struct{}),
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleStream)
	return mux
}

// ListenAndServe blocks until the server is shut down
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.server.Addr).Info("Web server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and ends open streams
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopping {
		s.stopping = true
		close(s.done)
	}
	s.mu.Unlock()

	err := s.server.Shutdown(ctx)
	s.streams.Wait()
	return err
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		s.logger.WithError(err).Warn("Failed to encode snapshot")
	}
}

// register counts a new stream unless Shutdown has begun
func (s *Server) register() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return false
	}
	s.streams.Add(1)
	return true
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if !s.register() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.streams.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.logger.WithField("remote", r.RemoteAddr)
	log.Debug("Websocket client connected")

	// Reads are only drained to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("Websocket read failed")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(s.source.Snapshot()); err != nil {
			log.WithError(err).Debug("Websocket write failed")
			return
		}

		select {
		case <-ticker.C:
		case <-closed:
			log.Debug("Websocket client disconnected")
			return
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}
