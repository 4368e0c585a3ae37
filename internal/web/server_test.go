package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/nmea"
	"navigator/internal/store"
)

// countingSource returns a snapshot whose InView counts the calls
type countingSource struct {
	calls atomic.Int32
}

func (c *countingSource) Snapshot() store.Snapshot {
	n := c.calls.Add(1)
	return store.Snapshot{
		Location: store.Location{
			Latitude:  49.25,
			Longitude: -123.5,
			Status:    nmea.DataValid,
			Fix:       nmea.Fix2D,
		},
		Satellites: store.Satellites{InView: uint16(n)},
	}
}

func newTestServer(t *testing.T, interval time.Duration) (*Server, *httptest.Server) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewServer("127.0.0.1:0", &countingSource{}, interval, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestServer_Snapshot(t *testing.T) {
	_, ts := newTestServer(t, time.Second)

	resp, err := http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body struct {
		Location struct {
			Latitude float64 `json:"latitude"`
			Status   string  `json:"status"`
			Fix      string  `json:"fix"`
		} `json:"location"`
		Satellites struct {
			InView int `json:"in_view"`
		} `json:"satellites"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.InDelta(t, 49.25, body.Location.Latitude, 1e-6)
	assert.Equal(t, "DataValid", body.Location.Status)
	assert.Equal(t, "Fix2D", body.Location.Fix)
	assert.Equal(t, 1, body.Satellites.InView)
}

func TestServer_SnapshotMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, time.Second)

	resp, err := http.Post(ts.URL+"/api/snapshot", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type streamed struct {
	Location struct {
		Fix string `json:"fix"`
	} `json:"location"`
	Satellites struct {
		InView int `json:"in_view"`
	} `json:"satellites"`
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestServer_StreamSendsPeriodicSnapshots(t *testing.T) {
	_, ts := newTestServer(t, 10*time.Millisecond)
	conn := dial(t, ts)
	defer conn.Close()

	var last int
	for i := 0; i < 3; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var snap streamed
		require.NoError(t, conn.ReadJSON(&snap))
		assert.Greater(t, snap.Satellites.InView, last)
		last = snap.Satellites.InView
	}
}

func TestServer_ShutdownClosesStreams(t *testing.T) {
	s, ts := newTestServer(t, time.Hour)
	conn := dial(t, ts)
	defer conn.Close()

	// First snapshot is sent right away
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap streamed
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "Fix2D", snap.Location.Fix)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestServer_StreamRefusedAfterShutdown(t *testing.T) {
	s, ts := newTestServer(t, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	// A second shutdown is harmless
	require.NoError(t, s.Shutdown(ctx))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_ConcurrentStreamsAndShutdown(t *testing.T) {
	s, ts := newTestServer(t, 5*time.Millisecond)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				// Refused once shutdown started
				return
			}
			defer conn.Close()
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	wg.Wait()
}
