package publish

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/internal/nmea"
	"navigator/internal/store"
)

// fakeToken is an already completed token
type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) messages() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.msgs...)
}

type staticSource struct {
	snap store.Snapshot
}

func (s staticSource) Snapshot() store.Snapshot { return s.snap }

func testSnapshot() store.Snapshot {
	snr := uint8(42)
	return store.Snapshot{
		Location: store.Location{
			Latitude:  49.5,
			Longitude: -123.25,
			Status:    nmea.DataValid,
			Fix:       nmea.Fix3D,
			HDOP:      1.5,
		},
		Satellites: store.Satellites{
			InView:     1,
			Satellites: []nmea.Satellite{{ID: 7, SNR: &snr}},
			SNRHistory: []float32{42},
		},
		Updated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	logger, _ := test.NewNullLogger()
	p := NewPublisher(client, "boat", logger)

	require.NoError(t, p.Publish(testSnapshot()))

	msgs := client.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "boat/location", msgs[0].topic)
	assert.Equal(t, "boat/satellites", msgs[1].topic)
	assert.True(t, msgs[0].retained)

	var loc map[string]interface{}
	require.NoError(t, json.Unmarshal(msgs[0].payload, &loc))
	assert.InDelta(t, 49.5, loc["latitude"], 1e-6)
	assert.Equal(t, "DataValid", loc["status"])
	assert.Equal(t, "Fix3D", loc["fix"])

	var sats store.Satellites
	require.NoError(t, json.Unmarshal(msgs[1].payload, &sats))
	assert.Equal(t, uint16(1), sats.InView)
	require.Len(t, sats.Satellites, 1)
	assert.Equal(t, uint8(42), *sats.Satellites[0].SNR)
}

func TestPublisher_PublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	logger, _ := test.NewNullLogger()
	p := NewPublisher(client, "boat", logger)

	err := p.Publish(testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boat/location")
	assert.Len(t, client.messages(), 1)
}

func TestPublisher_RunSkipsUnchanged(t *testing.T) {
	client := &fakeClient{}
	logger, _ := test.NewNullLogger()
	p := NewPublisher(client, "boat", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, staticSource{snap: testSnapshot()}, 10*time.Millisecond)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	// The snapshot never changed, so it went out exactly once
	assert.Len(t, client.messages(), 2)
}

func TestPublisher_RunSkipsEmptyStore(t *testing.T) {
	client := &fakeClient{}
	logger, _ := test.NewNullLogger()
	p := NewPublisher(client, "boat", logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p.Run(ctx, staticSource{}, 10*time.Millisecond)

	assert.Empty(t, client.messages())
}
