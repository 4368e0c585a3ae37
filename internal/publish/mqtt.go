package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"navigator/internal/store"
)

const publishTimeout = 5 * time.Second

// Client is the part of mqtt.Client the publisher needs
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// SnapshotSource is read on every publish tick
type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// Connect opens a connection to broker, e.g. "tcp://localhost:1883"
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(publishTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", broker, token.Error())
	}
	return client, nil
}

// Publisher sends retained JSON snapshots to <prefix>/location and
// <prefix>/satellites
type Publisher struct {
	client Client
	prefix string
	logger logrus.FieldLogger
}

// NewPublisher creates a publisher on an already connected client
func NewPublisher(client Client, prefix string, logger logrus.FieldLogger) *Publisher {
	return &Publisher{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// LocationTopic is where Location snapshots are published
func (p *Publisher) LocationTopic() string {
	return p.prefix + "/location"
}

// SatellitesTopic is where Satellites snapshots are published
func (p *Publisher) SatellitesTopic() string {
	return p.prefix + "/satellites"
}

// Publish sends both aggregates of snap
func (p *Publisher) Publish(snap store.Snapshot) error {
	if err := p.send(p.LocationTopic(), snap.Location); err != nil {
		return err
	}
	return p.send(p.SatellitesTopic(), snap.Satellites)
}

func (p *Publisher) send(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", topic, err)
	}
	token := p.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Run publishes src every interval until ctx is done. A tick is skipped
// when the store has not changed since the last publish.
func (p *Publisher) Run(ctx context.Context, src SnapshotSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := src.Snapshot()
			if snap.Updated.IsZero() || snap.Updated.Equal(last) {
				continue
			}
			if err := p.Publish(snap); err != nil {
				p.logger.WithError(err).Warn("Failed to publish snapshot")
				continue
			}
			last = snap.Updated
		}
	}
}
