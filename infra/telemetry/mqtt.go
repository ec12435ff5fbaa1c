package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/pitwall/infra/logger"
)

// MQTTConfig describes the live telemetry feed.
type MQTTConfig struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

// SetDefaults applies sane defaults.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "pitwall-" + uuid.NewString()[:8]
	}
	if c.Topic == "" {
		c.Topic = "pitwall/telemetry/laps"
	}
}

// Validate checks mandatory fields.
func (c MQTTConfig) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// MQTTSource receives JSON lap samples pushed on an MQTT topic.
type MQTTSource struct {
	cli     paho.Client
	topic   string
	samples chan LapSample
	log     logger.Logger

	// mu orders in-flight handler deliveries against Close: paho may still
	// invoke the handler during the disconnect grace window.
	mu     sync.Mutex
	closed bool
}

// NewMQTTSource connects to the broker and subscribes to the lap topic.
func NewMQTTSource(cfg MQTTConfig) (*MQTTSource, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &MQTTSource{
		topic:   cfg.Topic,
		samples: make(chan LapSample, 16),
		log:     logger.New("mqtt-telemetry"),
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	s.cli = paho.NewClient(opts)
	if tok := s.cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	if tok := s.cli.Subscribe(cfg.Topic, 1, s.handle); tok.Wait() && tok.Error() != nil {
		s.cli.Disconnect(250)
		return nil, fmt.Errorf("mqtt subscribe: %w", tok.Error())
	}
	return s, nil
}

func (s *MQTTSource) handle(_ paho.Client, msg paho.Message) {
	sample, err := decodeSample(msg.Payload())
	if err != nil {
		s.log.Warnf("drop malformed lap sample: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.samples <- sample:
	default:
		s.log.Warnf("telemetry buffer full, dropping lap %d", sample.Lap)
	}
}

func decodeSample(payload []byte) (LapSample, error) {
	var sample LapSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return sample, err
	}
	if sample.Lap < 1 {
		return sample, fmt.Errorf("lap %d out of range", sample.Lap)
	}
	return sample, nil
}

// Samples exposes the decoded lap stream.
func (s *MQTTSource) Samples() <-chan LapSample {
	return s.samples
}

// Close unsubscribes, disconnects and closes the sample channel.
func (s *MQTTSource) Close() {
	if tok := s.cli.Unsubscribe(s.topic); tok.Wait() && tok.Error() != nil {
		s.log.Warnf("mqtt unsubscribe: %v", tok.Error())
	}
	s.cli.Disconnect(250)
	s.closeSamples()
}

func (s *MQTTSource) closeSamples() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.samples)
}
