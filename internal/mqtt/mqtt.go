package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"floodalert/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var ErrNotConnected = errors.New("mqtt client not connected")

// LocationReport is a device position message. DeviceID comes from the topic.
type LocationReport struct {
	DeviceID         string    `json:"-"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	PermissionDenied bool      `json:"permission_denied,omitempty"`
}

type LocationHandler func(report LocationReport) error

// Client subscribes to device location reports and publishes assessments.
type Client struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool
	handler   LocationHandler

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Clean sessions drop subscriptions, so subscribe on every (re)connect.
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		go func() {
			if err := c.subscribe(); err != nil {
				logger.Error("mqtt subscribe failed", "topic", cfg.MQTTLocationTopic, "error", err)
			}
		}()
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c
}

// SetLocationHandler must be called before Connect.
func (c *Client) SetLocationHandler(h LocationHandler) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// Connect waits for the initial connection, honoring ctx and Disconnect.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return errors.New("mqtt client stopped")
	default:
	}

	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			c.client.Disconnect(0)
			return ctx.Err()
		case <-c.stopCh:
			c.client.Disconnect(0)
			return errors.New("mqtt client stopped")
		default:
		}
	}
}

func (c *Client) subscribe() error {
	topic := c.cfg.MQTTLocationTopic
	qos := byte(1)

	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		c.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, token.Error())
	}

	c.logger.Info("subscribed to mqtt topic", "topic", topic, "qos", qos)
	return nil
}

func (c *Client) handleMessage(topic string, payload []byte) {
	c.logger.Debug("received mqtt message", "topic", topic, "size", len(payload))

	deviceID, ok := DeviceIDFromTopic(topic)
	if !ok {
		c.logger.Warn("location message on unexpected topic", "topic", topic)
		return
	}

	var report LocationReport
	if err := json.Unmarshal(payload, &report); err != nil {
		c.logger.Warn("failed to parse location message", "topic", topic, "error", err, "payload", string(payload))
		return
	}
	report.DeviceID = deviceID
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	}

	if err := validateReport(report); err != nil {
		c.logger.Warn("invalid location message", "topic", topic, "device_id", deviceID, "error", err)
		return
	}

	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()
	if h == nil {
		return
	}
	if err := h(report); err != nil {
		c.logger.Error("location handler failed", "device_id", deviceID, "error", err)
	}
}

func validateReport(r LocationReport) error {
	if r.PermissionDenied {
		return nil
	}
	if r.Latitude == nil || r.Longitude == nil {
		return errors.New("latitude and longitude are required unless permission_denied is set")
	}
	if *r.Latitude < -90 || *r.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %f", *r.Latitude)
	}
	if *r.Longitude < -180 || *r.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %f", *r.Longitude)
	}
	return nil
}

// DeviceIDFromTopic returns the segment following "devices" in topic.
func DeviceIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "devices" && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// PublishJSON marshals v and publishes it with QoS 1.
func (c *Client) PublishJSON(topic string, v any, retained bool) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}

	token := c.client.Publish(topic, 1, retained, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}

	c.logger.Debug("published mqtt message", "topic", topic, "size", len(data))
	return nil
}

// TopicPrefix is the configured root for published topics.
func (c *Client) TopicPrefix() string { return c.cfg.MQTTTopicPrefix }

// Check reports the broker connection for /healthz.
func (c *Client) Check(context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect is idempotent.
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })

	if c.IsConnected() {
		token := c.client.Unsubscribe(c.cfg.MQTTLocationTopic)
		token.WaitTimeout(2 * time.Second)
	}
	c.client.Disconnect(250)

	c.setConnected(false)
	c.logger.Info("mqtt client disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
