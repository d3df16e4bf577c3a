// Package mqtt publishes ventilation commands to the broker.
package mqtt

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	qos             = 1
	disconnectQuiet = 250
	publishTimeout  = 10 * time.Second
)

var connectHandler paho.OnConnectHandler = func(client paho.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler paho.ConnectionLostHandler = func(client paho.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Client wraps a paho client; messages are retained so equipment that
// reconnects picks up the current command.
type Client struct {
	client paho.Client
}

func Options(brokerURL, clientID string) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	return opts
}

// Connect dials the broker and waits up to timeout for the first connection.
func Connect(brokerURL, clientID string, timeout time.Duration) (*Client, error) {
	client := paho.NewClient(Options(brokerURL, clientID))
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", brokerURL, err)
	}
	log.Info().Str("broker", brokerURL).Str("client_id", clientID).Msg("MQTT client initialized")
	return &Client{client: client}, nil
}

func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	token := c.client.Publish(topic, qos, true, payload)

	wait := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < wait {
			wait = d
		}
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Int("bytes", len(payload)).Msg("MQTT message published")
	return nil
}

func (c *Client) Close() {
	c.client.Disconnect(disconnectQuiet)
	log.Info().Msg("MQTT client disconnected")
}
