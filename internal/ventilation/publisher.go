package ventilation

import (
	"context"

	"github.com/rs/zerolog/log"
)

//go:generate mockgen -source=publisher.go -destination=mock_publisher_test.go -package=ventilation

// Publisher delivers a command payload to the equipment.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// LogPublisher only logs commands, for deployments without a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	log.Info().Str("topic", topic).RawJSON("payload", payload).Msg("ventilation command (no broker configured)")
	return nil
}
