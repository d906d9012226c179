package mq

import (
	"context"
	"log/slog"
)

// Listen consumes the named channels concurrently and logs every
// delivery. It blocks until the context is canceled or a subscription
// fails, and returns the first error.
func Listen(ctx context.Context, m *MQ, logger *slog.Logger, channels ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, len(channels))
	for _, channel := range channels {
		go func(channel string) {
			errs <- m.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
				logger.Info("event received",
					"channel", channel,
					"id", msg.ID,
					"payload", string(msg.Data),
					"attributes", msg.Attributes,
				)
				return nil
			})
		}(channel)
	}
	return <-errs
}
