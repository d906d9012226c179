package mq

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Audit event channels.
const (
	EventUserRegistered = "user.registered"
	EventRoleAssigned   = "user.role_assigned"
	EventFileUploaded   = "file.uploaded"
)

// Events publishes best-effort audit events. A nil *Events (or one
// without a broker) is a no-op, so handlers can publish unconditionally.
// Publish failures are logged and never fail the request that caused
// them.
type Events struct {
	mq     *MQ
	logger *slog.Logger
}

// NewEvents constructs an Events publisher over the given broker, which
// may be nil.
func NewEvents(m *MQ, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{mq: m, logger: logger}
}

// Publish serializes payload as JSON and sends it to the named channel.
func (e *Events) Publish(ctx context.Context, channel string, payload any) {
	if e == nil || e.mq == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("encode event", "channel", channel, "error", err)
		return
	}
	if _, err := e.mq.Publish(ctx, channel, data, map[string]string{"source": "gateway"}); err != nil {
		e.logger.Error("publish event", "channel", channel, "error", err)
	}
}
