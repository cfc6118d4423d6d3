package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/lionsys/fittrack/internal/store"
)

// SubjectLogCreated is the NATS subject stored entries are mirrored to.
const SubjectLogCreated = "fittrack.log.created"

// NatsNotifier republishes bus notifications to NATS for observers outside
// the process. It is optional; the service runs without it.
type NatsNotifier struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNatsNotifier(url string, logger *slog.Logger) (*NatsNotifier, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &NatsNotifier{conn: nc, logger: logger}, nil
}

// Publish mirrors a stored entry. Failures are logged, never propagated:
// the in-process notification already happened.
func (n *NatsNotifier) Publish(e store.LogEntry) {
	payload, err := json.Marshal(e)
	if err != nil {
		n.logger.Error("marshal log event", "error", err)
		return
	}
	if err := n.conn.Publish(SubjectLogCreated, payload); err != nil {
		n.logger.Warn("publish log event", "error", err)
	}
}

func (n *NatsNotifier) Close() {
	n.conn.Close()
}
