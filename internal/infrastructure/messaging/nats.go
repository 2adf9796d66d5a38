package messaging

import (
	"fmt"
	"time"

	"airspace-service/pkg/logger"

	"github.com/nats-io/nats.go"
)

// NewNATSConn connects to the NATS server at url and keeps reconnecting on loss
func NewNATSConn(url string, log logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("airspace-service"),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}
