package natsstan

import (
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
)

// Connect — подключение к NATS Streaming; пустой clientID заменяется уникальным.
func Connect(clusterID, clientID, url string) (stan.Conn, error) {
	if clientID == "" {
		clientID = fmt.Sprintf("fulfiller-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, fmt.Errorf("stan connect: %w", err)
	}
	return sc, nil
}
