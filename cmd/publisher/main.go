package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/example/shop-fulfiller/internal/adapter/natsstan"
	"github.com/example/shop-fulfiller/internal/domain"
)

// Reads one shop session JSON from stdin and publishes it to the session
// subject, where the server persists and caches it.
func main() {
	clusterID := getenv("STAN_CLUSTER_ID", "fulfiller-cluster")
	clientID := getenv("STAN_PUB_ID", "fulfiller-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4223")
	subject := getenv("STAN_SESSION_SUBJECT", "shop.sessions")

	var s domain.ShopSession
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&s); err != nil {
		log.Fatalf("read json from stdin: %v", err)
	}
	s.Shop = domain.NormalizeShop(s.Shop)
	if err := s.Validate(); err != nil {
		log.Fatalf("session needs shop and access_token: %v", err)
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(s)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}

	sc, err := natsstan.Connect(clusterID, clientID, natsURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer sc.Close()

	if err := sc.Publish(subject, b); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published session for %s to %s", s.Shop, subject)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
