package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"familyrelay/internal/domain"
)

// Config holds configuration for creating a pusher.
type Config struct {
	Provider string
	// Timeout bounds one delivery attempt. Zero means 10 seconds.
	Timeout time.Duration
}

// NewPusher creates a pusher from config. Provider "webhook" posts the
// notification as JSON to the device token, which is expected to be an HTTPS
// endpoint; "noop" or unknown uses a no-op pusher.
func NewPusher(config Config) (domain.Pusher, error) {
	switch config.Provider {
	case "webhook":
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		return &webhookPusher{
			client: &http.Client{Timeout: timeout},
		}, nil
	case "noop":
		return &noopPusher{}, nil
	default:
		log.Printf("[PUSH] Unknown push provider %q, using noop", config.Provider)
		return &noopPusher{}, nil
	}
}

type webhookPusher struct {
	client *http.Client
}

func (p *webhookPusher) Send(ctx context.Context, deviceToken string, n *domain.Notification) (string, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deviceToken, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deliver push: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("deliver push: unexpected status %d", resp.StatusCode)
	}

	deliveryID := uuid.NewString()
	log.Printf("[PUSH] Notification %s delivered. DeliveryID: %s", n.Type, deliveryID)
	return deliveryID, nil
}

type noopPusher struct{}

func (p *noopPusher) Send(ctx context.Context, deviceToken string, n *domain.Notification) (string, error) {
	log.Printf("[PUSH] Notification %s would be sent to %s (noop)", n.Type, deviceToken)
	return uuid.NewString(), nil
}
