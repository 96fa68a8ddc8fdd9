package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// WebhookSurface forwards notifications as JSON to an HTTP endpoint, e.g. a
// phone-bridge service. Each post carries a unique event id so receivers can
// de-duplicate.
type WebhookSurface struct {
	URL    string
	Secret string
	HTTP   *http.Client
	// Allowed gates posting; nil means permission is granted.
	Allowed func() bool

	mu       sync.Mutex
	channels map[string]string
}

func NewWebhookSurface(url, secret string) *WebhookSurface {
	return &WebhookSurface{
		URL:      url,
		Secret:   secret,
		HTTP:     http.DefaultClient,
		channels: make(map[string]string),
	}
}

func (s *WebhookSurface) EnsureChannel(id, name, description string, importance Importance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; ok {
		return nil
	}
	s.channels[id] = name
	return nil
}

type webhookEvent struct {
	EventID string `json:"event_id"`
	Notification
}

func (s *WebhookSurface) Post(n Notification) error {
	if s.Allowed != nil && !s.Allowed() {
		return nil
	}
	payload, err := json.Marshal(webhookEvent{EventID: uuid.NewString(), Notification: n})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Secret != "" {
		req.Header.Set("X-Dayplan-Secret", s.Secret)
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook failed with status: %d", resp.StatusCode)
	}
	return nil
}
