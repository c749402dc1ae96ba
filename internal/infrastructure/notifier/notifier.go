package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type CallbackPayload struct {
	UserID    string            `json:"user_id"`
	EventType string            `json:"event_type"`
	Payload   map[string]string `json:"payload,omitempty"`
	SentAt    int64             `json:"sent_at"`
}

// CallbackNotifier POSTs transition events to a configured webhook. Delivery
// is fire-and-forget; the caller never waits on the receiver.
type CallbackNotifier struct {
	callbackURL string
	client      *http.Client
}

func NewCallbackNotifier(callbackURL string) *CallbackNotifier {
	return &CallbackNotifier{
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *CallbackNotifier) Notify(_ context.Context, userID, eventType string, payload map[string]string) error {
	if n.callbackURL == "" {
		return nil
	}
	go n.send(CallbackPayload{
		UserID:    userID,
		EventType: eventType,
		Payload:   payload,
		SentAt:    time.Now().Unix(),
	})
	return nil
}

func (n *CallbackNotifier) send(payload CallbackPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal callback: %v\n", err)
		return
	}

	req, err := http.NewRequest("POST", n.callbackURL, bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Failed to create callback request: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("Callback failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Callback returned status %d", resp.StatusCode)
	}
}
