package kafka

type TradeEvent struct {
	UserID    string            `json:"user_id"`
	EventType string            `json:"event_type"`
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp int64             `json:"timestamp"`
}
