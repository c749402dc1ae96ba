package requestdto

import "time"

type CreateRequestInput struct {
	SenderID       string
	SenderName     string
	SenderPhone    string
	RecipientID    string
	RecipientName  string
	RecipientPhone string

	Crop              string
	QuantityKg        float64
	Amount            int64
	AdvancePercentage int
	Description       string
	Bidirectional     bool
	DueDate           time.Time
}

type AcceptRequestInput struct {
	RequestID     string
	RecipientID   string
	PaymentMethod string
}

type RejectRequestInput struct {
	RequestID   string
	RecipientID string
	Reason      string
}
