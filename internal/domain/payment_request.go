package domain

import "time"

type PaymentRequestStatus string

const (
	RequestPending   PaymentRequestStatus = "pending"
	RequestAccepted  PaymentRequestStatus = "accepted"
	RequestRejected  PaymentRequestStatus = "rejected"
	RequestPaid      PaymentRequestStatus = "paid"
	RequestCancelled PaymentRequestStatus = "cancelled"
)

// PaymentRequest is a preliminary trade proposal between two parties. It
// never holds funds; accepting it allocates exactly one EscrowLedger.
type PaymentRequest struct {
	ID             string
	SenderID       string
	SenderName     string
	SenderPhone    string
	RecipientID    string
	RecipientName  string
	RecipientPhone string

	Crop              string
	QuantityKg        float64
	Amount            int64 // minor units
	AdvancePercentage int
	AdvanceAmount     int64
	Description       string
	Bidirectional     bool

	Status           PaymentRequestStatus
	RejectionReason  string
	EscrowLedgerID   string
	LinkedContractID string

	DueDate    time.Time
	AcceptedAt time.Time
	RejectedAt time.Time
	PaidAt     time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentRequestRepository interface {
	CreateRequest(request *PaymentRequest) error
	GetRequestByID(requestID string) (*PaymentRequest, error)
	// SaveRequestFrom persists request only if the stored status still equals
	// expected; ErrConflict otherwise.
	SaveRequestFrom(request *PaymentRequest, expected PaymentRequestStatus) error
	ListReceived(recipientID string, statuses []PaymentRequestStatus) ([]*PaymentRequest, error)
	ListSent(senderID string) ([]*PaymentRequest, error)
	ListCompleted(userID string) ([]*PaymentRequest, error)
}
