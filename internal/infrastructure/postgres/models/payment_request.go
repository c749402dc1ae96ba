package models

import (
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

type PaymentRequestModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	SenderID       string `gorm:"index:idx_request_sender"`
	SenderName     string
	SenderPhone    string
	RecipientID    string `gorm:"index:idx_request_recipient"`
	RecipientName  string
	RecipientPhone string

	Crop              string
	QuantityKg        float64
	Amount            int64
	AdvancePercentage int
	AdvanceAmount     int64
	Description       string
	Bidirectional     bool

	Status           domain.PaymentRequestStatus `gorm:"index:idx_request_status"`
	RejectionReason  string
	EscrowLedgerID   string
	LinkedContractID string

	DueDate    time.Time
	AcceptedAt time.Time
	RejectedAt time.Time
	PaidAt     time.Time
	CreatedAt  time.Time `gorm:"index:idx_request_created"`
	UpdatedAt  time.Time
}

func (PaymentRequestModel) TableName() string {
	return "payment_requests"
}
