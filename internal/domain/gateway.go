package domain

import "context"

// PaymentOrder is the gateway-side order created for a ledger payment.
type PaymentOrder struct {
	OrderID  string
	Amount   int64
	Currency string
}

// PaymentGateway is the external custody boundary. All calls carry a
// context with an explicit timeout; a timeout is failed-not-confirmed.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error)
	Transfer(ctx context.Context, accountID string, amount int64, sourceRef string) (string, error)
}

// NotificationDispatcher delivers transition events. Implementations never
// block state transitions; callers log and swallow any returned error.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID, eventType string, payload map[string]string) error
}

// Notification event types emitted by the core.
const (
	EventContractCreated   = "contract_created"
	EventPaymentConfirmed  = "payment_confirmed"
	EventHarvestSubmitted  = "harvest_submitted"
	EventHarvestVerified   = "harvest_verified"
	EventFundsReleased     = "funds_released"
	EventDisputeRaised     = "dispute_raised"
	EventDisputeResolved   = "dispute_resolved"
	EventRequestReceived   = "contract_request_received"
	EventRequestRejected   = "contract_request_rejected"
	EventDeliveryConfirmed = "delivery_confirmed"
)
