package domain

import "time"

type EscrowStatus string

const (
	EscrowPending   EscrowStatus = "pending"
	EscrowFunded    EscrowStatus = "funded"
	EscrowConfirmed EscrowStatus = "confirmed"
	EscrowReleased  EscrowStatus = "released"
	EscrowRefunded  EscrowStatus = "refunded"
	EscrowDispute   EscrowStatus = "dispute"
	EscrowCompleted EscrowStatus = "completed"
)

// Terminal reports whether no further transition may leave this status.
func (s EscrowStatus) Terminal() bool {
	switch s {
	case EscrowReleased, EscrowRefunded, EscrowCompleted:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodGateway      PaymentMethod = "razorpay"
)

type PaymentRecord struct {
	Method      PaymentMethod
	Status      string // pending | confirmed | failed
	ExternalRef string
	ConfirmedAt time.Time
}

type DeliveryRecord struct {
	Status           string // pending | in_transit | delivered | cancelled
	TrackingID       string
	PickupLocation   string
	DeliveryLocation string
	ActualDelivery   time.Time
}

type BuyerConfirmation struct {
	Confirmed   bool
	ConfirmedAt time.Time
	Photos      []string
}

type DisputeRecord struct {
	Raised     bool
	RaisedBy   string // user ID of the raising party
	Reason     string
	Evidence   []string
	RaisedAt   time.Time
	Resolution string // refund | release
	ResolvedAt time.Time
}

type BlockchainRecord struct {
	TxHash      string
	Network     string
	Status      string // pending | confirmed | failed
	ConfirmedAt time.Time
}

type ReleaseAuthorization struct {
	BuyerAuthorized bool
	SellerVerified  bool
	AdminApproved   bool
	AutoReleaseAt   time.Time
}

// FundBreakdown tracks custody of the escrowed amount. Once funded, the
// ledger invariant is held + released + refunded + feeCollected == amount
// after every transition; released is always net of the platform fee.
type FundBreakdown struct {
	Held         int64
	Released     int64
	Refunded     int64
	FeeCollected int64
}

// EscrowLedger is the monetary custody record backing a trade. Amount is
// whatever was placed at initiation (down payment or full value, per the
// terms chosen at creation) and is the single base for fees and custody.
type EscrowLedger struct {
	ID               string // TXN-xxxxxxxxxxxx
	BuyerID          string
	SellerID         string
	ContractID       string // set when backing a contract
	PaymentRequestID string

	Crop       string
	QuantityKg float64
	Amount     int64
	Currency   string

	PlatformFee int64
	TotalFee    int64
	SellerNet   int64

	Status EscrowStatus
	Funds  FundBreakdown

	Payment           PaymentRecord
	Delivery          DeliveryRecord
	BuyerConfirmation BuyerConfirmation
	Dispute           DisputeRecord
	Blockchain        BlockchainRecord
	Release           ReleaseAuthorization

	// Gateway references. GatewayOrderID is set at most once per ledger.
	GatewayOrderID    string
	GatewayPaymentID  string
	GatewayTransferID string
	PayoutAccountID   string

	Notes string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	FundedAt    time.Time
	CompletedAt time.Time
}

// FundsBalanced reports the custody invariant: nothing beyond the escrowed
// amount is ever distributed, and once funded the full amount is accounted.
func (l *EscrowLedger) FundsBalanced() bool {
	total := l.Funds.Held + l.Funds.Released + l.Funds.Refunded + l.Funds.FeeCollected
	if total > l.Amount {
		return false
	}
	if l.FundedAt.IsZero() {
		return total == 0
	}
	return total == l.Amount
}

type EscrowFilters struct {
	Status EscrowStatus
	Crop   string
}

type EscrowRepository interface {
	CreateLedger(ledger *EscrowLedger) error
	GetLedgerByID(ledgerID string) (*EscrowLedger, error)
	GetLedgerByGatewayOrderID(orderID string) (*EscrowLedger, error)
	// SaveLedgerFrom persists ledger only if its stored status still equals
	// expected. A stale status yields ErrConflict.
	SaveLedgerFrom(ledger *EscrowLedger, expected EscrowStatus) error
	// DeleteLedgerFrom removes the ledger only while its stored status still
	// equals expected. Used to unwind allocations that never held funds.
	DeleteLedgerFrom(ledgerID string, expected EscrowStatus) error
	FindAutoReleasable(now time.Time) ([]*EscrowLedger, error)
	ListForUser(userID string, filters EscrowFilters, page, limit int64) ([]*EscrowLedger, int64, error)
	ListAll(filters EscrowFilters) ([]*EscrowLedger, error)
	CountForSeller(sellerID string, statuses []EscrowStatus) (int64, error)
}
