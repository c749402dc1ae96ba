package models

import (
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/lib/pq"
)

type EscrowLedgerModel struct {
	ID               string `gorm:"primaryKey"`
	BuyerID          string `gorm:"index:idx_escrow_buyer"`
	SellerID         string `gorm:"index:idx_escrow_seller"`
	ContractID       string `gorm:"index:idx_escrow_contract"`
	PaymentRequestID string

	Crop       string
	QuantityKg float64
	Amount     int64
	Currency   string

	PlatformFee int64
	TotalFee    int64
	SellerNet   int64

	Status domain.EscrowStatus `gorm:"index:idx_escrow_status"`

	FundsHeld         int64
	FundsReleased     int64
	FundsRefunded     int64
	FundsFeeCollected int64

	PaymentMethod      string
	PaymentStatus      string
	PaymentExternalRef string
	PaymentConfirmedAt time.Time

	DeliveryStatus   string
	TrackingID       string
	PickupLocation   string
	DeliveryLocation string
	ActualDelivery   time.Time

	BuyerConfirmed     bool
	BuyerConfirmedAt   time.Time
	ConfirmationPhotos pq.StringArray `gorm:"type:text[]"`

	DisputeRaised     bool
	DisputeRaisedBy   string
	DisputeReason     string
	DisputeEvidence   pq.StringArray `gorm:"type:text[]"`
	DisputeRaisedAt   time.Time
	DisputeResolution string
	DisputeResolvedAt time.Time

	BlockchainTxHash      string
	BlockchainNetwork     string
	BlockchainStatus      string
	BlockchainConfirmedAt time.Time

	BuyerAuthorized bool
	SellerVerified  bool
	AdminApproved   bool
	AutoReleaseAt   time.Time `gorm:"index:idx_escrow_auto_release"`

	GatewayOrderID    string `gorm:"index:idx_escrow_gateway_order"`
	GatewayPaymentID  string
	GatewayTransferID string
	PayoutAccountID   string

	Notes string

	CreatedAt   time.Time `gorm:"index:idx_escrow_created"`
	UpdatedAt   time.Time
	FundedAt    time.Time
	CompletedAt time.Time
}

func (EscrowLedgerModel) TableName() string {
	return "escrow_ledgers"
}
