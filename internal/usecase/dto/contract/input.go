package contractdto

import (
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

type CreateContractInput struct {
	BuyerID             string
	FarmerID            string
	ListingID           string
	Crop                string
	QuantityKg          float64
	PricePerKg          int64
	Currency            string
	DownPaymentPercent  int
	DeliveryWindowStart time.Time
	DeliveryWindowEnd   time.Time
	Quality             domain.QualityStandards
	PaymentRequestID    string
	PayoutAccountID     string
}

type ConfirmContractPaymentInput struct {
	ContractID  string
	ActorID     string
	PaymentRef  string
}

type SubmitHarvestInput struct {
	ContractID  string
	FarmerID    string
	Photos      []string
	GPSLat      float64
	GPSLng      float64
	Description string
}

type VerifyAndCompleteInput struct {
	ContractID string
	ActorID    string
	ActorRole  string // buyer | admin
	Verified   bool
	Notes      string
}

type ContractDisputeInput struct {
	ContractID string
	RaisedBy   string
	Reason     string
	Evidence   []string
}
