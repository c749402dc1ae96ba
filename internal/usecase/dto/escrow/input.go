package escrowdto

type InitiateEscrowInput struct {
	BuyerID          string
	SellerID         string
	ContractID       string
	PaymentRequestID string
	Crop             string
	QuantityKg       float64
	Amount           int64
	Currency         string
	PayoutAccountID  string
	Notes            string
}

type ConfirmPaymentInput struct {
	LedgerID    string
	ActorID     string
	ExternalRef string
}

type ConfirmDeliveryInput struct {
	LedgerID         string
	ActorID          string
	Photos           []string
	TrackingID       string
	DeliveryLocation string
}

type RaiseDisputeInput struct {
	LedgerID string
	RaisedBy string
	Reason   string
	Evidence []string
}

type ResolveDisputeInput struct {
	LedgerID   string
	Resolution string // refund | release
	AdminID    string
	ActorRole  string
}
