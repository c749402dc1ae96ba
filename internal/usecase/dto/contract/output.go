package contractdto

// OrderStatusOutput is the short read model served to order-tracking clients.
type OrderStatusOutput struct {
	ContractID        string
	Stage             string
	CurrentStatus     string // pending | payment_confirmed | completed
	IsPaid            bool
	IsCompleted       bool
	DownPaymentAmount int64
	TotalValue        int64
	Crop              string
	QuantityKg        float64
	HarvestVerified   bool
	PaymentReleased   bool
}
