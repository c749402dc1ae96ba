package domain

import "time"

// UnifiedKind is the tagged discriminator of the merged read model.
type UnifiedKind string

const (
	UnifiedContract UnifiedKind = "contract"
	UnifiedEscrow   UnifiedKind = "escrow"
)

// StatusCategory is the externally visible status filter. Each category maps
// to a fixed set of underlying stages/statuses; the mapping is not
// configurable.
type StatusCategory string

const (
	CategoryAll       StatusCategory = "all"
	CategoryPending   StatusCategory = "pending"
	CategoryCompleted StatusCategory = "completed"
	CategoryDispute   StatusCategory = "dispute"
)

// UnifiedRecord merges a Contract with its linked EscrowLedger, or carries a
// standalone ledger. Exactly one of Contract/Escrow drives Status.
type UnifiedRecord struct {
	Kind UnifiedKind

	ID         string
	Crop       string
	QuantityKg float64
	Amount     int64
	Currency   string
	BuyerID    string
	SellerID   string

	Status string // contract stage or escrow status, per Kind

	Contract *Contract
	Escrow   *EscrowLedger

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnifiedSummary is the per-kind and per-category tally attached to unified
// listings.
type UnifiedSummary struct {
	Total     int64
	Contracts int64
	Escrows   int64
	Pending   int64
	Completed int64
	Disputed  int64
}
