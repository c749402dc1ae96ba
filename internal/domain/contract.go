package domain

import "time"

type ContractStage string

const (
	StageNegotiation       ContractStage = "negotiation"
	StageSigned            ContractStage = "signed"
	StageEscrowed          ContractStage = "escrowed"
	StageInProgress        ContractStage = "in_progress"
	StageHarvestSubmitted  ContractStage = "harvest_submitted"
	StageVerification      ContractStage = "verification"
	StageDeliveryScheduled ContractStage = "delivery_scheduled"
	StageDelivered         ContractStage = "delivered"
	StagePaymentReleased   ContractStage = "payment_released"
	StageCompleted         ContractStage = "completed"
	StageDisputed          ContractStage = "disputed"
)

var stageRank = map[ContractStage]int{
	StageNegotiation:       0,
	StageSigned:            1,
	StageEscrowed:          2,
	StageInProgress:        3,
	StageHarvestSubmitted:  4,
	StageVerification:      5,
	StageDeliveryScheduled: 6,
	StageDelivered:         7,
	StagePaymentReleased:   8,
	StageCompleted:         9,
}

// Terminal reports whether the stage admits no further transition.
func (s ContractStage) Terminal() bool {
	return s == StageCompleted || s == StageDisputed
}

// CanAdvance reports whether to is a legal next stage. The graph is linear
// and forward-only; disputed is reachable from any non-terminal stage.
func (s ContractStage) CanAdvance(to ContractStage) bool {
	if s.Terminal() {
		return false
	}
	if to == StageDisputed {
		return true
	}
	from, ok := stageRank[s]
	if !ok {
		return false
	}
	next, ok := stageRank[to]
	if !ok {
		return false
	}
	return next > from
}

type DownPaymentStatus string

const (
	DownPaymentPending  DownPaymentStatus = "pending"
	DownPaymentEscrowed DownPaymentStatus = "escrowed"
	DownPaymentRefunded DownPaymentStatus = "refunded"
)

type StageEntry struct {
	Seq       int
	Stage     ContractStage
	Timestamp time.Time
	ActorID   string
}

type QualityStandards struct {
	MoisturePercent float64
	DefectLimit     float64
	SizeGrade       string
}

type HarvestProof struct {
	Photos      []string
	GPSLat      float64
	GPSLng      float64
	Description string
	SubmittedAt time.Time
	ByFarmer    bool
}

type ContractVerification struct {
	Verified   bool
	ByAdmin    bool
	Notes      string
	Penalty    int64
	VerifiedAt time.Time
}

type ContractDispute struct {
	RaisedBy   string
	Reason     string
	Evidence   []string
	Resolution string
	RaisedAt   time.Time
}

// Contract is an agreement to trade a quantity of a named crop at a fixed
// price. TotalValue is frozen at creation and never recomputed.
type Contract struct {
	ID        string
	ListingID string
	BuyerID   string
	FarmerID  string

	Crop        string
	QuantityKg  float64
	PricePerKg  int64 // minor units
	TotalValue  int64 // minor units, = QuantityKg * PricePerKg at creation
	Currency    string

	DownPaymentPercent int
	DownPaymentAmount  int64
	DownPaymentStatus  DownPaymentStatus

	DeliveryWindowStart time.Time
	DeliveryWindowEnd   time.Time
	Quality             QualityStandards

	Stage        ContractStage
	StageHistory []StageEntry

	HarvestProof HarvestProof
	Verification ContractVerification
	Disputes     []ContractDispute

	EscrowLedgerID string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// PushStage appends the next stage-history entry and sets the current stage.
// Exactly one entry per stage change.
func (c *Contract) PushStage(stage ContractStage, actorID string, at time.Time) {
	c.Stage = stage
	c.StageHistory = append(c.StageHistory, StageEntry{
		Seq:       len(c.StageHistory) + 1,
		Stage:     stage,
		Timestamp: at,
		ActorID:   actorID,
	})
}

type ContractRepository interface {
	CreateContract(contract *Contract) error
	GetContractByID(contractID string) (*Contract, error)
	// SaveContractFrom persists contract and any new stage-history entries
	// only if the stored stage still equals expected; ErrConflict otherwise.
	SaveContractFrom(contract *Contract, expected ContractStage) error
	ListForUser(userID string) ([]*Contract, error)
	ListAll() ([]*Contract, error)
}
