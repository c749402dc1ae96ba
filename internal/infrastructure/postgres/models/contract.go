package models

import (
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/lib/pq"
)

type ContractModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	ListingID string
	BuyerID   string `gorm:"index:idx_contract_buyer"`
	FarmerID  string `gorm:"index:idx_contract_farmer"`

	Crop       string
	QuantityKg float64
	PricePerKg int64
	TotalValue int64
	Currency   string

	DownPaymentPercent int
	DownPaymentAmount  int64
	DownPaymentStatus  domain.DownPaymentStatus

	DeliveryWindowStart time.Time
	DeliveryWindowEnd   time.Time

	QualityMoisturePercent float64
	QualityDefectLimit     float64
	QualitySizeGrade       string

	Stage domain.ContractStage `gorm:"index:idx_contract_stage"`

	StageHistory []ContractStageModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`

	HarvestPhotos      pq.StringArray `gorm:"type:text[]"`
	HarvestGPSLat      float64
	HarvestGPSLng      float64
	HarvestDescription string
	HarvestSubmittedAt time.Time
	HarvestByFarmer    bool

	Verified          bool
	VerifiedByAdmin   bool
	VerificationNotes string
	VerificationFine  int64
	VerifiedAt        time.Time

	Disputes []ContractDisputeModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`

	EscrowLedgerID string `gorm:"index:idx_contract_ledger"`

	CreatedAt   time.Time `gorm:"index:idx_contract_created"`
	UpdatedAt   time.Time
	CompletedAt time.Time
}

func (ContractModel) TableName() string {
	return "contracts"
}

type ContractStageModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ContractID string `gorm:"type:uuid;index:idx_stage_contract"`
	Seq        int
	Stage      domain.ContractStage
	Timestamp  time.Time
	ActorID    string
}

func (ContractStageModel) TableName() string {
	return "contract_stage_history"
}

type ContractDisputeModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ContractID string `gorm:"type:uuid;index:idx_dispute_contract"`
	RaisedBy   string
	Reason     string
	Evidence   pq.StringArray `gorm:"type:text[]"`
	Resolution string
	RaisedAt   time.Time
}

func (ContractDisputeModel) TableName() string {
	return "contract_disputes"
}
