package models

import (
	"time"

	"github.com/lib/pq"
)

type ReviewModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	TransactionID  string `gorm:"index:idx_review_txn"`
	ReviewerID     string `gorm:"index:idx_review_reviewer"`
	ReviewerRole   string
	ReviewedUserID string `gorm:"index:idx_review_reviewed"`

	Rating  int
	Title   string
	Comment string

	CategoryQuality       float64
	CategoryCommunication float64
	CategoryTimeliness    float64
	CategoryFairness      float64

	Approved     bool `gorm:"index:idx_review_approved"`
	HelpfulCount int64

	CreatedAt time.Time `gorm:"index:idx_review_created"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

type ReputationModel struct {
	UserID string `gorm:"primaryKey"`

	TotalReviews  int64
	AverageRating float64

	FiveStar  int64
	FourStar  int64
	ThreeStar int64
	TwoStar   int64
	OneStar   int64

	CategoryQuality       float64
	CategoryCommunication float64
	CategoryTimeliness    float64
	CategoryFairness      float64

	BadgeVerified      bool
	BadgeTopSeller     bool
	BadgeTopBuyer      bool
	BadgeReliable      bool
	BadgeCommunicative bool
	BadgeFastShipper   bool
	BadgeResponsive    bool

	TotalTransactions      int64
	SuccessfulTransactions int64
	DisputedTransactions   int64
	SuccessRate            float64

	RiskLevel string
	RiskFlags pq.StringArray `gorm:"type:text[]"`

	UpdatedAt time.Time
}

func (ReputationModel) TableName() string {
	return "reputation_records"
}

type PartyStatsModel struct {
	UserID            string `gorm:"primaryKey"`
	TotalEarned       int64
	TotalTransactions int64
	UpdatedAt         time.Time
}

func (PartyStatsModel) TableName() string {
	return "party_stats"
}
