package domain

import "time"

type CategoryRatings struct {
	Quality       float64
	Communication float64
	Timeliness    float64
	Fairness      float64
}

type Review struct {
	ID             string
	TransactionID  string
	ReviewerID     string
	ReviewerRole   string // buyer | seller
	ReviewedUserID string
	Rating         int
	Title          string
	Comment        string
	Categories     CategoryRatings
	Approved       bool
	HelpfulCount   int64
	CreatedAt      time.Time
}

// ReviewRepository is the read/write review store. The reputation aggregator
// only reads approved reviews.
type ReviewRepository interface {
	CreateReview(review *Review) error
	ListApprovedForUser(userID string) ([]*Review, error)
	ListForUser(userID string, page, limit int64) ([]*Review, int64, error)
}

type RatingDistribution struct {
	FiveStar  int64
	FourStar  int64
	ThreeStar int64
	TwoStar   int64
	OneStar   int64
}

type Badges struct {
	Verified      bool
	TopSeller     bool
	TopBuyer      bool
	Reliable      bool
	Communicative bool
	FastShipper   bool
	Responsive    bool
}

// ReputationRecord is the per-user rolling aggregate recomputed from the full
// approved review history. It is owned by the aggregation process and never
// written directly by user actions.
type ReputationRecord struct {
	UserID string

	TotalReviews  int64
	AverageRating float64
	Distribution  RatingDistribution
	Categories    CategoryRatings
	Badges        Badges

	TotalTransactions      int64
	SuccessfulTransactions int64
	DisputedTransactions   int64
	SuccessRate            float64

	RiskLevel string // low | medium | high
	RiskFlags []string

	UpdatedAt time.Time
}

type ReputationRepository interface {
	UpsertReputation(record *ReputationRecord) error
	GetReputation(userID string) (*ReputationRecord, error)
}

// PartyStatsRepository tracks cumulative earnings per user, updated when a
// contract completes.
type PartyStatsRepository interface {
	AddEarnings(userID string, amount int64) error
	GetEarnings(userID string) (totalEarned int64, totalTransactions int64, err error)
}
