package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	reviewdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/review"
	"github.com/stretchr/testify/require"
)

type reputationFixture struct {
	uc          *DefaultReputationUsecase
	reviews     *fakeReviewRepo
	reputations *fakeReputationRepo
	ledgers     *fakeEscrowRepo
}

func newReputationFixture(t *testing.T) *reputationFixture {
	t.Helper()
	f := &reputationFixture{
		reviews:     newFakeReviewRepo(),
		reputations: newFakeReputationRepo(),
		ledgers:     newFakeEscrowRepo(),
	}
	f.uc = NewDefaultReputationUsecase(f.reviews, f.reputations, f.ledgers, newFakePartyStats())
	return f
}

func (f *reputationFixture) seedLedger(t *testing.T, id string, status domain.EscrowStatus) *domain.EscrowLedger {
	t.Helper()
	ledger := &domain.EscrowLedger{
		ID:        id,
		BuyerID:   "buyer-1",
		SellerID:  "seller-1",
		Crop:      "Onion",
		Amount:    50000,
		Status:    status,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.ledgers.CreateLedger(ledger))
	return ledger
}

func (f *reputationFixture) seedReview(t *testing.T, rating int, categories domain.CategoryRatings) {
	t.Helper()
	require.NoError(t, f.reviews.CreateReview(&domain.Review{
		ID:             fmt.Sprintf("rev-%d-%d", rating, len(f.reviews.reviews)),
		ReviewedUserID: "seller-1",
		ReviewerID:     "buyer-1",
		Rating:         rating,
		Categories:     categories,
		Approved:       true,
	}))
}

func TestSubmitReviewRequiresSettledLedger(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-open", domain.EscrowFunded)

	_, err := f.uc.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID: "TXN-open", ReviewerID: "buyer-1", Rating: 5,
	})
	require.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestSubmitReviewGuards(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-done", domain.EscrowReleased)

	_, err := f.uc.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID: "TXN-done", ReviewerID: "seller-1", Rating: 5,
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID: "TXN-done", ReviewerID: "buyer-1", Rating: 6,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID: "TXN-done", ReviewerID: "buyer-1", Rating: 0,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitReviewRecordsAgainstSeller(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-done", domain.EscrowReleased)

	review, err := f.uc.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID:   "TXN-done",
		ReviewerID: "buyer-1",
		Rating:     5,
		Comment:    "clean produce, on time",
		Categories: domain.CategoryRatings{Quality: 5, Timeliness: 5},
	})
	require.NoError(t, err)
	require.Equal(t, "seller-1", review.ReviewedUserID)
	require.True(t, review.Approved)

	// the submission already triggered a recompute
	record, err := f.uc.GetReputation("seller-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), record.TotalReviews)
	require.Equal(t, float64(5), record.AverageRating)
}

func TestRecomputeAggregates(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-1", domain.EscrowReleased)
	f.seedLedger(t, "TXN-2", domain.EscrowCompleted)
	f.seedLedger(t, "TXN-3", domain.EscrowFunded)

	f.seedReview(t, 5, domain.CategoryRatings{Quality: 5, Communication: 5, Timeliness: 5, Fairness: 5})
	f.seedReview(t, 5, domain.CategoryRatings{Quality: 5, Communication: 4.5})
	f.seedReview(t, 4, domain.CategoryRatings{Fairness: 4})

	record, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)

	require.Equal(t, int64(3), record.TotalReviews)
	require.Equal(t, 4.67, record.AverageRating)
	require.Equal(t, int64(2), record.Distribution.FiveStar)
	require.Equal(t, int64(1), record.Distribution.FourStar)
	require.Equal(t, float64(5), record.Categories.Quality)
	require.Equal(t, 4.75, record.Categories.Communication)
	// no timeliness data besides one 5, fairness averages explicit scores
	require.Equal(t, float64(5), record.Categories.Timeliness)
	require.Equal(t, 4.5, record.Categories.Fairness)

	require.Equal(t, int64(3), record.TotalTransactions)
	require.Equal(t, int64(2), record.SuccessfulTransactions)
	require.Equal(t, int64(0), record.DisputedTransactions)
	require.Equal(t, 66.67, record.SuccessRate)
	require.Equal(t, "low", record.RiskLevel)
}

func TestCategoriesDefaultToFiveWithoutData(t *testing.T) {
	f := newReputationFixture(t)
	f.seedReview(t, 5, domain.CategoryRatings{})

	record, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)
	require.Equal(t, float64(5), record.Categories.Quality)
	require.Equal(t, float64(5), record.Categories.Communication)
	require.Equal(t, float64(5), record.Categories.Timeliness)
	require.Equal(t, float64(5), record.Categories.Fairness)
}

func TestBadgeThresholds(t *testing.T) {
	f := newReputationFixture(t)
	for i := 0; i < 5; i++ {
		f.seedReview(t, 5, domain.CategoryRatings{Communication: 4.8, Timeliness: 4.9, Fairness: 4.6})
	}

	record, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)
	require.True(t, record.Badges.Verified)
	require.True(t, record.Badges.TopSeller)
	require.True(t, record.Badges.Reliable)
	require.True(t, record.Badges.Communicative)
	require.True(t, record.Badges.FastShipper)
	require.True(t, record.Badges.Responsive)
}

func TestBadgesMissedBelowThreshold(t *testing.T) {
	f := newReputationFixture(t)
	f.seedReview(t, 5, domain.CategoryRatings{Communication: 4.6})
	f.seedReview(t, 4, domain.CategoryRatings{Communication: 4.6})

	record, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)
	require.True(t, record.Badges.Verified)
	require.False(t, record.Badges.TopSeller) // 4.5 average over only 2 reviews
	require.False(t, record.Badges.Communicative)
	require.False(t, record.Badges.Responsive) // fewer than 3 reviews
}

func TestRiskFlags(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-1", domain.EscrowReleased)
	f.seedLedger(t, "TXN-2", domain.EscrowDispute)
	f.seedLedger(t, "TXN-3", domain.EscrowDispute)
	f.seedReview(t, 2, domain.CategoryRatings{})
	f.seedReview(t, 3, domain.CategoryRatings{})

	record, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)
	require.Equal(t, "high", record.RiskLevel)
	require.Contains(t, record.RiskFlags, "high_dispute_rate")
	require.Contains(t, record.RiskFlags, "low_rating")
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newReputationFixture(t)
	f.seedLedger(t, "TXN-1", domain.EscrowReleased)
	f.seedReview(t, 4, domain.CategoryRatings{Quality: 4})

	first, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)
	second, err := f.uc.Recompute("seller-1")
	require.NoError(t, err)

	require.Equal(t, 2, f.reputations.upserts)
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	require.Equal(t, first, second)
}
