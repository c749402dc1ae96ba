package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	reviewdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/review"
	"github.com/google/uuid"
)

type ReputationUsecase interface {
	SubmitReview(input *reviewdto.SubmitReviewInput) (*domain.Review, error)
	Recompute(userID string) (*domain.ReputationRecord, error)
	GetReputation(userID string) (*domain.ReputationRecord, error)
	ListReviews(userID string, page, limit int64) ([]*domain.Review, int64, error)
}

type DefaultReputationUsecase struct {
	reviewRepo     domain.ReviewRepository
	reputationRepo domain.ReputationRepository
	escrowRepo     domain.EscrowRepository
	partyStats     domain.PartyStatsRepository
}

func NewDefaultReputationUsecase(
	reviewRepo domain.ReviewRepository,
	reputationRepo domain.ReputationRepository,
	escrowRepo domain.EscrowRepository,
	partyStats domain.PartyStatsRepository,
) *DefaultReputationUsecase {
	return &DefaultReputationUsecase{
		reviewRepo:     reviewRepo,
		reputationRepo: reputationRepo,
		escrowRepo:     escrowRepo,
		partyStats:     partyStats,
	}
}

// SubmitReview stores a review against a settled transaction. Only the buyer
// of a released or completed ledger may review, and the reviewed party is
// always the counterparty. A failed recompute never fails the submission.
func (uc *DefaultReputationUsecase) SubmitReview(input *reviewdto.SubmitReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}
	ledger, err := uc.escrowRepo.GetLedgerByID(input.LedgerID)
	if err != nil {
		return nil, err
	}
	if input.ReviewerID != ledger.BuyerID {
		return nil, fmt.Errorf("%w: only the buyer can review this transaction", domain.ErrUnauthorized)
	}
	if ledger.Status != domain.EscrowReleased && ledger.Status != domain.EscrowCompleted {
		return nil, fmt.Errorf("%w: transaction not settled yet", domain.ErrPrecondition)
	}

	review := &domain.Review{
		ID:             uuid.New().String(),
		TransactionID:  ledger.ID,
		ReviewerID:     input.ReviewerID,
		ReviewerRole:   "buyer",
		ReviewedUserID: ledger.SellerID,
		Rating:         input.Rating,
		Title:          input.Title,
		Comment:        input.Comment,
		Categories:     input.Categories,
		Approved:       true,
		CreatedAt:      time.Now(),
	}
	if err := uc.reviewRepo.CreateReview(review); err != nil {
		return nil, err
	}
	if _, err := uc.Recompute(review.ReviewedUserID); err != nil {
		slog.Error("reputation recompute failed", "user_id", review.ReviewedUserID, "error", err)
	}
	return review, nil
}

// Recompute rebuilds the full reputation record from the approved review
// history and transaction tallies. Running it twice over the same inputs
// yields the same record.
func (uc *DefaultReputationUsecase) Recompute(userID string) (*domain.ReputationRecord, error) {
	reviews, err := uc.reviewRepo.ListApprovedForUser(userID)
	if err != nil {
		return nil, err
	}

	record := &domain.ReputationRecord{UserID: userID, UpdatedAt: time.Now()}
	record.TotalReviews = int64(len(reviews))

	var ratingSum int64
	var qualitySum, commSum, timeSum, fairSum float64
	var qualityN, commN, timeN, fairN int64
	for _, review := range reviews {
		ratingSum += int64(review.Rating)
		switch review.Rating {
		case 5:
			record.Distribution.FiveStar++
		case 4:
			record.Distribution.FourStar++
		case 3:
			record.Distribution.ThreeStar++
		case 2:
			record.Distribution.TwoStar++
		case 1:
			record.Distribution.OneStar++
		}
		if review.Categories.Quality > 0 {
			qualitySum += review.Categories.Quality
			qualityN++
		}
		if review.Categories.Communication > 0 {
			commSum += review.Categories.Communication
			commN++
		}
		if review.Categories.Timeliness > 0 {
			timeSum += review.Categories.Timeliness
			timeN++
		}
		if review.Categories.Fairness > 0 {
			fairSum += review.Categories.Fairness
			fairN++
		}
	}
	if record.TotalReviews > 0 {
		record.AverageRating = round2(float64(ratingSum) / float64(record.TotalReviews))
	}
	// Categories with no data default to 5 so a missing dimension never
	// suppresses a badge.
	record.Categories = domain.CategoryRatings{
		Quality:       categoryAverage(qualitySum, qualityN),
		Communication: categoryAverage(commSum, commN),
		Timeliness:    categoryAverage(timeSum, timeN),
		Fairness:      categoryAverage(fairSum, fairN),
	}

	total, err := uc.escrowRepo.CountForSeller(userID, nil)
	if err != nil {
		return nil, err
	}
	successful, err := uc.escrowRepo.CountForSeller(userID, []domain.EscrowStatus{domain.EscrowReleased, domain.EscrowCompleted})
	if err != nil {
		return nil, err
	}
	disputed, err := uc.escrowRepo.CountForSeller(userID, []domain.EscrowStatus{domain.EscrowDispute})
	if err != nil {
		return nil, err
	}
	record.TotalTransactions = total
	record.SuccessfulTransactions = successful
	record.DisputedTransactions = disputed
	if total > 0 {
		record.SuccessRate = round2(float64(successful) / float64(total) * 100)
	}

	record.Badges = computeBadges(record)
	record.RiskLevel, record.RiskFlags = assessRisk(record)

	if err := uc.reputationRepo.UpsertReputation(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (uc *DefaultReputationUsecase) GetReputation(userID string) (*domain.ReputationRecord, error) {
	return uc.reputationRepo.GetReputation(userID)
}

func (uc *DefaultReputationUsecase) ListReviews(userID string, page, limit int64) ([]*domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return uc.reviewRepo.ListForUser(userID, page, limit)
}

func computeBadges(r *domain.ReputationRecord) domain.Badges {
	return domain.Badges{
		Verified:      r.TotalReviews >= 1,
		TopSeller:     r.AverageRating >= 4.8 && r.TotalReviews >= 5,
		TopBuyer:      r.AverageRating >= 4.8 && r.TotalReviews >= 5,
		Reliable:      r.AverageRating >= 4.5 && r.Categories.Fairness >= 4.5,
		Communicative: r.Categories.Communication >= 4.7,
		FastShipper:   r.Categories.Timeliness >= 4.7,
		Responsive:    r.Categories.Communication >= 4.5 && r.TotalReviews >= 3,
	}
}

func assessRisk(r *domain.ReputationRecord) (string, []string) {
	var flags []string
	if r.TotalTransactions > 0 && float64(r.DisputedTransactions)/float64(r.TotalTransactions) > 0.2 {
		flags = append(flags, "high_dispute_rate")
	}
	if r.TotalReviews > 0 && r.AverageRating < 3.0 {
		flags = append(flags, "low_rating")
	}
	switch {
	case len(flags) >= 2:
		return "high", flags
	case len(flags) == 1:
		return "medium", flags
	default:
		return "low", flags
	}
}

func categoryAverage(sum float64, n int64) float64 {
	if n == 0 {
		return 5
	}
	return round2(sum / float64(n))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
