package mappers

import (
	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
)

func ToGORMReview(review *domain.Review) *models.ReviewModel {
	return &models.ReviewModel{
		ID:             review.ID,
		TransactionID:  review.TransactionID,
		ReviewerID:     review.ReviewerID,
		ReviewerRole:   review.ReviewerRole,
		ReviewedUserID: review.ReviewedUserID,

		Rating:  review.Rating,
		Title:   review.Title,
		Comment: review.Comment,

		CategoryQuality:       review.Categories.Quality,
		CategoryCommunication: review.Categories.Communication,
		CategoryTimeliness:    review.Categories.Timeliness,
		CategoryFairness:      review.Categories.Fairness,

		Approved:     review.Approved,
		HelpfulCount: review.HelpfulCount,
		CreatedAt:    review.CreatedAt,
	}
}

func ToDomainReview(model *models.ReviewModel) *domain.Review {
	return &domain.Review{
		ID:             model.ID,
		TransactionID:  model.TransactionID,
		ReviewerID:     model.ReviewerID,
		ReviewerRole:   model.ReviewerRole,
		ReviewedUserID: model.ReviewedUserID,

		Rating:  model.Rating,
		Title:   model.Title,
		Comment: model.Comment,

		Categories: domain.CategoryRatings{
			Quality:       model.CategoryQuality,
			Communication: model.CategoryCommunication,
			Timeliness:    model.CategoryTimeliness,
			Fairness:      model.CategoryFairness,
		},

		Approved:     model.Approved,
		HelpfulCount: model.HelpfulCount,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMReputation(record *domain.ReputationRecord) *models.ReputationModel {
	return &models.ReputationModel{
		UserID: record.UserID,

		TotalReviews:  record.TotalReviews,
		AverageRating: record.AverageRating,

		FiveStar:  record.Distribution.FiveStar,
		FourStar:  record.Distribution.FourStar,
		ThreeStar: record.Distribution.ThreeStar,
		TwoStar:   record.Distribution.TwoStar,
		OneStar:   record.Distribution.OneStar,

		CategoryQuality:       record.Categories.Quality,
		CategoryCommunication: record.Categories.Communication,
		CategoryTimeliness:    record.Categories.Timeliness,
		CategoryFairness:      record.Categories.Fairness,

		BadgeVerified:      record.Badges.Verified,
		BadgeTopSeller:     record.Badges.TopSeller,
		BadgeTopBuyer:      record.Badges.TopBuyer,
		BadgeReliable:      record.Badges.Reliable,
		BadgeCommunicative: record.Badges.Communicative,
		BadgeFastShipper:   record.Badges.FastShipper,
		BadgeResponsive:    record.Badges.Responsive,

		TotalTransactions:      record.TotalTransactions,
		SuccessfulTransactions: record.SuccessfulTransactions,
		DisputedTransactions:   record.DisputedTransactions,
		SuccessRate:            record.SuccessRate,

		RiskLevel: record.RiskLevel,
		RiskFlags: record.RiskFlags,

		UpdatedAt: record.UpdatedAt,
	}
}

func ToDomainReputation(model *models.ReputationModel) *domain.ReputationRecord {
	return &domain.ReputationRecord{
		UserID: model.UserID,

		TotalReviews:  model.TotalReviews,
		AverageRating: model.AverageRating,

		Distribution: domain.RatingDistribution{
			FiveStar:  model.FiveStar,
			FourStar:  model.FourStar,
			ThreeStar: model.ThreeStar,
			TwoStar:   model.TwoStar,
			OneStar:   model.OneStar,
		},

		Categories: domain.CategoryRatings{
			Quality:       model.CategoryQuality,
			Communication: model.CategoryCommunication,
			Timeliness:    model.CategoryTimeliness,
			Fairness:      model.CategoryFairness,
		},

		Badges: domain.Badges{
			Verified:      model.BadgeVerified,
			TopSeller:     model.BadgeTopSeller,
			TopBuyer:      model.BadgeTopBuyer,
			Reliable:      model.BadgeReliable,
			Communicative: model.BadgeCommunicative,
			FastShipper:   model.BadgeFastShipper,
			Responsive:    model.BadgeResponsive,
		},

		TotalTransactions:      model.TotalTransactions,
		SuccessfulTransactions: model.SuccessfulTransactions,
		DisputedTransactions:   model.DisputedTransactions,
		SuccessRate:            model.SuccessRate,

		RiskLevel: model.RiskLevel,
		RiskFlags: model.RiskFlags,

		UpdatedAt: model.UpdatedAt,
	}
}
