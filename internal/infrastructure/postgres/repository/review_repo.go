package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/mappers"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultReviewRepository struct {
	DB *gorm.DB
}

func NewDefaultReviewRepository(db *gorm.DB) *DefaultReviewRepository {
	return &DefaultReviewRepository{DB: db}
}

func (r *DefaultReviewRepository) CreateReview(review *domain.Review) error {
	model := mappers.ToGORMReview(review)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *DefaultReviewRepository) ListApprovedForUser(userID string) ([]*domain.Review, error) {
	var reviewModels []models.ReviewModel
	err := r.DB.
		Where("reviewed_user_id = ? AND approved = ?", userID, true).
		Order("created_at DESC").
		Find(&reviewModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainReviews(reviewModels), nil
}

func (r *DefaultReviewRepository) ListForUser(userID string, page, limit int64) ([]*domain.Review, int64, error) {
	query := r.DB.Model(&models.ReviewModel{}).Where("reviewed_user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviewModels []models.ReviewModel
	err := query.
		Order("created_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&reviewModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainReviews(reviewModels), total, nil
}

func toDomainReviews(reviewModels []models.ReviewModel) []*domain.Review {
	reviews := make([]*domain.Review, 0, len(reviewModels))
	for i := range reviewModels {
		reviews = append(reviews, mappers.ToDomainReview(&reviewModels[i]))
	}
	return reviews
}

type DefaultReputationRepository struct {
	DB *gorm.DB
}

func NewDefaultReputationRepository(db *gorm.DB) *DefaultReputationRepository {
	return &DefaultReputationRepository{DB: db}
}

func (r *DefaultReputationRepository) UpsertReputation(record *domain.ReputationRecord) error {
	model := mappers.ToGORMReputation(record)
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upsert reputation: %w", err)
	}
	return nil
}

func (r *DefaultReputationRepository) GetReputation(userID string) (*domain.ReputationRecord, error) {
	var model models.ReputationModel
	if err := r.DB.First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reputation for user %s", domain.ErrNotFound, userID)
		}
		return nil, err
	}
	return mappers.ToDomainReputation(&model), nil
}

type DefaultPartyStatsRepository struct {
	DB *gorm.DB
}

func NewDefaultPartyStatsRepository(db *gorm.DB) *DefaultPartyStatsRepository {
	return &DefaultPartyStatsRepository{DB: db}
}

func (r *DefaultPartyStatsRepository) AddEarnings(userID string, amount int64) error {
	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_earned":       gorm.Expr("party_stats.total_earned + ?", amount),
			"total_transactions": gorm.Expr("party_stats.total_transactions + 1"),
			"updated_at":         time.Now(),
		}),
	}).Create(&models.PartyStatsModel{
		UserID:            userID,
		TotalEarned:       amount,
		TotalTransactions: 1,
		UpdatedAt:         time.Now(),
	}).Error
	if err != nil {
		return fmt.Errorf("add earnings: %w", err)
	}
	return nil
}

func (r *DefaultPartyStatsRepository) GetEarnings(userID string) (int64, int64, error) {
	var model models.PartyStatsModel
	if err := r.DB.First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return model.TotalEarned, model.TotalTransactions, nil
}
