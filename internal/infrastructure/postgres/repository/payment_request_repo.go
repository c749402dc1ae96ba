package repository

import (
	"errors"
	"fmt"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/mappers"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRequestRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRequestRepository(db *gorm.DB) *DefaultPaymentRequestRepository {
	return &DefaultPaymentRequestRepository{DB: db}
}

func (r *DefaultPaymentRequestRepository) CreateRequest(request *domain.PaymentRequest) error {
	model := mappers.ToGORMRequest(request)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("create payment request: %w", err)
	}
	return nil
}

func (r *DefaultPaymentRequestRepository) GetRequestByID(requestID string) (*domain.PaymentRequest, error) {
	var model models.PaymentRequestModel
	if err := r.DB.First(&model, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment request %s", domain.ErrNotFound, requestID)
		}
		return nil, err
	}
	return mappers.ToDomainRequest(&model), nil
}

func (r *DefaultPaymentRequestRepository) SaveRequestFrom(request *domain.PaymentRequest, expected domain.PaymentRequestStatus) error {
	model := mappers.ToGORMRequest(request)
	result := r.DB.Model(&models.PaymentRequestModel{}).
		Where("id = ? AND status = ?", request.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("save payment request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.DB.Model(&models.PaymentRequestModel{}).Where("id = ?", request.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: payment request %s", domain.ErrNotFound, request.ID)
		}
		return fmt.Errorf("%w: payment request %s no longer %s", domain.ErrConflict, request.ID, expected)
	}
	return nil
}

func (r *DefaultPaymentRequestRepository) ListReceived(recipientID string, statuses []domain.PaymentRequestStatus) ([]*domain.PaymentRequest, error) {
	query := r.DB.Where("recipient_id = ?", recipientID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var requestModels []models.PaymentRequestModel
	if err := query.Order("created_at DESC").Find(&requestModels).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

func (r *DefaultPaymentRequestRepository) ListSent(senderID string) ([]*domain.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	err := r.DB.
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

func (r *DefaultPaymentRequestRepository) ListCompleted(userID string) ([]*domain.PaymentRequest, error) {
	var requestModels []models.PaymentRequestModel
	err := r.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Where("status = ?", domain.RequestPaid).
		Order("updated_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRequests(requestModels), nil
}

func toDomainRequests(requestModels []models.PaymentRequestModel) []*domain.PaymentRequest {
	requests := make([]*domain.PaymentRequest, 0, len(requestModels))
	for i := range requestModels {
		requests = append(requests, mappers.ToDomainRequest(&requestModels[i]))
	}
	return requests
}
