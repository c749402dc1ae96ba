package mappers

import (
	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
)

func ToGORMRequest(request *domain.PaymentRequest) *models.PaymentRequestModel {
	return &models.PaymentRequestModel{
		ID:             request.ID,
		SenderID:       request.SenderID,
		SenderName:     request.SenderName,
		SenderPhone:    request.SenderPhone,
		RecipientID:    request.RecipientID,
		RecipientName:  request.RecipientName,
		RecipientPhone: request.RecipientPhone,

		Crop:              request.Crop,
		QuantityKg:        request.QuantityKg,
		Amount:            request.Amount,
		AdvancePercentage: request.AdvancePercentage,
		AdvanceAmount:     request.AdvanceAmount,
		Description:       request.Description,
		Bidirectional:     request.Bidirectional,

		Status:           request.Status,
		RejectionReason:  request.RejectionReason,
		EscrowLedgerID:   request.EscrowLedgerID,
		LinkedContractID: request.LinkedContractID,

		DueDate:    request.DueDate,
		AcceptedAt: request.AcceptedAt,
		RejectedAt: request.RejectedAt,
		PaidAt:     request.PaidAt,
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
	}
}

func ToDomainRequest(model *models.PaymentRequestModel) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		ID:             model.ID,
		SenderID:       model.SenderID,
		SenderName:     model.SenderName,
		SenderPhone:    model.SenderPhone,
		RecipientID:    model.RecipientID,
		RecipientName:  model.RecipientName,
		RecipientPhone: model.RecipientPhone,

		Crop:              model.Crop,
		QuantityKg:        model.QuantityKg,
		Amount:            model.Amount,
		AdvancePercentage: model.AdvancePercentage,
		AdvanceAmount:     model.AdvanceAmount,
		Description:       model.Description,
		Bidirectional:     model.Bidirectional,

		Status:           model.Status,
		RejectionReason:  model.RejectionReason,
		EscrowLedgerID:   model.EscrowLedgerID,
		LinkedContractID: model.LinkedContractID,

		DueDate:    model.DueDate,
		AcceptedAt: model.AcceptedAt,
		RejectedAt: model.RejectedAt,
		PaidAt:     model.PaidAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
