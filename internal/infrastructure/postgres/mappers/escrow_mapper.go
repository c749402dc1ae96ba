package mappers

import (
	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
)

func ToGORMLedger(ledger *domain.EscrowLedger) *models.EscrowLedgerModel {
	return &models.EscrowLedgerModel{
		ID:               ledger.ID,
		BuyerID:          ledger.BuyerID,
		SellerID:         ledger.SellerID,
		ContractID:       ledger.ContractID,
		PaymentRequestID: ledger.PaymentRequestID,

		Crop:       ledger.Crop,
		QuantityKg: ledger.QuantityKg,
		Amount:     ledger.Amount,
		Currency:   ledger.Currency,

		PlatformFee: ledger.PlatformFee,
		TotalFee:    ledger.TotalFee,
		SellerNet:   ledger.SellerNet,

		Status: ledger.Status,

		FundsHeld:         ledger.Funds.Held,
		FundsReleased:     ledger.Funds.Released,
		FundsRefunded:     ledger.Funds.Refunded,
		FundsFeeCollected: ledger.Funds.FeeCollected,

		PaymentMethod:      string(ledger.Payment.Method),
		PaymentStatus:      ledger.Payment.Status,
		PaymentExternalRef: ledger.Payment.ExternalRef,
		PaymentConfirmedAt: ledger.Payment.ConfirmedAt,

		DeliveryStatus:   ledger.Delivery.Status,
		TrackingID:       ledger.Delivery.TrackingID,
		PickupLocation:   ledger.Delivery.PickupLocation,
		DeliveryLocation: ledger.Delivery.DeliveryLocation,
		ActualDelivery:   ledger.Delivery.ActualDelivery,

		BuyerConfirmed:     ledger.BuyerConfirmation.Confirmed,
		BuyerConfirmedAt:   ledger.BuyerConfirmation.ConfirmedAt,
		ConfirmationPhotos: ledger.BuyerConfirmation.Photos,

		DisputeRaised:     ledger.Dispute.Raised,
		DisputeRaisedBy:   ledger.Dispute.RaisedBy,
		DisputeReason:     ledger.Dispute.Reason,
		DisputeEvidence:   ledger.Dispute.Evidence,
		DisputeRaisedAt:   ledger.Dispute.RaisedAt,
		DisputeResolution: ledger.Dispute.Resolution,
		DisputeResolvedAt: ledger.Dispute.ResolvedAt,

		BlockchainTxHash:      ledger.Blockchain.TxHash,
		BlockchainNetwork:     ledger.Blockchain.Network,
		BlockchainStatus:      ledger.Blockchain.Status,
		BlockchainConfirmedAt: ledger.Blockchain.ConfirmedAt,

		BuyerAuthorized: ledger.Release.BuyerAuthorized,
		SellerVerified:  ledger.Release.SellerVerified,
		AdminApproved:   ledger.Release.AdminApproved,
		AutoReleaseAt:   ledger.Release.AutoReleaseAt,

		GatewayOrderID:    ledger.GatewayOrderID,
		GatewayPaymentID:  ledger.GatewayPaymentID,
		GatewayTransferID: ledger.GatewayTransferID,
		PayoutAccountID:   ledger.PayoutAccountID,

		Notes: ledger.Notes,

		CreatedAt:   ledger.CreatedAt,
		UpdatedAt:   ledger.UpdatedAt,
		FundedAt:    ledger.FundedAt,
		CompletedAt: ledger.CompletedAt,
	}
}

func ToDomainLedger(model *models.EscrowLedgerModel) *domain.EscrowLedger {
	return &domain.EscrowLedger{
		ID:               model.ID,
		BuyerID:          model.BuyerID,
		SellerID:         model.SellerID,
		ContractID:       model.ContractID,
		PaymentRequestID: model.PaymentRequestID,

		Crop:       model.Crop,
		QuantityKg: model.QuantityKg,
		Amount:     model.Amount,
		Currency:   model.Currency,

		PlatformFee: model.PlatformFee,
		TotalFee:    model.TotalFee,
		SellerNet:   model.SellerNet,

		Status: model.Status,

		Funds: domain.FundBreakdown{
			Held:         model.FundsHeld,
			Released:     model.FundsReleased,
			Refunded:     model.FundsRefunded,
			FeeCollected: model.FundsFeeCollected,
		},

		Payment: domain.PaymentRecord{
			Method:      domain.PaymentMethod(model.PaymentMethod),
			Status:      model.PaymentStatus,
			ExternalRef: model.PaymentExternalRef,
			ConfirmedAt: model.PaymentConfirmedAt,
		},

		Delivery: domain.DeliveryRecord{
			Status:           model.DeliveryStatus,
			TrackingID:       model.TrackingID,
			PickupLocation:   model.PickupLocation,
			DeliveryLocation: model.DeliveryLocation,
			ActualDelivery:   model.ActualDelivery,
		},

		BuyerConfirmation: domain.BuyerConfirmation{
			Confirmed:   model.BuyerConfirmed,
			ConfirmedAt: model.BuyerConfirmedAt,
			Photos:      model.ConfirmationPhotos,
		},

		Dispute: domain.DisputeRecord{
			Raised:     model.DisputeRaised,
			RaisedBy:   model.DisputeRaisedBy,
			Reason:     model.DisputeReason,
			Evidence:   model.DisputeEvidence,
			RaisedAt:   model.DisputeRaisedAt,
			Resolution: model.DisputeResolution,
			ResolvedAt: model.DisputeResolvedAt,
		},

		Blockchain: domain.BlockchainRecord{
			TxHash:      model.BlockchainTxHash,
			Network:     model.BlockchainNetwork,
			Status:      model.BlockchainStatus,
			ConfirmedAt: model.BlockchainConfirmedAt,
		},

		Release: domain.ReleaseAuthorization{
			BuyerAuthorized: model.BuyerAuthorized,
			SellerVerified:  model.SellerVerified,
			AdminApproved:   model.AdminApproved,
			AutoReleaseAt:   model.AutoReleaseAt,
		},

		GatewayOrderID:    model.GatewayOrderID,
		GatewayPaymentID:  model.GatewayPaymentID,
		GatewayTransferID: model.GatewayTransferID,
		PayoutAccountID:   model.PayoutAccountID,

		Notes: model.Notes,

		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		FundedAt:    model.FundedAt,
		CompletedAt: model.CompletedAt,
	}
}
