package mappers

import (
	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
)

func ToGORMContract(contract *domain.Contract) *models.ContractModel {
	model := &models.ContractModel{
		ID:        contract.ID,
		ListingID: contract.ListingID,
		BuyerID:   contract.BuyerID,
		FarmerID:  contract.FarmerID,

		Crop:       contract.Crop,
		QuantityKg: contract.QuantityKg,
		PricePerKg: contract.PricePerKg,
		TotalValue: contract.TotalValue,
		Currency:   contract.Currency,

		DownPaymentPercent: contract.DownPaymentPercent,
		DownPaymentAmount:  contract.DownPaymentAmount,
		DownPaymentStatus:  contract.DownPaymentStatus,

		DeliveryWindowStart: contract.DeliveryWindowStart,
		DeliveryWindowEnd:   contract.DeliveryWindowEnd,

		QualityMoisturePercent: contract.Quality.MoisturePercent,
		QualityDefectLimit:     contract.Quality.DefectLimit,
		QualitySizeGrade:       contract.Quality.SizeGrade,

		Stage: contract.Stage,

		HarvestPhotos:      contract.HarvestProof.Photos,
		HarvestGPSLat:      contract.HarvestProof.GPSLat,
		HarvestGPSLng:      contract.HarvestProof.GPSLng,
		HarvestDescription: contract.HarvestProof.Description,
		HarvestSubmittedAt: contract.HarvestProof.SubmittedAt,
		HarvestByFarmer:    contract.HarvestProof.ByFarmer,

		Verified:          contract.Verification.Verified,
		VerifiedByAdmin:   contract.Verification.ByAdmin,
		VerificationNotes: contract.Verification.Notes,
		VerificationFine:  contract.Verification.Penalty,
		VerifiedAt:        contract.Verification.VerifiedAt,

		EscrowLedgerID: contract.EscrowLedgerID,

		CreatedAt:   contract.CreatedAt,
		UpdatedAt:   contract.UpdatedAt,
		CompletedAt: contract.CompletedAt,
	}
	for _, entry := range contract.StageHistory {
		model.StageHistory = append(model.StageHistory, models.ContractStageModel{
			ContractID: contract.ID,
			Seq:        entry.Seq,
			Stage:      entry.Stage,
			Timestamp:  entry.Timestamp,
			ActorID:    entry.ActorID,
		})
	}
	for _, dispute := range contract.Disputes {
		model.Disputes = append(model.Disputes, models.ContractDisputeModel{
			ContractID: contract.ID,
			RaisedBy:   dispute.RaisedBy,
			Reason:     dispute.Reason,
			Evidence:   dispute.Evidence,
			Resolution: dispute.Resolution,
			RaisedAt:   dispute.RaisedAt,
		})
	}
	return model
}

func ToDomainContract(model *models.ContractModel) *domain.Contract {
	contract := &domain.Contract{
		ID:        model.ID,
		ListingID: model.ListingID,
		BuyerID:   model.BuyerID,
		FarmerID:  model.FarmerID,

		Crop:       model.Crop,
		QuantityKg: model.QuantityKg,
		PricePerKg: model.PricePerKg,
		TotalValue: model.TotalValue,
		Currency:   model.Currency,

		DownPaymentPercent: model.DownPaymentPercent,
		DownPaymentAmount:  model.DownPaymentAmount,
		DownPaymentStatus:  model.DownPaymentStatus,

		DeliveryWindowStart: model.DeliveryWindowStart,
		DeliveryWindowEnd:   model.DeliveryWindowEnd,

		Quality: domain.QualityStandards{
			MoisturePercent: model.QualityMoisturePercent,
			DefectLimit:     model.QualityDefectLimit,
			SizeGrade:       model.QualitySizeGrade,
		},

		Stage: model.Stage,

		HarvestProof: domain.HarvestProof{
			Photos:      model.HarvestPhotos,
			GPSLat:      model.HarvestGPSLat,
			GPSLng:      model.HarvestGPSLng,
			Description: model.HarvestDescription,
			SubmittedAt: model.HarvestSubmittedAt,
			ByFarmer:    model.HarvestByFarmer,
		},

		Verification: domain.ContractVerification{
			Verified:   model.Verified,
			ByAdmin:    model.VerifiedByAdmin,
			Notes:      model.VerificationNotes,
			Penalty:    model.VerificationFine,
			VerifiedAt: model.VerifiedAt,
		},

		EscrowLedgerID: model.EscrowLedgerID,

		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		CompletedAt: model.CompletedAt,
	}
	for _, entry := range model.StageHistory {
		contract.StageHistory = append(contract.StageHistory, domain.StageEntry{
			Seq:       entry.Seq,
			Stage:     entry.Stage,
			Timestamp: entry.Timestamp,
			ActorID:   entry.ActorID,
		})
	}
	for _, dispute := range model.Disputes {
		contract.Disputes = append(contract.Disputes, domain.ContractDispute{
			RaisedBy:   dispute.RaisedBy,
			Reason:     dispute.Reason,
			Evidence:   dispute.Evidence,
			Resolution: dispute.Resolution,
			RaisedAt:   dispute.RaisedAt,
		})
	}
	return contract
}
