package repository

import (
	"errors"
	"fmt"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/mappers"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultContractRepository struct {
	DB *gorm.DB
}

func NewDefaultContractRepository(db *gorm.DB) *DefaultContractRepository {
	return &DefaultContractRepository{DB: db}
}

func (r *DefaultContractRepository) CreateContract(contract *domain.Contract) error {
	model := mappers.ToGORMContract(contract)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

func (r *DefaultContractRepository) GetContractByID(contractID string) (*domain.Contract, error) {
	var model models.ContractModel
	err := r.DB.
		Preload("StageHistory", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Disputes").
		First(&model, "id = ?", contractID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract %s", domain.ErrNotFound, contractID)
		}
		return nil, err
	}
	return mappers.ToDomainContract(&model), nil
}

// SaveContractFrom writes the contract and any new stage-history or dispute
// rows in one transaction, only while the stored stage still equals expected.
func (r *DefaultContractRepository) SaveContractFrom(contract *domain.Contract, expected domain.ContractStage) error {
	model := mappers.ToGORMContract(contract)
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ContractModel{}).
			Where("id = ? AND stage = ?", contract.ID, expected).
			Select("*").
			Omit("id", "created_at", "StageHistory", "Disputes").
			Updates(model)
		if result.Error != nil {
			return fmt.Errorf("save contract: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.ContractModel{}).Where("id = ?", contract.ID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return fmt.Errorf("%w: contract %s", domain.ErrNotFound, contract.ID)
			}
			return fmt.Errorf("%w: contract %s no longer %s", domain.ErrConflict, contract.ID, expected)
		}

		var storedStages int64
		if err := tx.Model(&models.ContractStageModel{}).Where("contract_id = ?", contract.ID).Count(&storedStages).Error; err != nil {
			return err
		}
		for _, entry := range model.StageHistory {
			if int64(entry.Seq) <= storedStages {
				continue
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("append stage history: %w", err)
			}
		}

		var storedDisputes int64
		if err := tx.Model(&models.ContractDisputeModel{}).Where("contract_id = ?", contract.ID).Count(&storedDisputes).Error; err != nil {
			return err
		}
		for i, dispute := range model.Disputes {
			if int64(i) < storedDisputes {
				continue
			}
			if err := tx.Create(&dispute).Error; err != nil {
				return fmt.Errorf("append dispute: %w", err)
			}
		}
		return nil
	})
}

func (r *DefaultContractRepository) ListForUser(userID string) ([]*domain.Contract, error) {
	var contractModels []models.ContractModel
	err := r.DB.
		Preload("StageHistory", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Disputes").
		Where("buyer_id = ? OR farmer_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&contractModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

func (r *DefaultContractRepository) ListAll() ([]*domain.Contract, error) {
	var contractModels []models.ContractModel
	err := r.DB.
		Preload("StageHistory", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Disputes").
		Order("created_at DESC").
		Find(&contractModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

func toDomainContracts(contractModels []models.ContractModel) []*domain.Contract {
	contracts := make([]*domain.Contract, 0, len(contractModels))
	for i := range contractModels {
		contracts = append(contracts, mappers.ToDomainContract(&contractModels[i]))
	}
	return contracts
}
