package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/mappers"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) CreateLedger(ledger *domain.EscrowLedger) error {
	model := mappers.ToGORMLedger(ledger)
	if err := r.DB.Create(model).Error; err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	return nil
}

func (r *DefaultEscrowRepository) GetLedgerByID(ledgerID string) (*domain.EscrowLedger, error) {
	var model models.EscrowLedgerModel
	if err := r.DB.First(&model, "id = ?", ledgerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledgerID)
		}
		return nil, err
	}
	return mappers.ToDomainLedger(&model), nil
}

func (r *DefaultEscrowRepository) GetLedgerByGatewayOrderID(orderID string) (*domain.EscrowLedger, error) {
	var model models.EscrowLedgerModel
	if err := r.DB.First(&model, "gateway_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ledger for gateway order %s", domain.ErrNotFound, orderID)
		}
		return nil, err
	}
	return mappers.ToDomainLedger(&model), nil
}

// SaveLedgerFrom writes the ledger only while the stored status still equals
// expected. Concurrent writers lose with ErrConflict, never a double write.
func (r *DefaultEscrowRepository) SaveLedgerFrom(ledger *domain.EscrowLedger, expected domain.EscrowStatus) error {
	model := mappers.ToGORMLedger(ledger)
	result := r.DB.Model(&models.EscrowLedgerModel{}).
		Where("id = ? AND status = ?", ledger.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("save ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.DB.Model(&models.EscrowLedgerModel{}).Where("id = ?", ledger.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledger.ID)
		}
		return fmt.Errorf("%w: ledger %s no longer %s", domain.ErrConflict, ledger.ID, expected)
	}
	return nil
}

// DeleteLedgerFrom removes the ledger only while the stored status still
// equals expected, so a ledger funded in the meantime survives.
func (r *DefaultEscrowRepository) DeleteLedgerFrom(ledgerID string, expected domain.EscrowStatus) error {
	result := r.DB.
		Where("id = ? AND status = ?", ledgerID, expected).
		Delete(&models.EscrowLedgerModel{})
	if result.Error != nil {
		return fmt.Errorf("delete ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.DB.Model(&models.EscrowLedgerModel{}).Where("id = ?", ledgerID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledgerID)
		}
		return fmt.Errorf("%w: ledger %s no longer %s", domain.ErrConflict, ledgerID, expected)
	}
	return nil
}

// FindAutoReleasable returns confirmed ledgers past their auto-release time.
// Disputed ledgers never match because the status moved off confirmed.
func (r *DefaultEscrowRepository) FindAutoReleasable(now time.Time) ([]*domain.EscrowLedger, error) {
	var ledgerModels []models.EscrowLedgerModel
	err := r.DB.
		Where("status = ?", domain.EscrowConfirmed).
		Where("auto_release_at > ?", time.Time{}).
		Where("auto_release_at <= ?", now).
		Find(&ledgerModels).Error
	if err != nil {
		return nil, err
	}
	ledgers := make([]*domain.EscrowLedger, 0, len(ledgerModels))
	for i := range ledgerModels {
		ledgers = append(ledgers, mappers.ToDomainLedger(&ledgerModels[i]))
	}
	return ledgers, nil
}

func (r *DefaultEscrowRepository) ListForUser(userID string, filters domain.EscrowFilters, page, limit int64) ([]*domain.EscrowLedger, int64, error) {
	query := r.DB.Model(&models.EscrowLedgerModel{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)
	query = applyEscrowFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ledgerModels []models.EscrowLedgerModel
	err := query.
		Order("created_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&ledgerModels).Error
	if err != nil {
		return nil, 0, err
	}

	ledgers := make([]*domain.EscrowLedger, 0, len(ledgerModels))
	for i := range ledgerModels {
		ledgers = append(ledgers, mappers.ToDomainLedger(&ledgerModels[i]))
	}
	return ledgers, total, nil
}

func (r *DefaultEscrowRepository) ListAll(filters domain.EscrowFilters) ([]*domain.EscrowLedger, error) {
	query := applyEscrowFilters(r.DB.Model(&models.EscrowLedgerModel{}), filters)

	var ledgerModels []models.EscrowLedgerModel
	if err := query.Order("created_at DESC").Find(&ledgerModels).Error; err != nil {
		return nil, err
	}
	ledgers := make([]*domain.EscrowLedger, 0, len(ledgerModels))
	for i := range ledgerModels {
		ledgers = append(ledgers, mappers.ToDomainLedger(&ledgerModels[i]))
	}
	return ledgers, nil
}

func (r *DefaultEscrowRepository) CountForSeller(sellerID string, statuses []domain.EscrowStatus) (int64, error) {
	query := r.DB.Model(&models.EscrowLedgerModel{}).Where("seller_id = ?", sellerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyEscrowFilters(query *gorm.DB, filters domain.EscrowFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Crop != "" {
		query = query.Where("crop = ?", filters.Crop)
	}
	return query
}
