package usecase

import (
	"log/slog"
	"sort"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

// Category mapping of the unified listing. Fixed; everything outside a
// category shows only under "all".
var (
	pendingContractStages   = map[domain.ContractStage]bool{domain.StageNegotiation: true}
	completedContractStages = map[domain.ContractStage]bool{domain.StageCompleted: true, domain.StagePaymentReleased: true}
	pendingEscrowStatuses   = map[domain.EscrowStatus]bool{domain.EscrowPending: true}
	completedEscrowStatuses = map[domain.EscrowStatus]bool{domain.EscrowReleased: true, domain.EscrowCompleted: true}
)

type UnifiedViewUsecase interface {
	ListForUser(userID string, category domain.StatusCategory) ([]*domain.UnifiedRecord, *domain.UnifiedSummary, error)
	ListAll(category domain.StatusCategory) ([]*domain.UnifiedRecord, *domain.UnifiedSummary, error)
}

type DefaultUnifiedViewUsecase struct {
	contractRepo domain.ContractRepository
	escrowRepo   domain.EscrowRepository
}

func NewDefaultUnifiedViewUsecase(contractRepo domain.ContractRepository, escrowRepo domain.EscrowRepository) *DefaultUnifiedViewUsecase {
	return &DefaultUnifiedViewUsecase{contractRepo: contractRepo, escrowRepo: escrowRepo}
}

// ListForUser merges the user's contracts with their standalone ledgers. A
// ledger linked to a contract shows once, inside the contract record.
func (uc *DefaultUnifiedViewUsecase) ListForUser(userID string, category domain.StatusCategory) ([]*domain.UnifiedRecord, *domain.UnifiedSummary, error) {
	contracts, err := uc.contractRepo.ListForUser(userID)
	if err != nil {
		return nil, nil, err
	}
	ledgers, _, err := uc.escrowRepo.ListForUser(userID, domain.EscrowFilters{}, 1, 1000)
	if err != nil {
		return nil, nil, err
	}
	return uc.merge(contracts, ledgers, category)
}

// ListAll is the admin view over every contract and ledger.
func (uc *DefaultUnifiedViewUsecase) ListAll(category domain.StatusCategory) ([]*domain.UnifiedRecord, *domain.UnifiedSummary, error) {
	contracts, err := uc.contractRepo.ListAll()
	if err != nil {
		return nil, nil, err
	}
	ledgers, err := uc.escrowRepo.ListAll(domain.EscrowFilters{})
	if err != nil {
		return nil, nil, err
	}
	return uc.merge(contracts, ledgers, category)
}

func (uc *DefaultUnifiedViewUsecase) merge(contracts []*domain.Contract, ledgers []*domain.EscrowLedger, category domain.StatusCategory) ([]*domain.UnifiedRecord, *domain.UnifiedSummary, error) {
	ledgersByID := make(map[string]*domain.EscrowLedger, len(ledgers))
	for _, ledger := range ledgers {
		ledgersByID[ledger.ID] = ledger
	}

	summary := &domain.UnifiedSummary{}
	records := make([]*domain.UnifiedRecord, 0, len(contracts)+len(ledgers))

	for _, contract := range contracts {
		var linked *domain.EscrowLedger
		if contract.EscrowLedgerID != "" {
			if ledger, ok := ledgersByID[contract.EscrowLedgerID]; ok {
				linked = ledger
			} else {
				slog.Warn("contract references unknown ledger", "contract_id", contract.ID, "ledger_id", contract.EscrowLedgerID)
			}
		}
		record := &domain.UnifiedRecord{
			Kind:       domain.UnifiedContract,
			ID:         contract.ID,
			Crop:       contract.Crop,
			QuantityKg: contract.QuantityKg,
			Amount:     contract.TotalValue,
			Currency:   contract.Currency,
			BuyerID:    contract.BuyerID,
			SellerID:   contract.FarmerID,
			Status:     string(contract.Stage),
			Contract:   contract,
			Escrow:     linked,
			CreatedAt:  contract.CreatedAt,
			UpdatedAt:  contract.UpdatedAt,
		}
		uc.tally(summary, record, contractCategory(contract.Stage))
		if category == domain.CategoryAll || category == "" || contractCategory(contract.Stage) == category {
			records = append(records, record)
		}
	}

	for _, ledger := range ledgers {
		// Ledgers backing a contract are already represented above.
		if ledger.ContractID != "" {
			continue
		}
		record := &domain.UnifiedRecord{
			Kind:       domain.UnifiedEscrow,
			ID:         ledger.ID,
			Crop:       ledger.Crop,
			QuantityKg: ledger.QuantityKg,
			Amount:     ledger.Amount,
			Currency:   ledger.Currency,
			BuyerID:    ledger.BuyerID,
			SellerID:   ledger.SellerID,
			Status:     string(ledger.Status),
			Escrow:     ledger,
			CreatedAt:  ledger.CreatedAt,
			UpdatedAt:  ledger.UpdatedAt,
		}
		uc.tally(summary, record, escrowCategory(ledger.Status))
		if category == domain.CategoryAll || category == "" || escrowCategory(ledger.Status) == category {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, summary, nil
}

func (uc *DefaultUnifiedViewUsecase) tally(summary *domain.UnifiedSummary, record *domain.UnifiedRecord, cat domain.StatusCategory) {
	summary.Total++
	if record.Kind == domain.UnifiedContract {
		summary.Contracts++
	} else {
		summary.Escrows++
	}
	switch cat {
	case domain.CategoryPending:
		summary.Pending++
	case domain.CategoryCompleted:
		summary.Completed++
	case domain.CategoryDispute:
		summary.Disputed++
	}
}

func contractCategory(stage domain.ContractStage) domain.StatusCategory {
	switch {
	case completedContractStages[stage]:
		return domain.CategoryCompleted
	case pendingContractStages[stage]:
		return domain.CategoryPending
	case stage == domain.StageDisputed:
		return domain.CategoryDispute
	default:
		return domain.CategoryAll
	}
}

func escrowCategory(status domain.EscrowStatus) domain.StatusCategory {
	switch {
	case completedEscrowStatuses[status]:
		return domain.CategoryCompleted
	case pendingEscrowStatuses[status]:
		return domain.CategoryPending
	case status == domain.EscrowDispute:
		return domain.CategoryDispute
	default:
		return domain.CategoryAll
	}
}
