package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/metrics"
	contractdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/contract"
	escrowdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/escrow"
	"github.com/google/uuid"
)

var allowedDownPaymentPercents = map[int]bool{10: true, 20: true, 30: true}

type ContractUsecase interface {
	CreateContract(input *contractdto.CreateContractInput) (*domain.Contract, error)
	SignContract(contractID, farmerID string) (*domain.Contract, error)
	ConfirmPayment(input *contractdto.ConfirmContractPaymentInput) (*domain.Contract, error)
	SubmitHarvest(input *contractdto.SubmitHarvestInput) (*domain.Contract, error)
	VerifyAndComplete(ctx context.Context, input *contractdto.VerifyAndCompleteInput) (*domain.Contract, error)
	RaiseDispute(input *contractdto.ContractDisputeInput) (*domain.Contract, error)

	GetContract(contractID, actorID, actorRole string) (*domain.Contract, error)
	OrderStatus(contractID, actorID, actorRole string) (*contractdto.OrderStatusOutput, error)
	ListForUser(userID string) ([]*domain.Contract, error)
}

type DefaultContractUsecase struct {
	contractRepo domain.ContractRepository
	escrowRepo   domain.EscrowRepository
	escrow       EscrowUsecase
	partyStats   domain.PartyStatsRepository
	reputation   ReputationUsecase
	notifier     domain.NotificationDispatcher
	metrics      *metrics.TradeMetrics
}

func NewDefaultContractUsecase(
	contractRepo domain.ContractRepository,
	escrowRepo domain.EscrowRepository,
	escrow EscrowUsecase,
	partyStats domain.PartyStatsRepository,
	reputation ReputationUsecase,
	notifier domain.NotificationDispatcher,
	tradeMetrics *metrics.TradeMetrics,
) *DefaultContractUsecase {
	return &DefaultContractUsecase{
		contractRepo: contractRepo,
		escrowRepo:   escrowRepo,
		escrow:       escrow,
		partyStats:   partyStats,
		reputation:   reputation,
		notifier:     notifier,
		metrics:      tradeMetrics,
	}
}

// CreateContract fixes the terms, opens the contract in negotiation and
// allocates the escrow ledger for the down payment. TotalValue is computed
// once here and never recomputed.
func (uc *DefaultContractUsecase) CreateContract(input *contractdto.CreateContractInput) (*domain.Contract, error) {
	if input.QuantityKg <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrValidation)
	}
	if input.PricePerKg <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	}
	if input.BuyerID == "" || input.FarmerID == "" || input.Crop == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	if input.BuyerID == input.FarmerID {
		return nil, fmt.Errorf("%w: buyer and farmer must differ", domain.ErrValidation)
	}
	if !input.DeliveryWindowEnd.IsZero() && input.DeliveryWindowEnd.Before(input.DeliveryWindowStart) {
		return nil, fmt.Errorf("%w: delivery window end precedes start", domain.ErrValidation)
	}
	percent := input.DownPaymentPercent
	if percent == 0 {
		percent = 20
	}
	if !allowedDownPaymentPercents[percent] {
		return nil, fmt.Errorf("%w: down payment percent must be 10, 20 or 30", domain.ErrValidation)
	}

	totalValue := int64(math.Round(input.QuantityKg * float64(input.PricePerKg)))
	downPayment := totalValue * int64(percent) / 100
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	now := time.Now()
	contract := &domain.Contract{
		ID:                  uuid.New().String(),
		ListingID:           input.ListingID,
		BuyerID:             input.BuyerID,
		FarmerID:            input.FarmerID,
		Crop:                input.Crop,
		QuantityKg:          input.QuantityKg,
		PricePerKg:          input.PricePerKg,
		TotalValue:          totalValue,
		Currency:            currency,
		DownPaymentPercent:  percent,
		DownPaymentAmount:   downPayment,
		DownPaymentStatus:   domain.DownPaymentPending,
		DeliveryWindowStart: input.DeliveryWindowStart,
		DeliveryWindowEnd:   input.DeliveryWindowEnd,
		Quality:             input.Quality,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	contract.PushStage(domain.StageNegotiation, input.BuyerID, now)

	// The ledger comes first so the contract is stored with its link in a
	// single write. A failed contract write unwinds the pending allocation.
	ledger, err := uc.escrow.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:          input.BuyerID,
		SellerID:         input.FarmerID,
		ContractID:       contract.ID,
		PaymentRequestID: input.PaymentRequestID,
		Crop:             input.Crop,
		QuantityKg:       input.QuantityKg,
		Amount:           downPayment,
		Currency:         currency,
		PayoutAccountID:  input.PayoutAccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("allocate escrow for contract %s: %w", contract.ID, err)
	}
	contract.EscrowLedgerID = ledger.ID
	if err := uc.contractRepo.CreateContract(contract); err != nil {
		if discardErr := uc.escrow.DiscardPending(ledger.ID); discardErr != nil {
			slog.Error("discard escrow after failed contract create", "ledger_id", ledger.ID, "error", discardErr)
		}
		return nil, err
	}

	uc.metrics.ContractCreated(contract.Crop)
	uc.notify(contract.FarmerID, domain.EventContractCreated, map[string]string{
		"contract_id": contract.ID,
		"crop":        contract.Crop,
	})
	return contract, nil
}

// SignContract is the farmer accepting the terms: negotiation -> signed.
func (uc *DefaultContractUsecase) SignContract(contractID, farmerID string) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(contractID)
	if err != nil {
		return nil, err
	}
	if farmerID != contract.FarmerID {
		return nil, fmt.Errorf("%w: only the farmer can sign", domain.ErrUnauthorized)
	}
	if contract.Stage != domain.StageNegotiation {
		return nil, fmt.Errorf("%w: contract is %s, expected negotiation", domain.ErrPrecondition, contract.Stage)
	}

	now := time.Now()
	contract.PushStage(domain.StageSigned, farmerID, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageNegotiation); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageSigned))
	return contract, nil
}

// ConfirmPayment acknowledges the funded down payment: signed -> escrowed ->
// in_progress. The backing ledger must already be funded through the payment
// flow; the contract never moves money itself.
func (uc *DefaultContractUsecase) ConfirmPayment(input *contractdto.ConfirmContractPaymentInput) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(input.ContractID)
	if err != nil {
		return nil, err
	}
	if input.ActorID != contract.BuyerID {
		return nil, fmt.Errorf("%w: only the buyer can confirm payment", domain.ErrUnauthorized)
	}
	if contract.Stage != domain.StageSigned {
		return nil, fmt.Errorf("%w: contract is %s, expected signed", domain.ErrPrecondition, contract.Stage)
	}
	ledger, err := uc.escrowRepo.GetLedgerByID(contract.EscrowLedgerID)
	if err != nil {
		return nil, err
	}
	if ledger.Status != domain.EscrowFunded && ledger.Status != domain.EscrowConfirmed {
		return nil, fmt.Errorf("%w: down payment not in escrow yet", domain.ErrPrecondition)
	}

	now := time.Now()
	contract.DownPaymentStatus = domain.DownPaymentEscrowed
	contract.PushStage(domain.StageEscrowed, input.ActorID, now)
	contract.PushStage(domain.StageInProgress, input.ActorID, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageSigned); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageInProgress))
	uc.notify(contract.FarmerID, domain.EventPaymentConfirmed, map[string]string{
		"contract_id": contract.ID,
	})
	return contract, nil
}

// SubmitHarvest records the farmer's harvest proof: in_progress ->
// harvest_submitted. Rejected until the down payment sits in escrow.
func (uc *DefaultContractUsecase) SubmitHarvest(input *contractdto.SubmitHarvestInput) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(input.ContractID)
	if err != nil {
		return nil, err
	}
	if input.FarmerID != contract.FarmerID {
		return nil, fmt.Errorf("%w: only the farmer can submit harvest", domain.ErrUnauthorized)
	}
	if contract.DownPaymentStatus != domain.DownPaymentEscrowed {
		return nil, fmt.Errorf("%w: down payment not escrowed", domain.ErrPrecondition)
	}
	if contract.Stage != domain.StageInProgress {
		return nil, fmt.Errorf("%w: contract is %s, expected in_progress", domain.ErrPrecondition, contract.Stage)
	}
	if len(input.Photos) == 0 {
		return nil, fmt.Errorf("%w: harvest proof requires at least one photo", domain.ErrValidation)
	}

	now := time.Now()
	contract.HarvestProof = domain.HarvestProof{
		Photos:      input.Photos,
		GPSLat:      input.GPSLat,
		GPSLng:      input.GPSLng,
		Description: input.Description,
		SubmittedAt: now,
		ByFarmer:    true,
	}
	contract.PushStage(domain.StageHarvestSubmitted, input.FarmerID, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageInProgress); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageHarvestSubmitted))
	uc.notify(contract.BuyerID, domain.EventHarvestSubmitted, map[string]string{
		"contract_id": contract.ID,
		"crop":        contract.Crop,
	})
	return contract, nil
}

// VerifyAndComplete settles the contract from the harvest verification
// outcome. Verified: the contract runs through delivery, the escrow releases
// and the contract completes; if the release fails the contract rolls back
// to harvest_submitted and the funds stay in custody. Not verified: ledger
// and contract both go to dispute and nothing is released.
func (uc *DefaultContractUsecase) VerifyAndComplete(ctx context.Context, input *contractdto.VerifyAndCompleteInput) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(input.ContractID)
	if err != nil {
		return nil, err
	}
	if input.ActorID != contract.BuyerID && input.ActorRole != "admin" {
		return nil, fmt.Errorf("%w: only the buyer or admin can verify", domain.ErrUnauthorized)
	}
	if contract.Stage != domain.StageHarvestSubmitted {
		return nil, fmt.Errorf("%w: contract is %s, expected harvest_submitted", domain.ErrPrecondition, contract.Stage)
	}

	if !input.Verified {
		return uc.failVerification(contract, input)
	}

	now := time.Now()
	contract.Verification = domain.ContractVerification{
		Verified:   true,
		ByAdmin:    input.ActorRole == "admin",
		Notes:      input.Notes,
		VerifiedAt: now,
	}
	contract.PushStage(domain.StageVerification, input.ActorID, now)
	contract.PushStage(domain.StageDelivered, input.ActorID, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageHarvestSubmitted); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageDelivered))

	ledger, err := uc.escrow.ConfirmAndRelease(ctx, contract.EscrowLedgerID, input.ActorID)
	if err != nil {
		// Release failed: funds stay in custody, contract returns to the
		// pre-verification stage so the operation can be retried.
		rollbackAt := time.Now()
		contract.Verification = domain.ContractVerification{}
		contract.PushStage(domain.StageHarvestSubmitted, input.ActorID, rollbackAt)
		contract.UpdatedAt = rollbackAt
		if saveErr := uc.contractRepo.SaveContractFrom(contract, domain.StageDelivered); saveErr != nil {
			slog.Error("verification rollback failed", "contract_id", contract.ID, "error", saveErr)
		}
		return nil, fmt.Errorf("release escrow for contract %s: %w", contract.ID, err)
	}

	completedAt := time.Now()
	contract.PushStage(domain.StagePaymentReleased, input.ActorID, completedAt)
	contract.PushStage(domain.StageCompleted, input.ActorID, completedAt)
	contract.CompletedAt = completedAt
	contract.UpdatedAt = completedAt
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageDelivered); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageCompleted))

	if uc.partyStats != nil {
		if err := uc.partyStats.AddEarnings(contract.FarmerID, ledger.SellerNet); err != nil {
			slog.Error("update farmer earnings failed", "farmer_id", contract.FarmerID, "error", err)
		}
	}
	if uc.reputation != nil {
		if _, err := uc.reputation.Recompute(contract.FarmerID); err != nil {
			slog.Error("reputation recompute failed", "user_id", contract.FarmerID, "error", err)
		}
	}
	uc.notify(contract.FarmerID, domain.EventFundsReleased, map[string]string{
		"contract_id": contract.ID,
		"amount":      fmt.Sprintf("%d", ledger.SellerNet),
	})
	uc.notify(contract.BuyerID, domain.EventHarvestVerified, map[string]string{
		"contract_id": contract.ID,
	})
	return contract, nil
}

// failVerification disputes the escrow first, then the contract. If the
// ledger dispute cannot be recorded the contract stays untouched.
func (uc *DefaultContractUsecase) failVerification(contract *domain.Contract, input *contractdto.VerifyAndCompleteInput) (*domain.Contract, error) {
	reason := input.Notes
	if reason == "" {
		reason = "harvest verification failed"
	}
	if _, err := uc.escrow.RaiseDispute(&escrowdto.RaiseDisputeInput{
		LedgerID: contract.EscrowLedgerID,
		RaisedBy: contract.BuyerID,
		Reason:   reason,
	}); err != nil {
		return nil, fmt.Errorf("dispute escrow for contract %s: %w", contract.ID, err)
	}

	now := time.Now()
	contract.Verification = domain.ContractVerification{
		Verified:   false,
		ByAdmin:    input.ActorRole == "admin",
		Notes:      input.Notes,
		VerifiedAt: now,
	}
	contract.Disputes = append(contract.Disputes, domain.ContractDispute{
		RaisedBy: input.ActorID,
		Reason:   reason,
		RaisedAt: now,
	})
	contract.PushStage(domain.StageDisputed, input.ActorID, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, domain.StageHarvestSubmitted); err != nil {
		return nil, err
	}
	uc.metrics.ContractTransition(string(domain.StageDisputed))
	uc.notify(contract.FarmerID, domain.EventDisputeRaised, map[string]string{
		"contract_id": contract.ID,
		"reason":      reason,
	})
	return contract, nil
}

func (uc *DefaultContractUsecase) RaiseDispute(input *contractdto.ContractDisputeInput) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(input.ContractID)
	if err != nil {
		return nil, err
	}
	if input.RaisedBy != contract.BuyerID && input.RaisedBy != contract.FarmerID {
		return nil, fmt.Errorf("%w: only involved parties can raise a dispute", domain.ErrUnauthorized)
	}
	if contract.Stage.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", domain.ErrPrecondition, contract.Stage)
	}

	now := time.Now()
	from := contract.Stage
	contract.Disputes = append(contract.Disputes, domain.ContractDispute{
		RaisedBy: input.RaisedBy,
		Reason:   input.Reason,
		Evidence: input.Evidence,
		RaisedAt: now,
	})
	contract.PushStage(domain.StageDisputed, input.RaisedBy, now)
	contract.UpdatedAt = now
	if err := uc.contractRepo.SaveContractFrom(contract, from); err != nil {
		return nil, err
	}

	// Freeze the backing ledger alongside the contract, best effort when the
	// ledger is already terminal.
	if contract.EscrowLedgerID != "" {
		if _, err := uc.escrow.RaiseDispute(&escrowdto.RaiseDisputeInput{
			LedgerID: contract.EscrowLedgerID,
			RaisedBy: input.RaisedBy,
			Reason:   input.Reason,
			Evidence: input.Evidence,
		}); err != nil {
			slog.Error("escrow dispute alongside contract failed", "contract_id", contract.ID, "error", err)
		}
	}
	uc.metrics.ContractTransition(string(domain.StageDisputed))
	counterparty := contract.FarmerID
	if input.RaisedBy == contract.FarmerID {
		counterparty = contract.BuyerID
	}
	uc.notify(counterparty, domain.EventDisputeRaised, map[string]string{
		"contract_id": contract.ID,
		"reason":      input.Reason,
	})
	return contract, nil
}

func (uc *DefaultContractUsecase) GetContract(contractID, actorID, actorRole string) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetContractByID(contractID)
	if err != nil {
		return nil, err
	}
	if actorID != contract.BuyerID && actorID != contract.FarmerID && actorRole != "admin" {
		return nil, fmt.Errorf("%w: not a party to this contract", domain.ErrUnauthorized)
	}
	return contract, nil
}

// OrderStatus is the compact tracking view used by order-status clients.
func (uc *DefaultContractUsecase) OrderStatus(contractID, actorID, actorRole string) (*contractdto.OrderStatusOutput, error) {
	contract, err := uc.GetContract(contractID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	isPaid := contract.DownPaymentStatus == domain.DownPaymentEscrowed ||
		contract.Stage == domain.StagePaymentReleased || contract.Stage == domain.StageCompleted
	isCompleted := contract.Stage == domain.StageCompleted
	current := "pending"
	if isPaid {
		current = "payment_confirmed"
	}
	if isCompleted {
		current = "completed"
	}
	return &contractdto.OrderStatusOutput{
		ContractID:        contract.ID,
		Stage:             string(contract.Stage),
		CurrentStatus:     current,
		IsPaid:            isPaid,
		IsCompleted:       isCompleted,
		DownPaymentAmount: contract.DownPaymentAmount,
		TotalValue:        contract.TotalValue,
		Crop:              contract.Crop,
		QuantityKg:        contract.QuantityKg,
		HarvestVerified:   contract.Verification.Verified,
		PaymentReleased:   contract.Stage == domain.StagePaymentReleased || contract.Stage == domain.StageCompleted,
	}, nil
}

func (uc *DefaultContractUsecase) ListForUser(userID string) ([]*domain.Contract, error) {
	return uc.contractRepo.ListForUser(userID)
}

func (uc *DefaultContractUsecase) notify(userID, eventType string, payload map[string]string) {
	if uc.notifier == nil || userID == "" {
		return
	}
	if err := uc.notifier.Notify(context.Background(), userID, eventType, payload); err != nil {
		slog.Error("notification failed", "event", eventType, "user_id", userID, "error", err)
	}
}
