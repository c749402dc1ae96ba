package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/metrics"
	escrowdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/escrow"
	"github.com/jaevor/go-nanoid"
)

type EscrowUsecase interface {
	Initiate(input *escrowdto.InitiateEscrowInput) (*domain.EscrowLedger, error)
	DiscardPending(ledgerID string) error
	ConfirmPayment(input *escrowdto.ConfirmPaymentInput) (*domain.EscrowLedger, error)
	ConfirmDelivery(input *escrowdto.ConfirmDeliveryInput) (*domain.EscrowLedger, error)
	Release(ctx context.Context, ledgerID, actorID, actorRole string) (*domain.EscrowLedger, error)
	ReleaseDue(ctx context.Context) error
	RaiseDispute(input *escrowdto.RaiseDisputeInput) (*domain.EscrowLedger, error)
	ResolveDispute(ctx context.Context, input *escrowdto.ResolveDisputeInput) (*domain.EscrowLedger, error)

	CreatePaymentOrder(ctx context.Context, ledgerID, actorID string) (*domain.PaymentOrder, error)
	VerifyGatewayPayment(ctx context.Context, orderID, paymentID, signature, actorID string) (*domain.EscrowLedger, error)
	ConfirmAndRelease(ctx context.Context, ledgerID, actorID string) (*domain.EscrowLedger, error)
	InitiateRefund(ledgerID, actorID, reason string) (*domain.EscrowLedger, error)
	RecordBlockchainHash(ledgerID, txHash, network string) (*domain.EscrowLedger, error)

	GetLedgerByID(ledgerID, actorID, actorRole string) (*domain.EscrowLedger, error)
	ListForUser(userID string, filters domain.EscrowFilters, page, limit int64) ([]*domain.EscrowLedger, int64, error)
}

type DefaultEscrowUsecase struct {
	escrowRepo     domain.EscrowRepository
	requestRepo    domain.PaymentRequestRepository
	gateway        domain.PaymentGateway
	notifier       domain.NotificationDispatcher
	metrics        *metrics.TradeMetrics
	gatewayTimeout time.Duration
	gracePeriod    time.Duration
	feeBps         int64
	newID          func() string
}

func NewDefaultEscrowUsecase(
	escrowRepo domain.EscrowRepository,
	requestRepo domain.PaymentRequestRepository,
	gateway domain.PaymentGateway,
	notifier domain.NotificationDispatcher,
	tradeMetrics *metrics.TradeMetrics,
	gatewayTimeout, gracePeriod time.Duration,
	feeBps int64,
) *DefaultEscrowUsecase {
	idGenerator, err := nanoid.CustomASCII("0123456789abcdefghijklmnopqrstuvwxyz", 12)
	if err != nil {
		panic(err)
	}
	if feeBps <= 0 {
		feeBps = domain.DefaultPlatformFeeBps
	}
	if gracePeriod <= 0 {
		gracePeriod = 5 * 24 * time.Hour
	}
	if gatewayTimeout <= 0 {
		gatewayTimeout = 10 * time.Second
	}
	return &DefaultEscrowUsecase{
		escrowRepo:     escrowRepo,
		requestRepo:    requestRepo,
		gateway:        gateway,
		notifier:       notifier,
		metrics:        tradeMetrics,
		gatewayTimeout: gatewayTimeout,
		gracePeriod:    gracePeriod,
		feeBps:         feeBps,
		newID:          func() string { return "TXN-" + idGenerator() },
	}
}

func (uc *DefaultEscrowUsecase) Initiate(input *escrowdto.InitiateEscrowInput) (*domain.EscrowLedger, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}
	if input.QuantityKg <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrValidation)
	}
	if input.BuyerID == "" || input.Crop == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}

	fee := domain.PlatformFee(input.Amount, uc.feeBps)
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}
	now := time.Now()
	ledger := &domain.EscrowLedger{
		ID:               uc.newID(),
		BuyerID:          input.BuyerID,
		SellerID:         input.SellerID,
		ContractID:       input.ContractID,
		PaymentRequestID: input.PaymentRequestID,
		Crop:             input.Crop,
		QuantityKg:       input.QuantityKg,
		Amount:           input.Amount,
		Currency:         currency,
		PlatformFee:      fee,
		TotalFee:         fee,
		SellerNet:        input.Amount - fee,
		Status:           domain.EscrowPending,
		Payment:          domain.PaymentRecord{Method: domain.PaymentMethodGateway, Status: "pending"},
		Delivery:         domain.DeliveryRecord{Status: "pending"},
		PayoutAccountID:  input.PayoutAccountID,
		Notes:            input.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.escrowRepo.CreateLedger(ledger); err != nil {
		return nil, err
	}
	uc.metrics.LedgerCreated(string(ledger.Status), ledger.Currency, ledger.Amount)
	return ledger, nil
}

// DiscardPending unwinds a ledger whose surrounding operation failed before
// anything could fund it. The conditional delete refuses to touch a ledger
// that moved past pending.
func (uc *DefaultEscrowUsecase) DiscardPending(ledgerID string) error {
	return uc.escrowRepo.DeleteLedgerFrom(ledgerID, domain.EscrowPending)
}

// ConfirmPayment moves pending -> funded and takes the full amount into
// custody. Only the buyer may confirm.
func (uc *DefaultEscrowUsecase) ConfirmPayment(input *escrowdto.ConfirmPaymentInput) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(input.LedgerID)
	if err != nil {
		return nil, err
	}
	if input.ActorID != ledger.BuyerID {
		return nil, fmt.Errorf("%w: only buyer can confirm payment", domain.ErrUnauthorized)
	}
	if ledger.Status != domain.EscrowPending {
		return nil, fmt.Errorf("%w: ledger is %s, expected pending", domain.ErrPrecondition, ledger.Status)
	}

	now := time.Now()
	ledger.Status = domain.EscrowFunded
	ledger.Funds.Held = ledger.Amount
	ledger.Payment.Status = "confirmed"
	ledger.Payment.ExternalRef = input.ExternalRef
	ledger.Payment.ConfirmedAt = now
	ledger.FundedAt = now
	ledger.UpdatedAt = now

	if err := uc.escrowRepo.SaveLedgerFrom(ledger, domain.EscrowPending); err != nil {
		return nil, err
	}
	uc.markRequestPaid(ledger)
	uc.metrics.LedgerTransition(string(domain.EscrowFunded))
	uc.notify(ledger.SellerID, domain.EventPaymentConfirmed, map[string]string{
		"ledger_id": ledger.ID,
		"crop":      ledger.Crop,
	})
	return ledger, nil
}

// ConfirmDelivery moves funded -> confirmed and schedules auto-release after
// the configured grace period.
func (uc *DefaultEscrowUsecase) ConfirmDelivery(input *escrowdto.ConfirmDeliveryInput) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(input.LedgerID)
	if err != nil {
		return nil, err
	}
	if input.ActorID != ledger.BuyerID {
		return nil, fmt.Errorf("%w: only buyer can confirm delivery", domain.ErrUnauthorized)
	}
	if ledger.Status != domain.EscrowFunded {
		return nil, fmt.Errorf("%w: ledger is %s, expected funded", domain.ErrPrecondition, ledger.Status)
	}

	now := time.Now()
	ledger.Status = domain.EscrowConfirmed
	ledger.BuyerConfirmation = domain.BuyerConfirmation{Confirmed: true, ConfirmedAt: now, Photos: input.Photos}
	ledger.Delivery.Status = "delivered"
	ledger.Delivery.ActualDelivery = now
	if input.TrackingID != "" {
		ledger.Delivery.TrackingID = input.TrackingID
	}
	if input.DeliveryLocation != "" {
		ledger.Delivery.DeliveryLocation = input.DeliveryLocation
	}
	ledger.Release.BuyerAuthorized = true
	ledger.Release.AutoReleaseAt = now.Add(uc.gracePeriod)
	ledger.UpdatedAt = now

	if err := uc.escrowRepo.SaveLedgerFrom(ledger, domain.EscrowFunded); err != nil {
		return nil, err
	}
	uc.metrics.LedgerTransition(string(domain.EscrowConfirmed))
	uc.notify(ledger.SellerID, domain.EventDeliveryConfirmed, map[string]string{"ledger_id": ledger.ID})
	return ledger, nil
}

// Release moves confirmed -> released and pays the seller net amount. A
// ledger already released returns as-is so redundant invocations (manual
// release racing the auto-release sweep) stay no-ops.
func (uc *DefaultEscrowUsecase) Release(ctx context.Context, ledgerID, actorID, actorRole string) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(ledgerID)
	if err != nil {
		return nil, err
	}
	if !uc.canRelease(ledger, actorID, actorRole) {
		return nil, fmt.Errorf("%w: not authorized to release funds", domain.ErrUnauthorized)
	}
	if ledger.Status == domain.EscrowReleased || ledger.Status == domain.EscrowCompleted {
		return ledger, nil
	}
	if ledger.Status != domain.EscrowConfirmed {
		return nil, fmt.Errorf("%w: ledger is %s, expected confirmed", domain.ErrPrecondition, ledger.Status)
	}
	return uc.releaseHeld(ctx, ledger, actorRole == "admin")
}

// ConfirmAndRelease is the contract-verification path: a funded ledger is
// confirmed by the verification outcome and released in the same operation.
func (uc *DefaultEscrowUsecase) ConfirmAndRelease(ctx context.Context, ledgerID, actorID string) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(ledgerID)
	if err != nil {
		return nil, err
	}
	if ledger.Status == domain.EscrowReleased || ledger.Status == domain.EscrowCompleted {
		return ledger, nil
	}
	if ledger.Status == domain.EscrowFunded {
		now := time.Now()
		from := ledger.Status
		ledger.Status = domain.EscrowConfirmed
		ledger.Release.SellerVerified = true
		ledger.UpdatedAt = now
		if err := uc.escrowRepo.SaveLedgerFrom(ledger, from); err != nil {
			return nil, err
		}
		uc.metrics.LedgerTransition(string(domain.EscrowConfirmed))
	}
	if ledger.Status != domain.EscrowConfirmed {
		return nil, fmt.Errorf("%w: ledger is %s, expected funded or confirmed", domain.ErrPrecondition, ledger.Status)
	}
	return uc.releaseHeld(ctx, ledger, false)
}

// releaseHeld performs the gateway transfer and the conditional write from
// confirmed to released. Gateway failure leaves the ledger untouched.
func (uc *DefaultEscrowUsecase) releaseHeld(ctx context.Context, ledger *domain.EscrowLedger, byAdmin bool) (*domain.EscrowLedger, error) {
	net := ledger.Amount - ledger.TotalFee
	if ledger.PayoutAccountID != "" {
		transferCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
		defer cancel()
		transferID, err := uc.gateway.Transfer(transferCtx, ledger.PayoutAccountID, net, ledger.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: gateway transfer: %v", domain.ErrExternalService, err)
		}
		ledger.GatewayTransferID = transferID
	}

	now := time.Now()
	ledger.Status = domain.EscrowReleased
	ledger.Funds.Released = net
	ledger.Funds.FeeCollected = ledger.TotalFee
	ledger.Funds.Held = 0
	ledger.Release.AdminApproved = byAdmin
	ledger.CompletedAt = now
	ledger.UpdatedAt = now

	if err := uc.escrowRepo.SaveLedgerFrom(ledger, domain.EscrowConfirmed); err != nil {
		return nil, err
	}
	uc.metrics.LedgerReleased(ledger.Currency, ledger.Funds.Released, ledger.Funds.FeeCollected)
	uc.notify(ledger.SellerID, domain.EventFundsReleased, map[string]string{
		"ledger_id": ledger.ID,
		"amount":    fmt.Sprintf("%d", ledger.Funds.Released),
	})
	return ledger, nil
}

// ReleaseDue is the auto-release sweep. It is safe to invoke redundantly:
// each candidate goes through the same conditional write as a manual release.
func (uc *DefaultEscrowUsecase) ReleaseDue(ctx context.Context) error {
	ledgers, err := uc.escrowRepo.FindAutoReleasable(time.Now())
	if err != nil {
		return err
	}
	for _, ledger := range ledgers {
		if _, err := uc.releaseHeld(ctx, ledger, false); err != nil {
			slog.Error("auto-release failed", "ledger_id", ledger.ID, "error", err)
		}
	}
	return nil
}

func (uc *DefaultEscrowUsecase) RaiseDispute(input *escrowdto.RaiseDisputeInput) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(input.LedgerID)
	if err != nil {
		return nil, err
	}
	if input.RaisedBy != ledger.BuyerID && input.RaisedBy != ledger.SellerID {
		return nil, fmt.Errorf("%w: only involved parties can raise a dispute", domain.ErrUnauthorized)
	}
	if ledger.Status.Terminal() || ledger.Status == domain.EscrowDispute {
		return nil, fmt.Errorf("%w: ledger is %s", domain.ErrPrecondition, ledger.Status)
	}

	now := time.Now()
	from := ledger.Status
	ledger.Status = domain.EscrowDispute
	ledger.Dispute = domain.DisputeRecord{
		Raised:   true,
		RaisedBy: input.RaisedBy,
		Reason:   input.Reason,
		Evidence: input.Evidence,
		RaisedAt: now,
	}
	// Freeze auto-release while the dispute is open.
	ledger.Release.AutoReleaseAt = time.Time{}
	ledger.UpdatedAt = now

	if err := uc.escrowRepo.SaveLedgerFrom(ledger, from); err != nil {
		return nil, err
	}
	uc.metrics.DisputeRaised()
	counterparty := ledger.SellerID
	if input.RaisedBy == ledger.SellerID {
		counterparty = ledger.BuyerID
	}
	uc.notify(counterparty, domain.EventDisputeRaised, map[string]string{
		"ledger_id": ledger.ID,
		"reason":    input.Reason,
	})
	return ledger, nil
}

// InitiateRefund is the contract-rejection path: the ledger is moved into
// dispute pending an admin refund decision.
func (uc *DefaultEscrowUsecase) InitiateRefund(ledgerID, actorID, reason string) (*domain.EscrowLedger, error) {
	return uc.RaiseDispute(&escrowdto.RaiseDisputeInput{
		LedgerID: ledgerID,
		RaisedBy: actorID,
		Reason:   reason,
	})
}

func (uc *DefaultEscrowUsecase) ResolveDispute(ctx context.Context, input *escrowdto.ResolveDisputeInput) (*domain.EscrowLedger, error) {
	if input.ActorRole != "admin" {
		return nil, fmt.Errorf("%w: only admin can resolve a dispute", domain.ErrUnauthorized)
	}
	ledger, err := uc.escrowRepo.GetLedgerByID(input.LedgerID)
	if err != nil {
		return nil, err
	}
	if ledger.Status != domain.EscrowDispute {
		return nil, fmt.Errorf("%w: ledger is %s, expected dispute", domain.ErrPrecondition, ledger.Status)
	}

	now := time.Now()
	switch input.Resolution {
	case "refund":
		ledger.Status = domain.EscrowRefunded
		ledger.Funds.Refunded = ledger.Funds.Held
		ledger.Funds.Held = 0
	case "release":
		net := ledger.Funds.Held - ledger.TotalFee
		if ledger.PayoutAccountID != "" && net > 0 {
			transferCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
			defer cancel()
			transferID, err := uc.gateway.Transfer(transferCtx, ledger.PayoutAccountID, net, ledger.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: gateway transfer: %v", domain.ErrExternalService, err)
			}
			ledger.GatewayTransferID = transferID
		}
		ledger.Status = domain.EscrowReleased
		if ledger.Funds.Held > 0 {
			ledger.Funds.Released = net
			ledger.Funds.FeeCollected = ledger.TotalFee
		}
		ledger.Funds.Held = 0
		ledger.Release.AdminApproved = true
	default:
		return nil, fmt.Errorf("%w: resolution must be refund or release", domain.ErrValidation)
	}
	ledger.Dispute.Resolution = input.Resolution
	ledger.Dispute.ResolvedAt = now
	ledger.CompletedAt = now
	ledger.UpdatedAt = now

	if err := uc.escrowRepo.SaveLedgerFrom(ledger, domain.EscrowDispute); err != nil {
		return nil, err
	}
	uc.metrics.DisputeResolved(input.Resolution)
	uc.notify(ledger.BuyerID, domain.EventDisputeResolved, map[string]string{
		"ledger_id":  ledger.ID,
		"resolution": input.Resolution,
	})
	return ledger, nil
}

// CreatePaymentOrder creates the gateway order backing the ledger payment.
// Rejected if an order was already created for this ledger.
func (uc *DefaultEscrowUsecase) CreatePaymentOrder(ctx context.Context, ledgerID, actorID string) (*domain.PaymentOrder, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(ledgerID)
	if err != nil {
		return nil, err
	}
	if actorID != ledger.BuyerID && actorID != ledger.SellerID {
		return nil, fmt.Errorf("%w: only involved parties can create a payment order", domain.ErrUnauthorized)
	}
	if ledger.GatewayOrderID != "" {
		return nil, fmt.Errorf("%w: payment order already created for this ledger", domain.ErrConflict)
	}
	if ledger.Status != domain.EscrowPending {
		return nil, fmt.Errorf("%w: ledger is %s, expected pending", domain.ErrPrecondition, ledger.Status)
	}

	orderCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()
	order, err := uc.gateway.CreateOrder(orderCtx, ledger.Amount, ledger.Currency, ledger.ID, map[string]string{
		"crop":     ledger.Crop,
		"quantity": fmt.Sprintf("%.2f", ledger.QuantityKg),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gateway create order: %v", domain.ErrExternalService, err)
	}

	ledger.GatewayOrderID = order.OrderID
	ledger.UpdatedAt = time.Now()
	if err := uc.escrowRepo.SaveLedgerFrom(ledger, domain.EscrowPending); err != nil {
		return nil, err
	}
	return order, nil
}

// VerifyGatewayPayment verifies the gateway signature and funds the ledger.
func (uc *DefaultEscrowUsecase) VerifyGatewayPayment(ctx context.Context, orderID, paymentID, signature, actorID string) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByGatewayOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if actorID != ledger.BuyerID && actorID != ledger.SellerID {
		return nil, fmt.Errorf("%w: only involved parties can verify payment", domain.ErrUnauthorized)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()
	verified, err := uc.gateway.VerifyPayment(verifyCtx, orderID, paymentID, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: gateway verify: %v", domain.ErrExternalService, err)
	}
	if !verified {
		return nil, fmt.Errorf("%w: payment signature mismatch", domain.ErrValidation)
	}

	ledger.GatewayPaymentID = paymentID
	return uc.ConfirmPayment(&escrowdto.ConfirmPaymentInput{
		LedgerID:    ledger.ID,
		ActorID:     ledger.BuyerID,
		ExternalRef: paymentID,
	})
}

// RecordBlockchainHash attaches an external chain reference to the ledger.
// Purely informational; never gates a transition.
func (uc *DefaultEscrowUsecase) RecordBlockchainHash(ledgerID, txHash, network string) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(ledgerID)
	if err != nil {
		return nil, err
	}
	if txHash == "" {
		return nil, fmt.Errorf("%w: missing transaction hash", domain.ErrValidation)
	}
	now := time.Now()
	ledger.Blockchain = domain.BlockchainRecord{
		TxHash:      txHash,
		Network:     network,
		Status:      "confirmed",
		ConfirmedAt: now,
	}
	ledger.UpdatedAt = now
	if err := uc.escrowRepo.SaveLedgerFrom(ledger, ledger.Status); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (uc *DefaultEscrowUsecase) GetLedgerByID(ledgerID, actorID, actorRole string) (*domain.EscrowLedger, error) {
	ledger, err := uc.escrowRepo.GetLedgerByID(ledgerID)
	if err != nil {
		return nil, err
	}
	if actorID != ledger.BuyerID && actorID != ledger.SellerID && actorRole != "admin" {
		return nil, fmt.Errorf("%w: not a party to this transaction", domain.ErrUnauthorized)
	}
	return ledger, nil
}

func (uc *DefaultEscrowUsecase) ListForUser(userID string, filters domain.EscrowFilters, page, limit int64) ([]*domain.EscrowLedger, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return uc.escrowRepo.ListForUser(userID, filters, page, limit)
}

func (uc *DefaultEscrowUsecase) canRelease(ledger *domain.EscrowLedger, actorID, actorRole string) bool {
	return actorID == ledger.BuyerID || actorID == ledger.SellerID || actorRole == "admin"
}

// markRequestPaid closes the originating payment request once funds land.
// Best effort; the funding transition never depends on it.
func (uc *DefaultEscrowUsecase) markRequestPaid(ledger *domain.EscrowLedger) {
	if ledger.PaymentRequestID == "" || uc.requestRepo == nil {
		return
	}
	request, err := uc.requestRepo.GetRequestByID(ledger.PaymentRequestID)
	if err != nil {
		slog.Error("mark request paid: fetch failed", "request_id", ledger.PaymentRequestID, "error", err)
		return
	}
	if request.Status != domain.RequestAccepted {
		return
	}
	now := time.Now()
	request.Status = domain.RequestPaid
	request.PaidAt = now
	request.UpdatedAt = now
	if err := uc.requestRepo.SaveRequestFrom(request, domain.RequestAccepted); err != nil {
		slog.Error("mark request paid: save failed", "request_id", request.ID, "error", err)
	}
}

func (uc *DefaultEscrowUsecase) notify(userID, eventType string, payload map[string]string) {
	if uc.notifier == nil || userID == "" {
		return
	}
	if err := uc.notifier.Notify(context.Background(), userID, eventType, payload); err != nil {
		slog.Error("notification failed", "event", eventType, "user_id", userID, "error", err)
	}
}
