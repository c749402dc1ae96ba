package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/metrics"
	escrowdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/escrow"
	requestdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/paymentrequest"
	"github.com/google/uuid"
)

var (
	recipientNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	nonDigits            = regexp.MustCompile(`\D`)
)

type PaymentRequestUsecase interface {
	Create(input *requestdto.CreateRequestInput) (*domain.PaymentRequest, error)
	Accept(input *requestdto.AcceptRequestInput) (*domain.PaymentRequest, *domain.EscrowLedger, error)
	Reject(input *requestdto.RejectRequestInput) (*domain.PaymentRequest, error)

	Get(requestID, actorID string) (*domain.PaymentRequest, error)
	ListReceived(recipientID string) ([]*domain.PaymentRequest, error)
	ListSent(senderID string) ([]*domain.PaymentRequest, error)
	ListCompleted(userID string) ([]*domain.PaymentRequest, error)
}

type DefaultPaymentRequestUsecase struct {
	requestRepo domain.PaymentRequestRepository
	escrow      EscrowUsecase
	notifier    domain.NotificationDispatcher
	metrics     *metrics.TradeMetrics
}

func NewDefaultPaymentRequestUsecase(
	requestRepo domain.PaymentRequestRepository,
	escrow EscrowUsecase,
	notifier domain.NotificationDispatcher,
	tradeMetrics *metrics.TradeMetrics,
) *DefaultPaymentRequestUsecase {
	return &DefaultPaymentRequestUsecase{
		requestRepo: requestRepo,
		escrow:      escrow,
		notifier:    notifier,
		metrics:     tradeMetrics,
	}
}

// normalizePhone strips everything but digits. Valid numbers come out as
// exactly 10 digits.
func normalizePhone(raw string) (string, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	return digits, len(digits) == 10
}

// Create validates and stores a pending request. Validation gates the escrow
// path: a request that fails here never reaches a ledger.
func (uc *DefaultPaymentRequestUsecase) Create(input *requestdto.CreateRequestInput) (*domain.PaymentRequest, error) {
	name := strings.TrimSpace(input.RecipientName)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: recipient name must be at least 2 characters", domain.ErrValidation)
	}
	if !recipientNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: recipient name contains invalid characters", domain.ErrValidation)
	}
	phone, ok := normalizePhone(input.RecipientPhone)
	if !ok {
		return nil, fmt.Errorf("%w: recipient phone must be a 10-digit number", domain.ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}
	if input.SenderID == "" || input.Crop == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	percent := input.AdvancePercentage
	if percent == 0 {
		percent = 20
	}
	if !allowedDownPaymentPercents[percent] {
		return nil, fmt.Errorf("%w: advance percentage must be 10, 20 or 30", domain.ErrValidation)
	}

	senderPhone := input.SenderPhone
	if digits, ok := normalizePhone(senderPhone); ok {
		senderPhone = digits
	}

	now := time.Now()
	request := &domain.PaymentRequest{
		ID:                uuid.New().String(),
		SenderID:          input.SenderID,
		SenderName:        input.SenderName,
		SenderPhone:       senderPhone,
		RecipientID:       input.RecipientID,
		RecipientName:     name,
		RecipientPhone:    phone,
		Crop:              input.Crop,
		QuantityKg:        input.QuantityKg,
		Amount:            input.Amount,
		AdvancePercentage: percent,
		AdvanceAmount:     input.Amount * int64(percent) / 100,
		Description:       input.Description,
		Bidirectional:     input.Bidirectional,
		Status:            domain.RequestPending,
		DueDate:           input.DueDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.requestRepo.CreateRequest(request); err != nil {
		return nil, err
	}
	uc.metrics.RequestCreated()
	uc.notify(request.RecipientID, domain.EventRequestReceived, map[string]string{
		"request_id": request.ID,
		"crop":       request.Crop,
		"sender":     request.SenderName,
	})
	return request, nil
}

// Accept converts the request into exactly one escrow ledger holding the full
// request amount. The conditional write from pending guarantees a racing
// accept and reject settle on exactly one outcome.
func (uc *DefaultPaymentRequestUsecase) Accept(input *requestdto.AcceptRequestInput) (*domain.PaymentRequest, *domain.EscrowLedger, error) {
	request, err := uc.requestRepo.GetRequestByID(input.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if input.RecipientID != request.RecipientID {
		return nil, nil, fmt.Errorf("%w: only the recipient can accept", domain.ErrUnauthorized)
	}
	if request.Status != domain.RequestPending {
		return nil, nil, fmt.Errorf("%w: request is %s, expected pending", domain.ErrPrecondition, request.Status)
	}

	ledger, err := uc.escrow.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:          request.SenderID,
		SellerID:         request.RecipientID,
		PaymentRequestID: request.ID,
		Crop:             request.Crop,
		QuantityKg:       request.QuantityKg,
		Amount:           request.Amount,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("allocate escrow for request %s: %w", request.ID, err)
	}

	now := time.Now()
	request.Status = domain.RequestAccepted
	request.EscrowLedgerID = ledger.ID
	request.AcceptedAt = now
	request.UpdatedAt = now
	if err := uc.requestRepo.SaveRequestFrom(request, domain.RequestPending); err != nil {
		// A racing reject won the conditional write; the ledger never held
		// funds and must not linger as a standalone record.
		if discardErr := uc.escrow.DiscardPending(ledger.ID); discardErr != nil {
			slog.Error("discard escrow after lost accept race", "request_id", request.ID, "ledger_id", ledger.ID, "error", discardErr)
		}
		return nil, nil, err
	}
	uc.metrics.RequestAccepted()
	uc.notify(request.SenderID, domain.EventPaymentConfirmed, map[string]string{
		"request_id": request.ID,
		"ledger_id":  ledger.ID,
	})
	return request, ledger, nil
}

// Reject is terminal; a rejected request can never be accepted afterwards.
func (uc *DefaultPaymentRequestUsecase) Reject(input *requestdto.RejectRequestInput) (*domain.PaymentRequest, error) {
	request, err := uc.requestRepo.GetRequestByID(input.RequestID)
	if err != nil {
		return nil, err
	}
	if input.RecipientID != request.RecipientID {
		return nil, fmt.Errorf("%w: only the recipient can reject", domain.ErrUnauthorized)
	}
	if request.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: request is %s, expected pending", domain.ErrPrecondition, request.Status)
	}

	now := time.Now()
	request.Status = domain.RequestRejected
	request.RejectionReason = input.Reason
	request.RejectedAt = now
	request.UpdatedAt = now
	if err := uc.requestRepo.SaveRequestFrom(request, domain.RequestPending); err != nil {
		return nil, err
	}
	uc.metrics.RequestRejected()
	uc.notify(request.SenderID, domain.EventRequestRejected, map[string]string{
		"request_id": request.ID,
		"reason":     input.Reason,
	})
	return request, nil
}

func (uc *DefaultPaymentRequestUsecase) Get(requestID, actorID string) (*domain.PaymentRequest, error) {
	request, err := uc.requestRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if actorID != request.SenderID && actorID != request.RecipientID {
		return nil, fmt.Errorf("%w: not a party to this request", domain.ErrUnauthorized)
	}
	return request, nil
}

func (uc *DefaultPaymentRequestUsecase) ListReceived(recipientID string) ([]*domain.PaymentRequest, error) {
	return uc.requestRepo.ListReceived(recipientID, []domain.PaymentRequestStatus{domain.RequestPending, domain.RequestAccepted})
}

func (uc *DefaultPaymentRequestUsecase) ListSent(senderID string) ([]*domain.PaymentRequest, error) {
	return uc.requestRepo.ListSent(senderID)
}

func (uc *DefaultPaymentRequestUsecase) ListCompleted(userID string) ([]*domain.PaymentRequest, error) {
	return uc.requestRepo.ListCompleted(userID)
}

func (uc *DefaultPaymentRequestUsecase) notify(userID, eventType string, payload map[string]string) {
	if uc.notifier == nil || userID == "" {
		return
	}
	if err := uc.notifier.Notify(context.Background(), userID, eventType, payload); err != nil {
		slog.Error("notification failed", "event", eventType, "user_id", userID, "error", err)
	}
}
