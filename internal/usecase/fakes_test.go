package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

var errStoreUnavailable = errors.New("store unavailable")

type fakeEscrowRepo struct {
	mu      sync.Mutex
	ledgers map[string]*domain.EscrowLedger
}

func newFakeEscrowRepo() *fakeEscrowRepo {
	return &fakeEscrowRepo{ledgers: make(map[string]*domain.EscrowLedger)}
}

func cloneLedger(l *domain.EscrowLedger) *domain.EscrowLedger {
	c := *l
	return &c
}

func (r *fakeEscrowRepo) CreateLedger(ledger *domain.EscrowLedger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ledgers[ledger.ID]; ok {
		return fmt.Errorf("%w: ledger %s", domain.ErrConflict, ledger.ID)
	}
	r.ledgers[ledger.ID] = cloneLedger(ledger)
	return nil
}

func (r *fakeEscrowRepo) GetLedgerByID(ledgerID string) (*domain.EscrowLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerID]
	if !ok {
		return nil, fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledgerID)
	}
	return cloneLedger(ledger), nil
}

func (r *fakeEscrowRepo) GetLedgerByGatewayOrderID(orderID string) (*domain.EscrowLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ledger := range r.ledgers {
		if ledger.GatewayOrderID == orderID {
			return cloneLedger(ledger), nil
		}
	}
	return nil, fmt.Errorf("%w: ledger for gateway order %s", domain.ErrNotFound, orderID)
}

func (r *fakeEscrowRepo) SaveLedgerFrom(ledger *domain.EscrowLedger, expected domain.EscrowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.ledgers[ledger.ID]
	if !ok {
		return fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledger.ID)
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: ledger %s no longer %s", domain.ErrConflict, ledger.ID, expected)
	}
	r.ledgers[ledger.ID] = cloneLedger(ledger)
	return nil
}

func (r *fakeEscrowRepo) DeleteLedgerFrom(ledgerID string, expected domain.EscrowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.ledgers[ledgerID]
	if !ok {
		return fmt.Errorf("%w: ledger %s", domain.ErrNotFound, ledgerID)
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: ledger %s no longer %s", domain.ErrConflict, ledgerID, expected)
	}
	delete(r.ledgers, ledgerID)
	return nil
}

func (r *fakeEscrowRepo) FindAutoReleasable(now time.Time) ([]*domain.EscrowLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*domain.EscrowLedger
	for _, ledger := range r.ledgers {
		if ledger.Status != domain.EscrowConfirmed {
			continue
		}
		at := ledger.Release.AutoReleaseAt
		if !at.IsZero() && !at.After(now) {
			due = append(due, cloneLedger(ledger))
		}
	}
	return due, nil
}

func (r *fakeEscrowRepo) ListForUser(userID string, filters domain.EscrowFilters, page, limit int64) ([]*domain.EscrowLedger, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.EscrowLedger
	for _, ledger := range r.ledgers {
		if ledger.BuyerID != userID && ledger.SellerID != userID {
			continue
		}
		if filters.Status != "" && ledger.Status != filters.Status {
			continue
		}
		if filters.Crop != "" && ledger.Crop != filters.Crop {
			continue
		}
		out = append(out, cloneLedger(ledger))
	}
	return out, int64(len(out)), nil
}

func (r *fakeEscrowRepo) ListAll(filters domain.EscrowFilters) ([]*domain.EscrowLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.EscrowLedger
	for _, ledger := range r.ledgers {
		if filters.Status != "" && ledger.Status != filters.Status {
			continue
		}
		out = append(out, cloneLedger(ledger))
	}
	return out, nil
}

func (r *fakeEscrowRepo) CountForSeller(sellerID string, statuses []domain.EscrowStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, ledger := range r.ledgers {
		if ledger.SellerID != sellerID {
			continue
		}
		if len(statuses) == 0 {
			count++
			continue
		}
		for _, status := range statuses {
			if ledger.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*domain.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[string]*domain.Contract)}
}

func cloneContract(c *domain.Contract) *domain.Contract {
	clone := *c
	clone.StageHistory = append([]domain.StageEntry(nil), c.StageHistory...)
	clone.Disputes = append([]domain.ContractDispute(nil), c.Disputes...)
	return &clone
}

func (r *fakeContractRepo) CreateContract(contract *domain.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[contract.ID]; ok {
		return fmt.Errorf("%w: contract %s", domain.ErrConflict, contract.ID)
	}
	r.contracts[contract.ID] = cloneContract(contract)
	return nil
}

func (r *fakeContractRepo) GetContractByID(contractID string) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[contractID]
	if !ok {
		return nil, fmt.Errorf("%w: contract %s", domain.ErrNotFound, contractID)
	}
	return cloneContract(contract), nil
}

func (r *fakeContractRepo) SaveContractFrom(contract *domain.Contract, expected domain.ContractStage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.contracts[contract.ID]
	if !ok {
		return fmt.Errorf("%w: contract %s", domain.ErrNotFound, contract.ID)
	}
	if stored.Stage != expected {
		return fmt.Errorf("%w: contract %s no longer %s", domain.ErrConflict, contract.ID, expected)
	}
	r.contracts[contract.ID] = cloneContract(contract)
	return nil
}

func (r *fakeContractRepo) ListForUser(userID string) ([]*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Contract
	for _, contract := range r.contracts {
		if contract.BuyerID == userID || contract.FarmerID == userID {
			out = append(out, cloneContract(contract))
		}
	}
	return out, nil
}

func (r *fakeContractRepo) ListAll() ([]*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Contract
	for _, contract := range r.contracts {
		out = append(out, cloneContract(contract))
	}
	return out, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.PaymentRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*domain.PaymentRequest)}
}

func cloneRequest(r *domain.PaymentRequest) *domain.PaymentRequest {
	c := *r
	return &c
}

func (r *fakeRequestRepo) CreateRequest(request *domain.PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; ok {
		return fmt.Errorf("%w: request %s", domain.ErrConflict, request.ID)
	}
	r.requests[request.ID] = cloneRequest(request)
	return nil
}

func (r *fakeRequestRepo) GetRequestByID(requestID string) (*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[requestID]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, requestID)
	}
	return cloneRequest(request), nil
}

func (r *fakeRequestRepo) SaveRequestFrom(request *domain.PaymentRequest, expected domain.PaymentRequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return fmt.Errorf("%w: request %s", domain.ErrNotFound, request.ID)
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: request %s no longer %s", domain.ErrConflict, request.ID, expected)
	}
	r.requests[request.ID] = cloneRequest(request)
	return nil
}

func (r *fakeRequestRepo) ListReceived(recipientID string, statuses []domain.PaymentRequestStatus) ([]*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PaymentRequest
	for _, request := range r.requests {
		if request.RecipientID != recipientID {
			continue
		}
		if len(statuses) > 0 {
			matched := false
			for _, status := range statuses {
				if request.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, cloneRequest(request))
	}
	return out, nil
}

func (r *fakeRequestRepo) ListSent(senderID string) ([]*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PaymentRequest
	for _, request := range r.requests {
		if request.SenderID == senderID {
			out = append(out, cloneRequest(request))
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListCompleted(userID string) ([]*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PaymentRequest
	for _, request := range r.requests {
		if request.Status != domain.RequestPaid {
			continue
		}
		if request.SenderID == userID || request.RecipientID == userID {
			out = append(out, cloneRequest(request))
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo { return &fakeReviewRepo{} }

func (r *fakeReviewRepo) CreateReview(review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *review
	r.reviews = append(r.reviews, &c)
	return nil
}

func (r *fakeReviewRepo) ListApprovedForUser(userID string) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.ReviewedUserID == userID && review.Approved {
			c := *review
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListForUser(userID string, page, limit int64) ([]*domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.ReviewedUserID == userID {
			c := *review
			out = append(out, &c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeReputationRepo struct {
	mu      sync.Mutex
	records map[string]*domain.ReputationRecord
	upserts int
}

func newFakeReputationRepo() *fakeReputationRepo {
	return &fakeReputationRepo{records: make(map[string]*domain.ReputationRecord)}
}

func (r *fakeReputationRepo) UpsertReputation(record *domain.ReputationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *record
	r.records[record.UserID] = &c
	r.upserts++
	return nil
}

func (r *fakeReputationRepo) GetReputation(userID string) (*domain.ReputationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return nil, fmt.Errorf("%w: reputation for user %s", domain.ErrNotFound, userID)
	}
	c := *record
	return &c, nil
}

type fakePartyStats struct {
	mu           sync.Mutex
	earned       map[string]int64
	transactions map[string]int64
}

func newFakePartyStats() *fakePartyStats {
	return &fakePartyStats{earned: make(map[string]int64), transactions: make(map[string]int64)}
}

func (r *fakePartyStats) AddEarnings(userID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.earned[userID] += amount
	r.transactions[userID]++
	return nil
}

func (r *fakePartyStats) GetEarnings(userID string) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.earned[userID], r.transactions[userID], nil
}

type fakeGateway struct {
	mu            sync.Mutex
	failTransfer  bool
	transferCalls int
	orderCalls    int
	verifyResult  bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (*domain.PaymentOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orderCalls++
	return &domain.PaymentOrder{
		OrderID:  fmt.Sprintf("order_%s_%d", receipt, g.orderCalls),
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) VerifyPayment(_ context.Context, _, _, _ string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verifyResult, nil
}

func (g *fakeGateway) Transfer(_ context.Context, accountID string, _ int64, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failTransfer {
		return "", fmt.Errorf("gateway unavailable")
	}
	g.transferCalls++
	return fmt.Sprintf("transfer_%s_%d", accountID, g.transferCalls), nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, _, eventType string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
	return nil
}

func (n *fakeNotifier) has(eventType string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e == eventType {
			return true
		}
	}
	return false
}
