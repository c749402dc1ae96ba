package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	escrowdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/escrow"
	"github.com/stretchr/testify/require"
)

type escrowFixture struct {
	uc       *DefaultEscrowUsecase
	repo     *fakeEscrowRepo
	requests *fakeRequestRepo
	gateway  *fakeGateway
	notifier *fakeNotifier
}

func newEscrowFixture(t *testing.T, gracePeriod time.Duration) *escrowFixture {
	t.Helper()
	f := &escrowFixture{
		repo:     newFakeEscrowRepo(),
		requests: newFakeRequestRepo(),
		gateway:  &fakeGateway{verifyResult: true},
		notifier: &fakeNotifier{},
	}
	f.uc = NewDefaultEscrowUsecase(f.repo, f.requests, f.gateway, f.notifier, nil, time.Second, gracePeriod, domain.DefaultPlatformFeeBps)
	return f
}

func (f *escrowFixture) initiate(t *testing.T, amount int64) *domain.EscrowLedger {
	t.Helper()
	ledger, err := f.uc.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:    "buyer-1",
		SellerID:   "seller-1",
		Crop:       "Wheat",
		QuantityKg: 100,
		Amount:     amount,
	})
	require.NoError(t, err)
	return ledger
}

func (f *escrowFixture) fund(t *testing.T, ledgerID string) *domain.EscrowLedger {
	t.Helper()
	ledger, err := f.uc.ConfirmPayment(&escrowdto.ConfirmPaymentInput{LedgerID: ledgerID, ActorID: "buyer-1"})
	require.NoError(t, err)
	return ledger
}

func (f *escrowFixture) deliver(t *testing.T, ledgerID string) *domain.EscrowLedger {
	t.Helper()
	ledger, err := f.uc.ConfirmDelivery(&escrowdto.ConfirmDeliveryInput{LedgerID: ledgerID, ActorID: "buyer-1"})
	require.NoError(t, err)
	return ledger
}

func TestInitiateComputesFee(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)

	cases := []struct {
		amount  int64
		wantFee int64
	}{
		{100000, 2000}, // 1000.00 -> 20.00
		{99900, 2000},  // 999.00  -> 19.98 rounds to 20.00
		{97500, 2000},  // 975.00  -> 19.50 rounds to 20.00
		{97000, 1900},  // 970.00  -> 19.40 rounds to 19.00
		{5000, 100},    // 50.00   -> 1.00
	}
	for _, tc := range cases {
		ledger := f.initiate(t, tc.amount)
		require.Equal(t, tc.wantFee, ledger.PlatformFee, "amount %d", tc.amount)
		require.Equal(t, tc.amount-tc.wantFee, ledger.SellerNet)
		require.Equal(t, domain.EscrowPending, ledger.Status)
		require.True(t, ledger.FundsBalanced())
	}
}

func TestInitiateValidation(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)

	_, err := f.uc.Initiate(&escrowdto.InitiateEscrowInput{BuyerID: "b", Crop: "Wheat", QuantityKg: 10, Amount: 0})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Initiate(&escrowdto.InitiateEscrowInput{BuyerID: "b", Crop: "Wheat", QuantityKg: -1, Amount: 100})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Initiate(&escrowdto.InitiateEscrowInput{BuyerID: "", Crop: "Wheat", QuantityKg: 10, Amount: 100})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDiscardPendingNeverTouchesFundedLedger(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)

	require.ErrorIs(t, f.uc.DiscardPending(ledger.ID), domain.ErrConflict)

	kept, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowFunded, kept.Status)
}

func TestEscrowLifecycleKeepsFundsBalanced(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	ledger = f.fund(t, ledger.ID)
	require.Equal(t, domain.EscrowFunded, ledger.Status)
	require.Equal(t, int64(100000), ledger.Funds.Held)
	require.True(t, ledger.FundsBalanced())

	ledger = f.deliver(t, ledger.ID)
	require.Equal(t, domain.EscrowConfirmed, ledger.Status)
	require.False(t, ledger.Release.AutoReleaseAt.IsZero())
	require.True(t, ledger.FundsBalanced())

	ledger, err := f.uc.Release(context.Background(), ledger.ID, "seller-1", "farmer")
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, ledger.Status)
	require.Equal(t, int64(98000), ledger.Funds.Released)
	require.Equal(t, int64(2000), ledger.Funds.FeeCollected)
	require.Equal(t, int64(0), ledger.Funds.Held)
	require.True(t, ledger.FundsBalanced())
}

func TestConfirmPaymentGuards(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	_, err := f.uc.ConfirmPayment(&escrowdto.ConfirmPaymentInput{LedgerID: ledger.ID, ActorID: "seller-1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	f.fund(t, ledger.ID)
	_, err = f.uc.ConfirmPayment(&escrowdto.ConfirmPaymentInput{LedgerID: ledger.ID, ActorID: "buyer-1"})
	require.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestReleaseIsIdempotent(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	first, err := f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.NoError(t, err)

	second, err := f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.NoError(t, err)
	require.Equal(t, first.Funds.Released, second.Funds.Released)
	require.Equal(t, domain.EscrowReleased, second.Status)
}

func TestConcurrentReleaseSettlesOnce(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
		}()
	}
	wg.Wait()

	final, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, final.Status)
	require.Equal(t, int64(98000), final.Funds.Released)
	require.Equal(t, int64(2000), final.Funds.FeeCollected)
	require.True(t, final.FundsBalanced())
}

func TestReleaseRequiresConfirmedLedger(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	_, err := f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = f.uc.Release(context.Background(), ledger.ID, "stranger", "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReleaseDeniesStrangerOnReleasedLedger(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	_, err := f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.NoError(t, err)

	// the idempotent return must not hand ledger detail to non-parties
	_, err = f.uc.Release(context.Background(), ledger.ID, "stranger", "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	released, err := f.uc.Release(context.Background(), ledger.ID, "seller-1", "")
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, released.Status)
}

func TestGatewayFailureLeavesCustodyIntact(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger, err := f.uc.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:         "buyer-1",
		SellerID:        "seller-1",
		Crop:            "Wheat",
		QuantityKg:      100,
		Amount:          100000,
		PayoutAccountID: "acc_seller",
	})
	require.NoError(t, err)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	f.gateway.failTransfer = true
	_, err = f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.ErrorIs(t, err, domain.ErrExternalService)

	stored, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowConfirmed, stored.Status)
	require.Equal(t, int64(100000), stored.Funds.Held)
	require.True(t, stored.FundsBalanced())

	// the failure is transient; the same release succeeds once the gateway recovers
	f.gateway.failTransfer = false
	released, err := f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, released.Status)
	require.NotEmpty(t, released.GatewayTransferID)
}

func TestAutoReleaseSweep(t *testing.T) {
	f := newEscrowFixture(t, time.Nanosecond)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	time.Sleep(time.Millisecond)
	require.NoError(t, f.uc.ReleaseDue(context.Background()))

	stored, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, stored.Status)
	require.True(t, stored.FundsBalanced())
}

func TestDisputeFreezesAutoRelease(t *testing.T) {
	f := newEscrowFixture(t, time.Nanosecond)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)

	_, err := f.uc.RaiseDispute(&escrowdto.RaiseDisputeInput{
		LedgerID: ledger.ID,
		RaisedBy: "buyer-1",
		Reason:   "quality below agreed grade",
	})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	require.NoError(t, f.uc.ReleaseDue(context.Background()))

	stored, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowDispute, stored.Status)
	require.Equal(t, int64(100000), stored.Funds.Held)
}

func TestDisputeGuards(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	_, err := f.uc.RaiseDispute(&escrowdto.RaiseDisputeInput{LedgerID: ledger.ID, RaisedBy: "stranger", Reason: "x"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	f.fund(t, ledger.ID)
	f.deliver(t, ledger.ID)
	_, err = f.uc.Release(context.Background(), ledger.ID, "buyer-1", "")
	require.NoError(t, err)

	_, err = f.uc.RaiseDispute(&escrowdto.RaiseDisputeInput{LedgerID: ledger.ID, RaisedBy: "buyer-1", Reason: "x"})
	require.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestResolveDisputeRefundWaivesFee(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)

	_, err := f.uc.RaiseDispute(&escrowdto.RaiseDisputeInput{LedgerID: ledger.ID, RaisedBy: "buyer-1", Reason: "not delivered"})
	require.NoError(t, err)

	_, err = f.uc.ResolveDispute(context.Background(), &escrowdto.ResolveDisputeInput{
		LedgerID: ledger.ID, Resolution: "refund", AdminID: "admin-1", ActorRole: "buyer",
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	resolved, err := f.uc.ResolveDispute(context.Background(), &escrowdto.ResolveDisputeInput{
		LedgerID: ledger.ID, Resolution: "refund", AdminID: "admin-1", ActorRole: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, domain.EscrowRefunded, resolved.Status)
	require.Equal(t, int64(100000), resolved.Funds.Refunded)
	require.Equal(t, int64(0), resolved.Funds.FeeCollected)
	require.True(t, resolved.FundsBalanced())
}

func TestResolveDisputeRelease(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)
	f.fund(t, ledger.ID)

	_, err := f.uc.RaiseDispute(&escrowdto.RaiseDisputeInput{LedgerID: ledger.ID, RaisedBy: "seller-1", Reason: "buyer unresponsive"})
	require.NoError(t, err)

	resolved, err := f.uc.ResolveDispute(context.Background(), &escrowdto.ResolveDisputeInput{
		LedgerID: ledger.ID, Resolution: "release", AdminID: "admin-1", ActorRole: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, domain.EscrowReleased, resolved.Status)
	require.Equal(t, int64(98000), resolved.Funds.Released)
	require.Equal(t, int64(2000), resolved.Funds.FeeCollected)
	require.True(t, resolved.FundsBalanced())
}

func TestCreatePaymentOrderOncePerLedger(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	order, err := f.uc.CreatePaymentOrder(context.Background(), ledger.ID, "buyer-1")
	require.NoError(t, err)
	require.NotEmpty(t, order.OrderID)
	require.Equal(t, int64(100000), order.Amount)

	_, err = f.uc.CreatePaymentOrder(context.Background(), ledger.ID, "buyer-1")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestVerifyGatewayPaymentFundsLedger(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	order, err := f.uc.CreatePaymentOrder(context.Background(), ledger.ID, "buyer-1")
	require.NoError(t, err)

	funded, err := f.uc.VerifyGatewayPayment(context.Background(), order.OrderID, "pay_123", "sig", "buyer-1")
	require.NoError(t, err)
	require.Equal(t, domain.EscrowFunded, funded.Status)
	require.Equal(t, int64(100000), funded.Funds.Held)
	require.True(t, f.notifier.has(domain.EventPaymentConfirmed))
}

func TestVerifyGatewayPaymentRejectsBadSignature(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	f.gateway.verifyResult = false
	ledger := f.initiate(t, 100000)

	order, err := f.uc.CreatePaymentOrder(context.Background(), ledger.ID, "buyer-1")
	require.NoError(t, err)

	_, err = f.uc.VerifyGatewayPayment(context.Background(), order.OrderID, "pay_123", "bad", "buyer-1")
	require.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.repo.GetLedgerByID(ledger.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowPending, stored.Status)
}

func TestFundingMarksOriginatingRequestPaid(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	request := &domain.PaymentRequest{
		ID:          "req-1",
		SenderID:    "buyer-1",
		RecipientID: "seller-1",
		Crop:        "Wheat",
		Amount:      100000,
		Status:      domain.RequestAccepted,
	}
	require.NoError(t, f.requests.CreateRequest(request))

	ledger, err := f.uc.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:          "buyer-1",
		SellerID:         "seller-1",
		PaymentRequestID: "req-1",
		Crop:             "Wheat",
		QuantityKg:       100,
		Amount:           100000,
	})
	require.NoError(t, err)
	f.fund(t, ledger.ID)

	stored, err := f.requests.GetRequestByID("req-1")
	require.NoError(t, err)
	require.Equal(t, domain.RequestPaid, stored.Status)
	require.False(t, stored.PaidAt.IsZero())
}

func TestRecordBlockchainHash(t *testing.T) {
	f := newEscrowFixture(t, time.Hour)
	ledger := f.initiate(t, 100000)

	_, err := f.uc.RecordBlockchainHash(ledger.ID, "", "polygon")
	require.ErrorIs(t, err, domain.ErrValidation)

	updated, err := f.uc.RecordBlockchainHash(ledger.ID, "0xabc123", "polygon")
	require.NoError(t, err)
	require.Equal(t, "0xabc123", updated.Blockchain.TxHash)
	require.Equal(t, domain.EscrowPending, updated.Status)
}
