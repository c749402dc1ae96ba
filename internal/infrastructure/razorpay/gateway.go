package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com"

// Gateway talks to the Razorpay REST API. It implements
// domain.PaymentGateway; amounts cross the wire in minor units, which is
// what Razorpay expects.
type Gateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewGateway(baseURL, keyID, keySecret string, timeout time.Duration) *Gateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: timeout},
	}
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (g *Gateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*domain.PaymentOrder, error) {
	var resp orderResponse
	err := g.post(ctx, "/v1/orders", orderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentOrder{
		OrderID:  resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
	}, nil
}

// VerifyPayment checks the checkout signature: HMAC-SHA256 of
// "orderID|paymentID" under the key secret. Purely local, no network call.
func (g *Gateway) VerifyPayment(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, nil
	}
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

type transferRequest struct {
	Account  string `json:"account"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Notes    struct {
		SourceRef string `json:"source_ref"`
	} `json:"notes"`
}

type transferResponse struct {
	ID string `json:"id"`
}

func (g *Gateway) Transfer(ctx context.Context, accountID string, amount int64, sourceRef string) (string, error) {
	req := transferRequest{
		Account:  accountID,
		Amount:   amount,
		Currency: "INR",
	}
	req.Notes.SourceRef = sourceRef

	var resp transferResponse
	if err := g.post(ctx, "/v1/transfers", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (g *Gateway) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("razorpay %s returned %d: %s", path, resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
