package httpapi

import (
	"net/http"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	escrowdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/escrow"
	"github.com/gin-gonic/gin"
)

type EscrowHandler struct {
	escrowUC usecase.EscrowUsecase
}

func NewEscrowHandler(escrowUC usecase.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{escrowUC: escrowUC}
}

type initiateEscrowRequest struct {
	SellerID        string  `json:"seller_id"`
	Crop            string  `json:"crop" binding:"required"`
	QuantityKg      float64 `json:"quantity_kg" binding:"required"`
	Amount          int64   `json:"amount" binding:"required"`
	Currency        string  `json:"currency"`
	PayoutAccountID string  `json:"payout_account_id"`
	Notes           string  `json:"notes"`
}

func (h *EscrowHandler) Initiate(c *gin.Context) {
	var req initiateEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.Initiate(&escrowdto.InitiateEscrowInput{
		BuyerID:         CallerID(c),
		SellerID:        req.SellerID,
		Crop:            req.Crop,
		QuantityKg:      req.QuantityKg,
		Amount:          req.Amount,
		Currency:        req.Currency,
		PayoutAccountID: req.PayoutAccountID,
		Notes:           req.Notes,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ledgerResponse(ledger))
}

func (h *EscrowHandler) Get(c *gin.Context) {
	ledger, err := h.escrowUC.GetLedgerByID(c.Param("id"), CallerID(c), CallerRole(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

func (h *EscrowHandler) List(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Crop   string `form:"crop"`
		Page   int64  `form:"page,default=1"`
		Limit  int64  `form:"limit,default=10"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledgers, total, err := h.escrowUC.ListForUser(CallerID(c), domain.EscrowFilters{
		Status: domain.EscrowStatus(query.Status),
		Crop:   query.Crop,
	}, query.Page, query.Limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(ledgers))
	for _, ledger := range ledgers {
		items = append(items, ledgerResponse(ledger))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": query.Page, "limit": query.Limit})
}

type confirmPaymentRequest struct {
	ExternalRef string `json:"external_ref"`
}

func (h *EscrowHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.ConfirmPayment(&escrowdto.ConfirmPaymentInput{
		LedgerID:    c.Param("id"),
		ActorID:     CallerID(c),
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

type confirmDeliveryRequest struct {
	Photos           []string `json:"photos"`
	TrackingID       string   `json:"tracking_id"`
	DeliveryLocation string   `json:"delivery_location"`
}

func (h *EscrowHandler) ConfirmDelivery(c *gin.Context) {
	var req confirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.ConfirmDelivery(&escrowdto.ConfirmDeliveryInput{
		LedgerID:         c.Param("id"),
		ActorID:          CallerID(c),
		Photos:           req.Photos,
		TrackingID:       req.TrackingID,
		DeliveryLocation: req.DeliveryLocation,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

func (h *EscrowHandler) Release(c *gin.Context) {
	ledger, err := h.escrowUC.Release(c.Request.Context(), c.Param("id"), CallerID(c), CallerRole(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

type raiseDisputeRequest struct {
	Reason   string   `json:"reason" binding:"required"`
	Evidence []string `json:"evidence"`
}

func (h *EscrowHandler) RaiseDispute(c *gin.Context) {
	var req raiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.RaiseDispute(&escrowdto.RaiseDisputeInput{
		LedgerID: c.Param("id"),
		RaisedBy: CallerID(c),
		Reason:   req.Reason,
		Evidence: req.Evidence,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

func (h *EscrowHandler) ResolveDispute(c *gin.Context) {
	var req resolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.ResolveDispute(c.Request.Context(), &escrowdto.ResolveDisputeInput{
		LedgerID:   c.Param("id"),
		Resolution: req.Resolution,
		AdminID:    CallerID(c),
		ActorRole:  CallerRole(c),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

func (h *EscrowHandler) CreatePaymentOrder(c *gin.Context) {
	order, err := h.escrowUC.CreatePaymentOrder(c.Request.Context(), c.Param("id"), CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
	})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (h *EscrowHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.VerifyGatewayPayment(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature, CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

type blockchainRecordRequest struct {
	TxHash  string `json:"tx_hash" binding:"required"`
	Network string `json:"network"`
}

func (h *EscrowHandler) RecordBlockchain(c *gin.Context) {
	var req blockchainRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.escrowUC.RecordBlockchainHash(c.Param("id"), req.TxHash, req.Network)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledgerResponse(ledger))
}

func ledgerResponse(ledger *domain.EscrowLedger) gin.H {
	resp := gin.H{
		"id":          ledger.ID,
		"buyer_id":    ledger.BuyerID,
		"seller_id":   ledger.SellerID,
		"crop":        ledger.Crop,
		"quantity_kg": ledger.QuantityKg,
		"amount":      ledger.Amount,
		"currency":    ledger.Currency,
		"status":      ledger.Status,
		"fees": gin.H{
			"platform_fee": ledger.PlatformFee,
			"total_fee":    ledger.TotalFee,
			"seller_net":   ledger.SellerNet,
		},
		"funds": gin.H{
			"held":          ledger.Funds.Held,
			"released":      ledger.Funds.Released,
			"refunded":      ledger.Funds.Refunded,
			"fee_collected": ledger.Funds.FeeCollected,
		},
		"created_at": ledger.CreatedAt,
		"updated_at": ledger.UpdatedAt,
	}
	if ledger.ContractID != "" {
		resp["contract_id"] = ledger.ContractID
	}
	if ledger.PaymentRequestID != "" {
		resp["payment_request_id"] = ledger.PaymentRequestID
	}
	if ledger.GatewayOrderID != "" {
		resp["gateway_order_id"] = ledger.GatewayOrderID
	}
	if !ledger.Release.AutoReleaseAt.IsZero() {
		resp["auto_release_at"] = ledger.Release.AutoReleaseAt
	}
	if ledger.Dispute.Raised {
		resp["dispute"] = gin.H{
			"raised_by":  ledger.Dispute.RaisedBy,
			"reason":     ledger.Dispute.Reason,
			"raised_at":  ledger.Dispute.RaisedAt,
			"resolution": ledger.Dispute.Resolution,
		}
	}
	if ledger.Blockchain.TxHash != "" {
		resp["blockchain"] = gin.H{
			"tx_hash": ledger.Blockchain.TxHash,
			"network": ledger.Blockchain.Network,
			"status":  ledger.Blockchain.Status,
		}
	}
	return resp
}
