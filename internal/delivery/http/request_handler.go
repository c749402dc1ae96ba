package httpapi

import (
	"net/http"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	requestdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/paymentrequest"
	"github.com/gin-gonic/gin"
)

type PaymentRequestHandler struct {
	requestUC usecase.PaymentRequestUsecase
}

func NewPaymentRequestHandler(requestUC usecase.PaymentRequestUsecase) *PaymentRequestHandler {
	return &PaymentRequestHandler{requestUC: requestUC}
}

type createPaymentRequest struct {
	SenderName        string    `json:"sender_name"`
	SenderPhone       string    `json:"sender_phone"`
	RecipientID       string    `json:"recipient_id"`
	RecipientName     string    `json:"recipient_name" binding:"required"`
	RecipientPhone    string    `json:"recipient_phone" binding:"required"`
	Crop              string    `json:"crop" binding:"required"`
	QuantityKg        float64   `json:"quantity_kg"`
	Amount            int64     `json:"amount" binding:"required"`
	AdvancePercentage int       `json:"advance_percentage"`
	Description       string    `json:"description"`
	Bidirectional     bool      `json:"bidirectional"`
	DueDate           time.Time `json:"due_date"`
}

func (h *PaymentRequestHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := h.requestUC.Create(&requestdto.CreateRequestInput{
		SenderID:          CallerID(c),
		SenderName:        req.SenderName,
		SenderPhone:       req.SenderPhone,
		RecipientID:       req.RecipientID,
		RecipientName:     req.RecipientName,
		RecipientPhone:    req.RecipientPhone,
		Crop:              req.Crop,
		QuantityKg:        req.QuantityKg,
		Amount:            req.Amount,
		AdvancePercentage: req.AdvancePercentage,
		Description:       req.Description,
		Bidirectional:     req.Bidirectional,
		DueDate:           req.DueDate,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, requestResponse(request))
}

type acceptRequestBody struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *PaymentRequestHandler) Accept(c *gin.Context) {
	var req acceptRequestBody
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, ledger, err := h.requestUC.Accept(&requestdto.AcceptRequestInput{
		RequestID:     c.Param("id"),
		RecipientID:   CallerID(c),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request": requestResponse(request),
		"escrow":  ledgerResponse(ledger),
	})
}

type rejectRequestBody struct {
	Reason string `json:"reason"`
}

func (h *PaymentRequestHandler) Reject(c *gin.Context) {
	var req rejectRequestBody
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := h.requestUC.Reject(&requestdto.RejectRequestInput{
		RequestID:   c.Param("id"),
		RecipientID: CallerID(c),
		Reason:      req.Reason,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestResponse(request))
}

func (h *PaymentRequestHandler) Get(c *gin.Context) {
	request, err := h.requestUC.Get(c.Param("id"), CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestResponse(request))
}

func (h *PaymentRequestHandler) ListReceived(c *gin.Context) {
	requests, err := h.requestUC.ListReceived(CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestListResponse(requests))
}

func (h *PaymentRequestHandler) ListSent(c *gin.Context) {
	requests, err := h.requestUC.ListSent(CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestListResponse(requests))
}

func (h *PaymentRequestHandler) ListCompleted(c *gin.Context) {
	requests, err := h.requestUC.ListCompleted(CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestListResponse(requests))
}

func requestListResponse(requests []*domain.PaymentRequest) gin.H {
	items := make([]gin.H, 0, len(requests))
	for _, request := range requests {
		items = append(items, requestResponse(request))
	}
	return gin.H{"items": items, "total": len(items)}
}

func requestResponse(request *domain.PaymentRequest) gin.H {
	resp := gin.H{
		"id":                 request.ID,
		"sender_id":          request.SenderID,
		"sender_name":        request.SenderName,
		"recipient_id":       request.RecipientID,
		"recipient_name":     request.RecipientName,
		"crop":               request.Crop,
		"quantity_kg":        request.QuantityKg,
		"amount":             request.Amount,
		"advance_percentage": request.AdvancePercentage,
		"advance_amount":     request.AdvanceAmount,
		"bidirectional":      request.Bidirectional,
		"status":             request.Status,
		"created_at":         request.CreatedAt,
		"updated_at":         request.UpdatedAt,
	}
	if request.EscrowLedgerID != "" {
		resp["escrow_ledger_id"] = request.EscrowLedgerID
	}
	if request.RejectionReason != "" {
		resp["rejection_reason"] = request.RejectionReason
	}
	return resp
}
