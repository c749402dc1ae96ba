package httpapi

import (
	"net/http"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type UnifiedHandler struct {
	unifiedUC usecase.UnifiedViewUsecase
}

func NewUnifiedHandler(unifiedUC usecase.UnifiedViewUsecase) *UnifiedHandler {
	return &UnifiedHandler{unifiedUC: unifiedUC}
}

func (h *UnifiedHandler) ListMine(c *gin.Context) {
	category := domain.StatusCategory(c.DefaultQuery("status", "all"))
	records, summary, err := h.unifiedUC.ListForUser(CallerID(c), category)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unifiedResponse(records, summary))
}

func (h *UnifiedHandler) ListAll(c *gin.Context) {
	category := domain.StatusCategory(c.DefaultQuery("status", "all"))
	records, summary, err := h.unifiedUC.ListAll(category)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unifiedResponse(records, summary))
}

func unifiedResponse(records []*domain.UnifiedRecord, summary *domain.UnifiedSummary) gin.H {
	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		item := gin.H{
			"kind":        record.Kind,
			"id":          record.ID,
			"crop":        record.Crop,
			"quantity_kg": record.QuantityKg,
			"amount":      record.Amount,
			"currency":    record.Currency,
			"buyer_id":    record.BuyerID,
			"seller_id":   record.SellerID,
			"status":      record.Status,
			"created_at":  record.CreatedAt,
			"updated_at":  record.UpdatedAt,
		}
		if record.Contract != nil {
			item["contract"] = contractResponse(record.Contract)
		}
		if record.Escrow != nil {
			item["escrow"] = ledgerResponse(record.Escrow)
		}
		items = append(items, item)
	}
	return gin.H{
		"items": items,
		"summary": gin.H{
			"total":     summary.Total,
			"contracts": summary.Contracts,
			"escrows":   summary.Escrows,
			"pending":   summary.Pending,
			"completed": summary.Completed,
			"disputed":  summary.Disputed,
		},
	}
}
