package httpapi

import (
	"net/http"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	reviewdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/review"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reputationUC usecase.ReputationUsecase
}

func NewReviewHandler(reputationUC usecase.ReputationUsecase) *ReviewHandler {
	return &ReviewHandler{reputationUC: reputationUC}
}

type submitReviewRequest struct {
	LedgerID      string  `json:"ledger_id" binding:"required"`
	Rating        int     `json:"rating" binding:"required"`
	Title         string  `json:"title"`
	Comment       string  `json:"comment"`
	Quality       float64 `json:"quality"`
	Communication float64 `json:"communication"`
	Timeliness    float64 `json:"timeliness"`
	Fairness      float64 `json:"fairness"`
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.reputationUC.SubmitReview(&reviewdto.SubmitReviewInput{
		LedgerID:   req.LedgerID,
		ReviewerID: CallerID(c),
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		Categories: domain.CategoryRatings{
			Quality:       req.Quality,
			Communication: req.Communication,
			Timeliness:    req.Timeliness,
			Fairness:      req.Fairness,
		},
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             review.ID,
		"transaction_id": review.TransactionID,
		"rating":         review.Rating,
		"created_at":     review.CreatedAt,
	})
}

func (h *ReviewHandler) ListForUser(c *gin.Context) {
	var query struct {
		Page  int64 `form:"page,default=1"`
		Limit int64 `form:"limit,default=10"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reviews, total, err := h.reputationUC.ListReviews(c.Param("userId"), query.Page, query.Limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, gin.H{
			"id":          review.ID,
			"reviewer_id": review.ReviewerID,
			"rating":      review.Rating,
			"title":       review.Title,
			"comment":     review.Comment,
			"categories": gin.H{
				"quality":       review.Categories.Quality,
				"communication": review.Categories.Communication,
				"timeliness":    review.Categories.Timeliness,
				"fairness":      review.Categories.Fairness,
			},
			"created_at": review.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": query.Page, "limit": query.Limit})
}

func (h *ReviewHandler) GetReputation(c *gin.Context) {
	record, err := h.reputationUC.GetReputation(c.Param("userId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":        record.UserID,
		"total_reviews":  record.TotalReviews,
		"average_rating": record.AverageRating,
		"distribution": gin.H{
			"5": record.Distribution.FiveStar,
			"4": record.Distribution.FourStar,
			"3": record.Distribution.ThreeStar,
			"2": record.Distribution.TwoStar,
			"1": record.Distribution.OneStar,
		},
		"categories": gin.H{
			"quality":       record.Categories.Quality,
			"communication": record.Categories.Communication,
			"timeliness":    record.Categories.Timeliness,
			"fairness":      record.Categories.Fairness,
		},
		"badges": gin.H{
			"verified":      record.Badges.Verified,
			"top_seller":    record.Badges.TopSeller,
			"top_buyer":     record.Badges.TopBuyer,
			"reliable":      record.Badges.Reliable,
			"communicative": record.Badges.Communicative,
			"fast_shipper":  record.Badges.FastShipper,
			"responsive":    record.Badges.Responsive,
		},
		"total_transactions":      record.TotalTransactions,
		"successful_transactions": record.SuccessfulTransactions,
		"disputed_transactions":   record.DisputedTransactions,
		"success_rate":            record.SuccessRate,
		"risk_level":              record.RiskLevel,
		"risk_flags":              record.RiskFlags,
		"updated_at":              record.UpdatedAt,
	})
}
