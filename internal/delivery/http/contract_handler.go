package httpapi

import (
	"net/http"
	"time"

	"github.com/agrisetu/agri-trade-service/internal/domain"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	contractdto "github.com/agrisetu/agri-trade-service/internal/usecase/dto/contract"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	contractUC usecase.ContractUsecase
}

func NewContractHandler(contractUC usecase.ContractUsecase) *ContractHandler {
	return &ContractHandler{contractUC: contractUC}
}

type createContractRequest struct {
	FarmerID            string    `json:"farmer_id" binding:"required"`
	ListingID           string    `json:"listing_id"`
	Crop                string    `json:"crop" binding:"required"`
	QuantityKg          float64   `json:"quantity_kg" binding:"required"`
	PricePerKg          int64     `json:"price_per_kg" binding:"required"`
	Currency            string    `json:"currency"`
	DownPaymentPercent  int       `json:"down_payment_percent"`
	DeliveryWindowStart time.Time `json:"delivery_window_start"`
	DeliveryWindowEnd   time.Time `json:"delivery_window_end"`
	QualityMoisture     float64   `json:"quality_moisture_percent"`
	QualityDefectLimit  float64   `json:"quality_defect_limit"`
	QualitySizeGrade    string    `json:"quality_size_grade"`
	PayoutAccountID     string    `json:"payout_account_id"`
}

func (h *ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.contractUC.CreateContract(&contractdto.CreateContractInput{
		BuyerID:             CallerID(c),
		FarmerID:            req.FarmerID,
		ListingID:           req.ListingID,
		Crop:                req.Crop,
		QuantityKg:          req.QuantityKg,
		PricePerKg:          req.PricePerKg,
		Currency:            req.Currency,
		DownPaymentPercent:  req.DownPaymentPercent,
		DeliveryWindowStart: req.DeliveryWindowStart,
		DeliveryWindowEnd:   req.DeliveryWindowEnd,
		Quality: domain.QualityStandards{
			MoisturePercent: req.QualityMoisture,
			DefectLimit:     req.QualityDefectLimit,
			SizeGrade:       req.QualitySizeGrade,
		},
		PayoutAccountID: req.PayoutAccountID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contractResponse(contract))
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contractUC.GetContract(c.Param("id"), CallerID(c), CallerRole(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contractUC.ListForUser(CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(contracts))
	for _, contract := range contracts {
		items = append(items, contractResponse(contract))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *ContractHandler) Sign(c *gin.Context) {
	contract, err := h.contractUC.SignContract(c.Param("id"), CallerID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

type contractPaymentRequest struct {
	PaymentRef string `json:"payment_ref"`
}

func (h *ContractHandler) ConfirmPayment(c *gin.Context) {
	var req contractPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.contractUC.ConfirmPayment(&contractdto.ConfirmContractPaymentInput{
		ContractID: c.Param("id"),
		ActorID:    CallerID(c),
		PaymentRef: req.PaymentRef,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

type submitHarvestRequest struct {
	Photos      []string `json:"photos" binding:"required"`
	GPSLat      float64  `json:"gps_lat"`
	GPSLng      float64  `json:"gps_lng"`
	Description string   `json:"description"`
}

func (h *ContractHandler) SubmitHarvest(c *gin.Context) {
	var req submitHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.contractUC.SubmitHarvest(&contractdto.SubmitHarvestInput{
		ContractID:  c.Param("id"),
		FarmerID:    CallerID(c),
		Photos:      req.Photos,
		GPSLat:      req.GPSLat,
		GPSLng:      req.GPSLng,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

type verifyHarvestRequest struct {
	Verified bool   `json:"verified"`
	Notes    string `json:"notes"`
}

func (h *ContractHandler) Verify(c *gin.Context) {
	var req verifyHarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.contractUC.VerifyAndComplete(c.Request.Context(), &contractdto.VerifyAndCompleteInput{
		ContractID: c.Param("id"),
		ActorID:    CallerID(c),
		ActorRole:  CallerRole(c),
		Verified:   req.Verified,
		Notes:      req.Notes,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

func (h *ContractHandler) RaiseDispute(c *gin.Context) {
	var req raiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.contractUC.RaiseDispute(&contractdto.ContractDisputeInput{
		ContractID: c.Param("id"),
		RaisedBy:   CallerID(c),
		Reason:     req.Reason,
		Evidence:   req.Evidence,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse(contract))
}

func (h *ContractHandler) OrderStatus(c *gin.Context) {
	status, err := h.contractUC.OrderStatus(c.Param("id"), CallerID(c), CallerRole(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"contract_id":         status.ContractID,
		"stage":               status.Stage,
		"current_status":      status.CurrentStatus,
		"is_paid":             status.IsPaid,
		"is_completed":        status.IsCompleted,
		"down_payment_amount": status.DownPaymentAmount,
		"total_value":         status.TotalValue,
		"crop":                status.Crop,
		"quantity_kg":         status.QuantityKg,
		"harvest_verified":    status.HarvestVerified,
		"payment_released":    status.PaymentReleased,
	})
}

func contractResponse(contract *domain.Contract) gin.H {
	history := make([]gin.H, 0, len(contract.StageHistory))
	for _, entry := range contract.StageHistory {
		history = append(history, gin.H{
			"seq":       entry.Seq,
			"stage":     entry.Stage,
			"timestamp": entry.Timestamp,
			"actor_id":  entry.ActorID,
		})
	}
	resp := gin.H{
		"id":                   contract.ID,
		"buyer_id":             contract.BuyerID,
		"farmer_id":            contract.FarmerID,
		"crop":                 contract.Crop,
		"quantity_kg":          contract.QuantityKg,
		"price_per_kg":         contract.PricePerKg,
		"total_value":          contract.TotalValue,
		"currency":             contract.Currency,
		"down_payment_percent": contract.DownPaymentPercent,
		"down_payment_amount":  contract.DownPaymentAmount,
		"down_payment_status":  contract.DownPaymentStatus,
		"stage":                contract.Stage,
		"stage_history":        history,
		"escrow_ledger_id":     contract.EscrowLedgerID,
		"created_at":           contract.CreatedAt,
		"updated_at":           contract.UpdatedAt,
	}
	if !contract.HarvestProof.SubmittedAt.IsZero() {
		resp["harvest_proof"] = gin.H{
			"photos":       contract.HarvestProof.Photos,
			"gps_lat":      contract.HarvestProof.GPSLat,
			"gps_lng":      contract.HarvestProof.GPSLng,
			"description":  contract.HarvestProof.Description,
			"submitted_at": contract.HarvestProof.SubmittedAt,
		}
	}
	if !contract.Verification.VerifiedAt.IsZero() {
		resp["verification"] = gin.H{
			"verified":    contract.Verification.Verified,
			"by_admin":    contract.Verification.ByAdmin,
			"notes":       contract.Verification.Notes,
			"verified_at": contract.Verification.VerifiedAt,
		}
	}
	return resp
}
