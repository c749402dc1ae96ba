package httpapi

import (
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Escrow   *EscrowHandler
	Contract *ContractHandler
	Request  *PaymentRequestHandler
	Review   *ReviewHandler
	Unified  *UnifiedHandler
}

func NewHandlers(
	escrowUC usecase.EscrowUsecase,
	contractUC usecase.ContractUsecase,
	requestUC usecase.PaymentRequestUsecase,
	reputationUC usecase.ReputationUsecase,
	unifiedUC usecase.UnifiedViewUsecase,
) *Handlers {
	return &Handlers{
		Escrow:   NewEscrowHandler(escrowUC),
		Contract: NewContractHandler(contractUC),
		Request:  NewPaymentRequestHandler(requestUC),
		Review:   NewReviewHandler(reputationUC),
		Unified:  NewUnifiedHandler(unifiedUC),
	}
}

func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := router.Group("/api/v1", Identity())

	escrow := api.Group("/escrow")
	{
		escrow.POST("", h.Escrow.Initiate)
		escrow.GET("", h.Escrow.List)
		escrow.GET("/:id", h.Escrow.Get)
		escrow.POST("/:id/payment-order", h.Escrow.CreatePaymentOrder)
		escrow.POST("/verify-payment", h.Escrow.VerifyPayment)
		escrow.POST("/:id/confirm-payment", h.Escrow.ConfirmPayment)
		escrow.POST("/:id/confirm-delivery", h.Escrow.ConfirmDelivery)
		escrow.POST("/:id/release", h.Escrow.Release)
		escrow.POST("/:id/dispute", h.Escrow.RaiseDispute)
		escrow.POST("/:id/dispute/resolve", AdminOnly(), h.Escrow.ResolveDispute)
		escrow.POST("/:id/blockchain", h.Escrow.RecordBlockchain)
	}

	contracts := api.Group("/contracts")
	{
		contracts.POST("", h.Contract.Create)
		contracts.GET("", h.Contract.List)
		contracts.GET("/:id", h.Contract.Get)
		contracts.GET("/:id/order-status", h.Contract.OrderStatus)
		contracts.POST("/:id/sign", h.Contract.Sign)
		contracts.POST("/:id/confirm-payment", h.Contract.ConfirmPayment)
		contracts.POST("/:id/harvest", h.Contract.SubmitHarvest)
		contracts.POST("/:id/verify", h.Contract.Verify)
		contracts.POST("/:id/dispute", h.Contract.RaiseDispute)
	}

	requests := api.Group("/payment-requests")
	{
		requests.POST("", h.Request.Create)
		requests.GET("/received", h.Request.ListReceived)
		requests.GET("/sent", h.Request.ListSent)
		requests.GET("/completed", h.Request.ListCompleted)
		requests.GET("/:id", h.Request.Get)
		requests.POST("/:id/accept", h.Request.Accept)
		requests.POST("/:id/reject", h.Request.Reject)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", h.Review.Submit)
		reviews.GET("/user/:userId", h.Review.ListForUser)
	}
	api.GET("/reputation/:userId", h.Review.GetReputation)

	api.GET("/transactions", h.Unified.ListMine)
	api.GET("/admin/transactions", AdminOnly(), h.Unified.ListAll)

	return router
}
