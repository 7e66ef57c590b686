package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/payment"
	"inventrack/internal/infrastructure/http/v1/dto"
	"inventrack/pkg/logger"
)

// PaymentHandler serves manual payments, provider callbacks and the
// activity journal.
type PaymentHandler struct {
	*BaseHandler
	reconciler *payment.Reconciler
	journal    *audit.Journal
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, reconciler *payment.Reconciler, journal *audit.Journal) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		reconciler:  reconciler,
		journal:     journal,
	}
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	items, err := h.reconciler.List(c.Request.Context(), h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.reconciler.RecordManual(c.Request.Context(), h.Actor(c), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// RecordTransaction handles POST /transactions
func (h *PaymentHandler) RecordTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.journal.Record(c.Request.Context(), h.Actor(c), req.ToEntry())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}

// MpesaValidation handles POST /mpesa/validation
// The provider always gets HTTP 200; the verdict is in the ack body.
func (h *PaymentHandler) MpesaValidation(c *gin.Context) {
	conf, ok := h.bindCallback(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.reconciler.Validate(c.Request.Context(), conf))
}

// MpesaConfirmation handles POST /mpesa/confirmation
func (h *PaymentHandler) MpesaConfirmation(c *gin.Context) {
	conf, ok := h.bindCallback(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.reconciler.Reconcile(c.Request.Context(), conf))
}

func (h *PaymentHandler) bindCallback(c *gin.Context) (payment.Confirmation, bool) {
	var req dto.MpesaCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(c.Request.Context(), "malformed mpesa callback", "error", err)
		c.JSON(http.StatusOK, payment.Rejected(payment.DescInvalidRequest))
		return payment.Confirmation{}, false
	}
	return req.ToConfirmation(), true
}

// RegisterRoutes registers payment endpoints. Callbacks go on the public group.
func (h *PaymentHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/mpesa/validation", h.MpesaValidation)
	public.POST("/mpesa/confirmation", h.MpesaConfirmation)

	protected.GET("/payments", h.List)
	protected.POST("/payments", h.Create)
	protected.POST("/transactions", h.RecordTransaction)
}
