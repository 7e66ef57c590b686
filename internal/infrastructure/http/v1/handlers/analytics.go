package handlers

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/security"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/infrastructure/http/v1/dto"
	"inventrack/internal/infrastructure/http/v1/middleware"
)

// AnalyticsHandler serves ledger aggregates.
type AnalyticsHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(base *BaseHandler, service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Summary handles GET /analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// ProductSales handles GET /analytics/product-sales
func (h *AnalyticsHandler) ProductSales(c *gin.Context) {
	ranking, err := h.service.ProductSalesRanking(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(ranking))
}

// TotalRevenue handles GET /analytics/total-revenue
func (h *AnalyticsHandler) TotalRevenue(c *gin.Context) {
	v, err := h.service.TotalRevenue(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"totalRevenue": v})
}

// TotalPurchase handles GET /analytics/total-purchase
func (h *AnalyticsHandler) TotalPurchase(c *gin.Context) {
	v, err := h.service.TotalPurchaseCost(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"totalPurchase": v})
}

// TotalIncome handles GET /analytics/total-income
func (h *AnalyticsHandler) TotalIncome(c *gin.Context) {
	v, err := h.service.TotalIncome(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"totalIncome": v})
}

// TotalSaleReturns handles GET /analytics/total-sale-returns
func (h *AnalyticsHandler) TotalSaleReturns(c *gin.Context) {
	v, err := h.service.TotalSaleReturns(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"totalSaleReturns": v})
}

// BestSeller handles GET /analytics/best-seller?days=7
// Responds 404 when nothing sold in the window.
func (h *AnalyticsHandler) BestSeller(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", analytics.BestSellerWindowDays)
	if days <= 0 || days > 366 {
		h.Error(c, apperror.NewValidation("days must be between 1 and 366").WithDetail("days", days))
		return
	}

	best, err := h.service.BestSellerInWindow(c.Request.Context(), days)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, best)
}

// SalesData handles GET /analytics/sales-data
func (h *AnalyticsHandler) SalesData(c *gin.Context) {
	series, err := h.service.DailyRevenueSeries(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(series))
}

// ProfitLossData handles GET /analytics/profit-loss-data
func (h *AnalyticsHandler) ProfitLossData(c *gin.Context) {
	series, err := h.service.DailyProfitSeries(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(series))
}

// RegisterRoutes registers analytics endpoints.
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup, authz security.Authorizer) {
	g := rg.Group("/analytics", middleware.RequireCapability(authz, security.CapViewAnalytics))
	g.GET("/summary", h.Summary)
	g.GET("/product-sales", h.ProductSales)
	g.GET("/total-revenue", h.TotalRevenue)
	g.GET("/total-purchase", h.TotalPurchase)
	g.GET("/total-income", h.TotalIncome)
	g.GET("/total-sale-returns", h.TotalSaleReturns)
	g.GET("/best-seller", h.BestSeller)
	g.GET("/sales-data", h.SalesData)
	g.GET("/profit-loss-data", h.ProfitLossData)
}
