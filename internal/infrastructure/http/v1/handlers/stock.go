package handlers

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/security"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/http/v1/dto"
	"inventrack/internal/infrastructure/http/v1/middleware"
)

// StockHandler serves the ledger: inventory, sales, returns, purchases and
// derived stock levels.
type StockHandler struct {
	*BaseHandler
	engine *stock.Engine
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, engine *stock.Engine) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		engine:      engine,
	}
}

// StockLevels handles GET /stock
func (h *StockHandler) StockLevels(c *gin.Context) {
	levels, err := h.engine.StockLevels(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(levels))
}

// ProductStock handles GET /products/:id/stock
func (h *StockHandler) ProductStock(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	qty, err := h.engine.EffectiveStock(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockResponse{ProductID: id, Quantity: qty})
}

// --- Inventory ---

// ListInventory handles GET /inventory
func (h *StockHandler) ListInventory(c *gin.Context) {
	var q dto.InventoryFilter
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.engine.ListInventory(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// GetInventory handles GET /inventory/:id
func (h *StockHandler) GetInventory(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	inv, err := h.engine.GetInventory(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// RecordInventory handles POST /inventory
func (h *StockHandler) RecordInventory(c *gin.Context) {
	var req dto.InventoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.engine.RecordInventory(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// RecordSpoilage handles POST /inventory/:id/spoilage
func (h *StockHandler) RecordSpoilage(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.QuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.engine.RecordSpoilage(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// --- Sales ---

// ListSales handles GET /sales
func (h *StockHandler) ListSales(c *gin.Context) {
	var q dto.LedgerQuery
	if !h.BindQuery(c, &q) {
		return
	}

	sales, err := h.engine.ListSales(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.FromSales(sales)))
}

// RecordSale handles POST /sales
func (h *StockHandler) RecordSale(c *gin.Context) {
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.engine.RecordSale(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.SaleResponse{Sale: *sale, Total: sale.Total()})
}

// ListSaleReturns handles GET /sales/:id/returns
func (h *StockHandler) ListSaleReturns(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	returns, err := h.engine.ListSaleReturns(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(returns))
}

// RecordReturn handles POST /sales/:id/returns
func (h *StockHandler) RecordReturn(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.QuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ret, err := h.engine.RecordReturn(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, ret)
}

// --- Purchases ---

// ListPurchases handles GET /purchases
func (h *StockHandler) ListPurchases(c *gin.Context) {
	var q dto.LedgerQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.engine.ListPurchases(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// RecordPurchase handles POST /purchases
func (h *StockHandler) RecordPurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.engine.RecordPurchase(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// RegisterRoutes registers ledger endpoints.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup, authz security.Authorizer) {
	read := middleware.RequireCapability(authz, security.CapViewLedger)
	write := middleware.RequireCapability(authz, security.CapRecordStock)

	rg.GET("/stock", read, h.StockLevels)
	rg.GET("/products/:id/stock", read, h.ProductStock)

	rg.GET("/inventory", read, h.ListInventory)
	rg.POST("/inventory", write, h.RecordInventory)
	rg.GET("/inventory/:id", read, h.GetInventory)
	rg.POST("/inventory/:id/spoilage", write, h.RecordSpoilage)

	rg.GET("/sales", read, h.ListSales)
	rg.POST("/sales", write, h.RecordSale)
	rg.GET("/sales/:id/returns", read, h.ListSaleReturns)
	rg.POST("/sales/:id/returns", write, h.RecordReturn)

	rg.GET("/purchases", read, h.ListPurchases)
	rg.POST("/purchases", write, h.RecordPurchase)
}
