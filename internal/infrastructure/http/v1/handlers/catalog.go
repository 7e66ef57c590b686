package handlers

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/security"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/infrastructure/http/v1/dto"
	"inventrack/internal/infrastructure/http/v1/middleware"
)

// CatalogHandler serves categories, products, suppliers and supplier offers.
type CatalogHandler struct {
	*BaseHandler
	categories *category.Service
	products   *product.Service
	suppliers  *supplier.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, categories *category.Service, products *product.Service, suppliers *supplier.Service) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		categories:  categories,
		products:    products,
		suppliers:   suppliers,
	}
}

// --- Categories ---

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	items, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := req.ToEntity()
	if err := h.categories.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat)
}

// CategoryProducts handles GET /categories/:id/products
func (h *CatalogHandler) CategoryProducts(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	items, err := h.products.ListByCategory(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// --- Products ---

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ProductFilter
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.products.List(c.Request.Context(), product.Filter{CategoryID: q.CategoryID, Search: q.Search})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// UpdateProduct handles PUT /products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	p.ID = id
	if err := h.products.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// DeleteProduct handles DELETE /products/:id
// Dependent ledger rows are removed with the product.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// --- Suppliers ---

// ListSuppliers handles GET /suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	items, err := h.suppliers.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// CreateSupplier handles POST /suppliers
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := req.ToEntity()
	if err := h.suppliers.Create(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s)
}

// ListSupplierProducts handles GET /supplier-products
func (h *CatalogHandler) ListSupplierProducts(c *gin.Context) {
	var q dto.SupplierProductFilter
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.suppliers.ListOffers(c.Request.Context(), q.SupplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// CreateSupplierProduct handles POST /supplier-products
func (h *CatalogHandler) CreateSupplierProduct(c *gin.Context) {
	var req dto.SupplierProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	offer := req.ToEntity()
	if err := h.suppliers.AddOffer(c.Request.Context(), offer); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, offer)
}

// RegisterRoutes registers catalog endpoints. Reads need the ledger view
// capability, writes need catalog management.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup, authz security.Authorizer) {
	read := middleware.RequireCapability(authz, security.CapViewLedger)
	write := middleware.RequireCapability(authz, security.CapManageCatalog)

	rg.GET("/categories", read, h.ListCategories)
	rg.POST("/categories", write, h.CreateCategory)
	rg.GET("/categories/:id/products", read, h.CategoryProducts)

	rg.GET("/products", read, h.ListProducts)
	rg.POST("/products", write, h.CreateProduct)
	rg.GET("/products/:id", read, h.GetProduct)
	rg.PUT("/products/:id", write, h.UpdateProduct)
	rg.DELETE("/products/:id", write, h.DeleteProduct)

	rg.GET("/suppliers", read, h.ListSuppliers)
	rg.POST("/suppliers", write, h.CreateSupplier)
	rg.GET("/supplier-products", read, h.ListSupplierProducts)
	rg.POST("/supplier-products", write, h.CreateSupplierProduct)
}
