package handlers

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/infrastructure/http/v1/dto"
)

// SupplyRequestHandler serves the supply request workflow.
// Authorization happens in the workflow itself.
type SupplyRequestHandler struct {
	*BaseHandler
	workflow *supply_request.Workflow
}

// NewSupplyRequestHandler creates a new supply request handler.
func NewSupplyRequestHandler(base *BaseHandler, workflow *supply_request.Workflow) *SupplyRequestHandler {
	return &SupplyRequestHandler{
		BaseHandler: base,
		workflow:    workflow,
	}
}

// List handles GET /supply-requests
func (h *SupplyRequestHandler) List(c *gin.Context) {
	var q dto.SupplyRequestFilter
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.workflow.List(c.Request.Context(), h.Actor(c), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// Create handles POST /supply-requests
func (h *SupplyRequestHandler) Create(c *gin.Context) {
	var req dto.SupplyRequestCreate
	if !h.BindJSON(c, &req) {
		return
	}

	sr, err := h.workflow.Submit(c.Request.Context(), h.Actor(c), req.ProductID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sr)
}

// Get handles GET /supply-requests/:id
func (h *SupplyRequestHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	sr, err := h.workflow.Get(c.Request.Context(), h.Actor(c), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sr)
}

// Update handles PUT /supply-requests/:id
func (h *SupplyRequestHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.SupplyRequestPatch
	if !h.BindJSON(c, &req) {
		return
	}

	sr, err := h.workflow.Update(c.Request.Context(), h.Actor(c), id, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sr)
}

// Delete handles DELETE /supply-requests/:id
func (h *SupplyRequestHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.workflow.Delete(c.Request.Context(), h.Actor(c), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Approve handles POST /supply-requests/:id/approve
func (h *SupplyRequestHandler) Approve(c *gin.Context) {
	h.decide(c, entity.SupplyApproved)
}

// Reject handles POST /supply-requests/:id/reject
func (h *SupplyRequestHandler) Reject(c *gin.Context) {
	h.decide(c, entity.SupplyRejected)
}

func (h *SupplyRequestHandler) decide(c *gin.Context, outcome entity.SupplyStatus) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	sr, err := h.workflow.Decide(c.Request.Context(), h.Actor(c), id, outcome)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sr)
}

// Complete handles POST /supply-requests/:id/complete
func (h *SupplyRequestHandler) Complete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	sr, purchase, err := h.workflow.Complete(c.Request.Context(), h.Actor(c), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CompleteResponse{Request: sr, Purchase: purchase})
}

// RegisterRoutes registers supply request endpoints.
func (h *SupplyRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/supply-requests")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/complete", h.Complete)
}
