package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"inventrack/internal/core/apperror"
	appctx "inventrack/internal/core/context"
	"inventrack/internal/core/security"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/auth"
	"inventrack/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
	journal *audit.Journal
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service, journal *audit.Journal) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
		journal:     journal,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.service.Signup(c.Request.Context(), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAccount(account))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.service.Login)
}

// ClerkLogin handles POST /auth/clerk/login
func (h *AuthHandler) ClerkLogin(c *gin.Context) {
	h.login(c, h.service.ClerkLogin)
}

type loginFunc func(ctx context.Context, creds auth.Credentials) (*auth.TokenPair, *auth.Account, error)

func (h *AuthHandler) login(c *gin.Context, fn loginFunc) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, account, err := fn(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		Tokens:  dto.FromTokenPair(tokens),
		Account: dto.FromAccount(account),
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTokenPair(tokens))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	user := appctx.GetUser(ctx)
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	if err := h.service.Logout(ctx, user); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "logged out")
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	h.OK(c, dto.SessionResponse{
		AccountID: user.AccountID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: user.ExpiresAt,
	})
}

// Profile handles GET /profile
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	accountID := appctx.GetAccountID(ctx)
	if accountID == 0 {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	account, err := h.service.GetAccount(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	history, err := h.journal.History(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ProfileResponse{
		Account:      dto.FromAccount(account),
		Transactions: history,
	})
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	filter := auth.AccountFilter{Role: security.Role(c.Query("role"))}

	accounts, err := h.service.ListAccounts(c.Request.Context(), h.Actor(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromAccounts(accounts)))
}

// GetUser handles GET /users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	actor := h.Actor(c)
	if !actor.IsAdmin() && actor.AccountID != id {
		h.Error(c, apperror.NewForbidden("cannot view another account"))
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAccount(account))
}

// ChangeRole handles PATCH /users/:id
func (h *AuthHandler) ChangeRole(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := security.ParseRole(req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}

	account, err := h.service.ChangeRole(c.Request.Context(), h.Actor(c), id, role)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAccount(account))
}

// CreateClerk handles POST /admin/clerks
func (h *AuthHandler) CreateClerk(c *gin.Context) {
	var req dto.ClerkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.service.CreateClerk(c.Request.Context(), h.Actor(c), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromAccount(account))
}

// ListClerks handles GET /admin/clerks
func (h *AuthHandler) ListClerks(c *gin.Context) {
	accounts, err := h.service.ListClerks(c.Request.Context(), h.Actor(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromAccounts(accounts)))
}

// UpdateClerk handles PATCH /admin/clerks/:id
func (h *AuthHandler) UpdateClerk(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.AccountPatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.service.UpdateClerk(c.Request.Context(), h.Actor(c), id, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAccount(account))
}

// DeleteClerk handles DELETE /admin/clerks/:id
func (h *AuthHandler) DeleteClerk(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteClerk(c.Request.Context(), h.Actor(c), id); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers auth endpoints on public and protected groups.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/signup", h.Signup)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/clerk/login", h.ClerkLogin)
	public.POST("/auth/refresh", h.Refresh)

	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/session", h.Session)
	protected.GET("/profile", h.Profile)

	users := protected.Group("/users")
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.ChangeRole)

	clerks := protected.Group("/admin/clerks")
	clerks.POST("", h.CreateClerk)
	clerks.GET("", h.ListClerks)
	clerks.PATCH("/:id", h.UpdateClerk)
	clerks.DELETE("/:id", h.DeleteClerk)
}
