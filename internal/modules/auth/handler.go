package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authservice/internal/pkg/cookies"
	"authservice/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookies *cookies.Manager
	log     *zap.Logger
}

func NewHandler(service *Service, cookieManager *cookies.Manager, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cookies: cookieManager,
		log:     log,
	}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/self", h.Self)
}

// Register creates the user, persists a refresh-token row and answers
// 201 with the new id, setting both token cookies.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	h.log.Debug("new request to register a user",
		zap.String("firstName", req.FirstName),
		zap.String("lastName", req.LastName),
		zap.String("email", req.Email),
		zap.String("password", "******"),
	)

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "ConflictError", "Email is already exists!")
			return
		}
		_ = c.Error(err)
		return
	}

	h.log.Info("user has been registered", zap.Int64("id", user.ID))

	session, err := h.service.IssueSession(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.SetAccessToken(c, session.AccessToken)
	h.cookies.SetRefreshToken(c, session.RefreshToken)

	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	h.log.Debug("new request to login a user",
		zap.String("email", req.Email),
		zap.String("password", "******"),
	)

	user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "UnauthorizedError", "Email and password does not match")
			return
		}
		_ = c.Error(err)
		return
	}

	session, err := h.service.IssueSession(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.cookies.SetAccessToken(c, session.AccessToken)
	h.cookies.SetRefreshToken(c, session.RefreshToken)

	h.log.Info("user has been logged in", zap.Int64("id", user.ID))
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

// Self returns the authenticated user's record. The password hash is
// never serialized.
func (h *Handler) Self(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.Self(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// valid signature over a subject that no longer exists
			response.Error(c, http.StatusUnauthorized, "UnauthorizedError", "Invalid access token")
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}
