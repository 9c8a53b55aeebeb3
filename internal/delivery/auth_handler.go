package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/usecase"
)

type AuthHandler struct {
	useCase usecase.UserUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterPublicRoutes mounts the endpoints that work without a token.
func (h *AuthHandler) RegisterPublicRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes mounts the endpoints that require authentication.
func (h *AuthHandler) RegisterProtectedRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.GET("/me", h.Me)
		auth.POST("/elevate", h.Elevate)
	}
}

// RegisterAdminRoutes mounts user management for admins only.
func (h *AuthHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.POST("/users", h.Signup)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var input usecase.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for signup: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), &input)
	if err != nil {
		h.log.Errorf("Failed to register user '%s': %v", input.Username, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to register user: "+err.Error())
		return
	}

	h.log.Infof("User registered successfully: ID %d, username %s", user.ID, user.Username)
	SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Warnf("Login failed for user '%s': %v", req.Username, err)
		ErrorResponse(c, mapErrorToStatus(err), "Login failed: "+err.Error())
		return
	}

	h.log.Infof("User '%s' logged in successfully", req.Username)
	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.useCase.GetUserByID(c.Request.Context(), actingUserID(c))
	if err != nil {
		h.log.Warnf("Failed to load current user %d: %v", actingUserID(c), err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve current user: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Current user retrieved successfully", user)
}

// Elevate re-authenticates an admin so the caller may apply a discount above
// the elevated threshold. It confirms authorization without issuing a token.
func (h *AuthHandler) Elevate(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.VerifyAdminCredentials(c.Request.Context(), req.Username, req.Password); err != nil {
		h.log.Warnf("Elevated authorization failed for '%s': %v", req.Username, err)
		ErrorResponse(c, mapErrorToStatus(err), err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Authorization granted", nil)
}
