package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/usecase"
)

type SettingsHandler struct {
	useCase usecase.SettingsUseCase
	log     *logrus.Logger
}

func NewSettingsHandler(uc usecase.SettingsUseCase, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes mounts the read side; RegisterAdminRoutes the write side.
func (h *SettingsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/settings", h.ListSettings)
}

func (h *SettingsHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.PUT("/settings/:key", h.SetSetting)
}

func (h *SettingsHandler) ListSettings(c *gin.Context) {
	settings, err := h.useCase.ListSettings(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list settings: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve settings: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", settings)
}

type setSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *SettingsHandler) SetSetting(c *gin.Context) {
	key := c.Param("key")

	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.SetSetting(c.Request.Context(), key, req.Value); err != nil {
		h.log.Warnf("Failed to set setting %s: %v", key, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update setting: "+err.Error())
		return
	}

	h.log.Infof("Setting %s updated by user %d", key, actingUserID(c))
	SuccessResponse(c, http.StatusOK, "Setting updated successfully", gin.H{key: req.Value})
}
