package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

type AuditHandler struct {
	auditRepo domain.AuditRepository
	log       *logrus.Logger
}

func NewAuditHandler(auditRepo domain.AuditRepository, logger *logrus.Logger) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
		log:       logger,
	}
}

func (h *AuditHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/audit-log", h.ListAuditEntries)
}

func (h *AuditHandler) ListAuditEntries(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := h.auditRepo.ListAuditEntries(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list audit entries: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve audit log: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Audit log retrieved successfully", entries)
}
