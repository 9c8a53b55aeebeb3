package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/usecase"
)

type ReportHandler struct {
	useCase usecase.ReportUseCase
	log     *logrus.Logger
}

func NewReportHandler(uc usecase.ReportUseCase, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router gin.IRouter) {
	reports := router.Group("/reports")
	{
		reports.GET("/valuation", h.InventoryValuation)
		reports.GET("/sales-summary", h.SalesSummary)
		reports.GET("/profit", h.ProfitReport)
		reports.GET("/alerts", h.Alerts)
	}
}

func (h *ReportHandler) InventoryValuation(c *gin.Context) {
	valuation, err := h.useCase.InventoryValuation(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to compute inventory valuation: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to compute inventory valuation: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Inventory valuation computed successfully", valuation)
}

func (h *ReportHandler) SalesSummary(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	summary, err := h.useCase.SalesSummary(c.Request.Context(), limit)
	if err != nil {
		h.log.Errorf("Failed to compute sales summary: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to compute sales summary: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Sales summary computed successfully", summary)
}

func (h *ReportHandler) ProfitReport(c *gin.Context) {
	report, err := h.useCase.ProfitReport(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to compute profit report: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to compute profit report: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profit report computed successfully", report)
}

func (h *ReportHandler) Alerts(c *gin.Context) {
	alerts, err := h.useCase.Alerts(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to evaluate alerts: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to evaluate alerts: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Alerts evaluated successfully", alerts)
}
