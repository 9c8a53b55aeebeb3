package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/usecase"
)

type PurchaseOrderHandler struct {
	useCase usecase.PurchaseOrderUseCase
	log     *logrus.Logger
}

func NewPurchaseOrderHandler(uc usecase.PurchaseOrderUseCase, logger *logrus.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *PurchaseOrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/purchase-orders")
	{
		orders.POST("", h.CreatePurchaseOrder)
		orders.GET("", h.ListPurchaseOrders)
		orders.GET("/:id", h.GetPurchaseOrderByID)
		orders.POST("/:id/receive", h.ReceivePurchaseOrder)
		orders.DELETE("/:id", h.DeletePurchaseOrder)
	}
}

func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *gin.Context) {
	var po domain.PurchaseOrder
	if err := c.ShouldBindJSON(&po); err != nil {
		h.log.Errorf("Failed to bind JSON for create purchase order: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreatePurchaseOrder(c.Request.Context(), &po)
	if err != nil {
		h.log.Errorf("Failed to create purchase order for supplier %d: %v", po.SupplierID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create purchase order: "+err.Error())
		return
	}

	h.log.Infof("Purchase order created successfully: ID %d", created.ID)
	SuccessResponse(c, http.StatusCreated, "Purchase order created successfully", created)
}

func (h *PurchaseOrderHandler) GetPurchaseOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	po, err := h.useCase.GetPurchaseOrderByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get purchase order by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve purchase order: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Purchase order retrieved successfully", po)
}

func (h *PurchaseOrderHandler) ListPurchaseOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.useCase.ListPurchaseOrders(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list purchase orders: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve purchase orders: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Purchase orders retrieved successfully", orders)
}

func (h *PurchaseOrderHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	po, err := h.useCase.ReceivePurchaseOrder(c.Request.Context(), id, actingUserID(c))
	if err != nil {
		h.log.Warnf("Failed to receive purchase order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to receive purchase order: "+err.Error())
		return
	}

	h.log.Infof("Purchase order %d received successfully", id)
	SuccessResponse(c, http.StatusOK, "Purchase order received successfully", po)
}

func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid purchase order ID format")
		return
	}

	if err := h.useCase.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete purchase order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete purchase order: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Purchase order deleted successfully", nil)
}
