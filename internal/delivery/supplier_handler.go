package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/usecase"
)

type SupplierHandler struct {
	useCase usecase.SupplierUseCase
	log     *logrus.Logger
}

func NewSupplierHandler(uc usecase.SupplierUseCase, logger *logrus.Logger) *SupplierHandler {
	return &SupplierHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *SupplierHandler) RegisterRoutes(router gin.IRouter) {
	suppliers := router.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplierByID)
		suppliers.PATCH("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var supplier domain.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		h.log.Errorf("Failed to bind JSON for create supplier: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateSupplier(c.Request.Context(), &supplier, actingUserID(c))
	if err != nil {
		h.log.Errorf("Failed to create supplier '%s': %v", supplier.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create supplier: "+err.Error())
		return
	}

	h.log.Infof("Supplier created successfully: ID %d", created.ID)
	SuccessResponse(c, http.StatusCreated, "Supplier created successfully", created)
}

func (h *SupplierHandler) GetSupplierByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	supplier, err := h.useCase.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get supplier by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve supplier: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Supplier retrieved successfully", supplier)
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Errorf("Failed to bind JSON for update supplier ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields provided for update")
		return
	}

	updated, err := h.useCase.UpdateSupplier(c.Request.Context(), id, updates, actingUserID(c))
	if err != nil {
		h.log.Errorf("Failed to update supplier ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update supplier: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Supplier updated successfully", updated)
}

func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	if err := h.useCase.DeleteSupplier(c.Request.Context(), id, actingUserID(c)); err != nil {
		h.log.Warnf("Failed to delete supplier ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete supplier: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Supplier deleted successfully", nil)
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	suppliers, err := h.useCase.ListSuppliers(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list suppliers: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve suppliers: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Suppliers retrieved successfully", suppliers)
}
