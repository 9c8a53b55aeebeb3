package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/usecase"
)

type StockHandler struct {
	useCase usecase.StockUseCase
	log     *logrus.Logger
}

func NewStockHandler(uc usecase.StockUseCase, logger *logrus.Logger) *StockHandler {
	return &StockHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *StockHandler) RegisterRoutes(router gin.IRouter) {
	movements := router.Group("/stock-movements")
	{
		movements.POST("", h.CreateMovement)
		movements.GET("/product/:id", h.ListMovementsByProduct)
	}
}

func (h *StockHandler) CreateMovement(c *gin.Context) {
	var movement domain.StockMovement
	if err := c.ShouldBindJSON(&movement); err != nil {
		h.log.Errorf("Failed to bind JSON for create stock movement: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	movement.UserID = actingUserID(c)

	created, err := h.useCase.CreateMovement(c.Request.Context(), &movement)
	if err != nil {
		h.log.Errorf("Failed to create stock movement for product %d: %v", movement.ProductID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create stock movement: "+err.Error())
		return
	}

	h.log.Infof("Stock movement created successfully: ID %d, type %s", created.ID, created.Type)
	SuccessResponse(c, http.StatusCreated, "Stock movement created successfully", created)
}

func (h *StockHandler) ListMovementsByProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	movements, err := h.useCase.ListMovementsByProduct(c.Request.Context(), productID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list movements for product %d: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve stock movements: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Stock movements retrieved successfully", movements)
}
