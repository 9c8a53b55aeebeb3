package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/usecase"
)

type SaleHandler struct {
	useCase usecase.SaleUseCase
	users   usecase.UserUseCase
	log     *logrus.Logger
}

func NewSaleHandler(uc usecase.SaleUseCase, users usecase.UserUseCase, logger *logrus.Logger) *SaleHandler {
	return &SaleHandler{
		useCase: uc,
		users:   users,
		log:     logger,
	}
}

func (h *SaleHandler) RegisterRoutes(router gin.IRouter) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSaleByID)
	}
}

type createSaleRequest struct {
	domain.SaleInput
	// Optional admin re-authentication inlined with the sale, used by
	// registers that collect the override credentials in the same dialog.
	AdminUsername string `json:"admin_username,omitempty"`
	AdminPassword string `json:"admin_password,omitempty"`
}

func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for create sale: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	elevatedAuthorized := false
	if req.AdminUsername != "" {
		if err := h.users.VerifyAdminCredentials(c.Request.Context(), req.AdminUsername, req.AdminPassword); err != nil {
			h.log.Warnf("Elevated discount authorization failed for sale by user %d: %v", actingUserID(c), err)
			ErrorResponse(c, mapErrorToStatus(err), "Failed to create sale: "+err.Error())
			return
		}
		elevatedAuthorized = true
	}

	sale, err := h.useCase.CreateSale(c.Request.Context(), &req.SaleInput, actingUserID(c), actingIsAdmin(c), elevatedAuthorized)
	if err != nil {
		h.log.Errorf("Failed to create sale: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create sale: "+err.Error())
		return
	}

	h.log.Infof("Sale created successfully: ID %d, total %s", sale.ID, sale.Total)
	SuccessResponse(c, http.StatusCreated, "Sale created successfully", sale)
}

func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	sale, err := h.useCase.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get sale by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve sale: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Sale retrieved successfully", sale)
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	sales, err := h.useCase.ListSales(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list sales: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve sales: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Sales retrieved successfully", sales)
}
