package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SalesOrderHandler struct {
	service service.SalesOrderService
}

func NewSalesOrderHandler(service service.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: service}
}

func (h *SalesOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/sales-orders")
	{
		group.POST("", middleware.RequireRole("admin", "manager", "sales"), h.CreateSalesOrder)
		group.GET("", middleware.RequireRole("admin", "manager", "sales", "employee"), h.ListSalesOrders)
		group.GET("/:id", middleware.RequireRole("admin", "manager", "sales", "employee"), h.GetSalesOrder)
	}
}

// CreateSalesOrder creates a new sales order in draft status
// @Summary      Create sales order
// @Description  Creates a sales order. The workflow is initialized separately.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSalesOrderRequest  true  "Sales Order Payload"
// @Success      201      {object}  response.Response{data=model.SalesOrder}
// @Failure      400      {object}  response.Response
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) CreateSalesOrder(c *gin.Context) {
	var req service.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.CreatedBy = middleware.ActorID(c)

	order, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// GetSalesOrder returns one sales order
// @Summary      Get sales order
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sales Order ID"
// @Success      200  {object}  response.Response{data=model.SalesOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetSalesOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListSalesOrders returns a paginated order listing
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/sales-orders [get]
func (h *SalesOrderHandler) ListSalesOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.service.ListOrders(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve sales orders: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}
