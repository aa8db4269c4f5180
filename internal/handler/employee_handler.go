package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	service service.EmployeeService
}

func NewEmployeeHandler(service service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/employees")
	{
		group.POST("", middleware.RequireRole("admin", "manager"), h.CreateEmployee)
		group.GET("", middleware.RequireRole("admin", "manager", "sales"), h.ListEmployees)
		group.GET("/:id", middleware.RequireRole("admin", "manager", "sales"), h.GetEmployee)
		group.PUT("/:id/active", middleware.RequireRole("admin", "manager"), h.SetEmployeeActive)
	}
}

// CreateEmployee registers a new employee
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// GetEmployee returns one employee
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.service.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// ListEmployees returns a paginated employee listing
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        active  query     bool    false  "Only active employees"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	employees, total, err := h.service.ListEmployees(c.Request.Context(), params.Page, params.Limit, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve employees: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"employees": employees,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// SetEmployeeActive toggles whether an employee can take new assignments
// @Summary      Set employee active state
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Employee ID"
// @Param        payload  body      object{active=bool}  true  "Active Payload"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id}/active [put]
func (h *EmployeeHandler) SetEmployeeActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.service.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
