package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/notifications")
	{
		group.GET("/employees/:employeeId", middleware.RequireRole("admin", "manager", "sales", "employee"), h.ListNotifications)
		group.PUT("/:id/read", middleware.RequireRole("admin", "manager", "sales", "employee"), h.MarkNotificationRead)
	}
}

// ListNotifications returns notifications for one employee
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  path      string  true   "Employee ID"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/notifications/employees/{employeeId} [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	params := pagination.Parse(c)

	notifications, total, err := h.service.ListByEmployee(c.Request.Context(), c.Param("employeeId"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         total,
		"page":          params.Page,
		"limit":         params.Limit,
	}))
}

// MarkNotificationRead marks one notification as read
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Notification marked as read"))
}
