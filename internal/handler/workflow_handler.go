package handler

import (
	"errors"
	"io"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WorkflowHandler struct {
	workflowService service.WorkflowService
	documentService service.DocumentService
	statsService    service.WorkflowStatsService
}

func NewWorkflowHandler(workflowService service.WorkflowService, documentService service.DocumentService, statsService service.WorkflowStatsService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
		documentService: documentService,
		statsService:    statsService,
	}
}

func (h *WorkflowHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/workflow")
	{
		group.POST("/initialize", middleware.RequireRole("admin", "manager", "sales"), h.InitializeWorkflow)
		group.GET("/orders/:orderId/steps", middleware.RequireRole("admin", "manager", "sales", "employee"), h.GetWorkflowSteps)
		group.GET("/orders/:orderId/details", middleware.RequireRole("admin", "manager", "sales", "employee"), h.GetWorkflowDetails)
		group.POST("/steps/assign", middleware.RequireRole("admin", "manager"), h.AssignEmployee)
		group.PUT("/steps/:stepId/status", middleware.RequireRole("admin", "manager", "employee"), h.UpdateStepStatus)
		group.POST("/steps/:stepId/documents", middleware.RequireRole("admin", "manager", "employee"), h.UploadStepDocuments)
		group.GET("/stats", middleware.RequireRole("admin", "manager"), h.GetWorkflowStats)
		group.GET("/audits", middleware.RequireRole("admin", "manager"), h.ListStepAudits)
	}
}

// statusFromError maps the workflow error taxonomy onto HTTP codes. Unknown
// errors stay 500 so validation failures are never silently defaulted.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrAlreadyInitialized),
		errors.Is(err, workflow.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrOutOfSequence),
		errors.Is(err, workflow.ErrUnassigned),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrEmployeeInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrStorageFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// InitializeWorkflow creates the fixed 9-step workflow for a sales order
// @Summary      Initialize workflow
// @Description  Creates all 9 workflow steps for a sales order atomically. Fails if already initialized.
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.InitializeWorkflowRequest  true  "Initialize Payload"
// @Success      201      {object}  response.Response{data=service.InitializeWorkflowResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/workflow/initialize [post]
func (h *WorkflowHandler) InitializeWorkflow(c *gin.Context) {
	var req service.InitializeWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.workflowService.InitializeWorkflow(c.Request.Context(), req)
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// GetWorkflowSteps lists the steps of one order
// @Summary      Get workflow steps
// @Description  Returns the 9 steps of a sales order ordered by step number
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Sales Order ID"
// @Success      200      {object}  response.Response{data=object}
// @Failure      404      {object}  response.Response
// @Router       /api/workflow/orders/{orderId}/steps [get]
func (h *WorkflowHandler) GetWorkflowSteps(c *gin.Context) {
	steps, err := h.workflowService.GetWorkflowSteps(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"steps": steps,
	}))
}

// GetWorkflowDetails returns steps plus their full audit history
// @Summary      Get workflow details
// @Description  Returns the order, all steps with audit history, and progress counters
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Sales Order ID"
// @Success      200      {object}  response.Response{data=service.WorkflowDetailsResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/workflow/orders/{orderId}/details [get]
func (h *WorkflowHandler) GetWorkflowDetails(c *gin.Context) {
	details, err := h.workflowService.GetWorkflowDetails(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, details))
}

// AssignEmployee assigns an employee to a workflow step
// @Summary      Assign employee to step
// @Description  Sets the current assignee and appends an assignment history record
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AssignEmployeeRequest  true  "Assignment Payload"
// @Success      200      {object}  response.Response{data=service.AssignmentResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/workflow/steps/assign [post]
func (h *WorkflowHandler) AssignEmployee(c *gin.Context) {
	var req service.AssignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.AssignerID = middleware.ActorID(c)

	result, err := h.workflowService.AssignEmployee(c.Request.Context(), req)
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateStepStatus transitions a step through the workflow state machine
// @Summary      Update step status
// @Description  Applies a validated status transition and records an audit entry
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        stepId   path      string  true  "Workflow Step ID"
// @Param        payload  body      service.UpdateStepStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.StepStatusResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/workflow/steps/{stepId}/status [put]
func (h *WorkflowHandler) UpdateStepStatus(c *gin.Context) {
	var req service.UpdateStepStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.StepID = c.Param("stepId")
	req.ActorID = middleware.ActorID(c)

	result, err := h.workflowService.UpdateStepStatus(c.Request.Context(), req)
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UploadStepDocuments attaches uploaded files to a step
// @Summary      Upload step documents
// @Description  Stores uploaded files and appends their references to the step
// @Tags         workflow
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        stepId  path      string  true  "Workflow Step ID"
// @Param        files   formData  file    true  "Files to upload"
// @Success      200     {object}  response.Response{data=service.UploadDocumentsResponse}
// @Failure      404     {object}  response.Response
// @Failure      502     {object}  response.Response
// @Router       /api/workflow/steps/{stepId}/documents [post]
func (h *WorkflowHandler) UploadStepDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid multipart form: "+err.Error()))
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No files uploaded"))
		return
	}

	uploads := make([]service.FileUpload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read uploaded file: "+err.Error()))
			return
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read uploaded file: "+err.Error()))
			return
		}
		uploads = append(uploads, service.FileUpload{Name: fh.Filename, Content: content})
	}

	result, err := h.documentService.UploadStepDocuments(c.Request.Context(), c.Param("stepId"), uploads)
	if err != nil {
		code := statusFromError(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetWorkflowStats returns aggregate workflow counters
// @Summary      Get workflow statistics
// @Description  Counts steps by status and type plus per-employee open-step load
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.WorkflowStatsResponse}
// @Router       /api/workflow/stats [get]
func (h *WorkflowHandler) GetWorkflowStats(c *gin.Context) {
	stats, err := h.statsService.GetWorkflowStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute workflow stats: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// ListStepAudits browses the step audit trail
// @Summary      List step audits
// @Description  Paginated listing of all step status transitions, newest first
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/workflow/audits [get]
func (h *WorkflowHandler) ListStepAudits(c *gin.Context) {
	params := pagination.Parse(c)

	audits, total, err := h.workflowService.ListStepAudits(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve step audits: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"audits": audits,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}
