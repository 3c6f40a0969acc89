package layouts

import (
	"errors"
	"net/http"

	"seatgrid/internal/shared/middleware"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateLayout(c *gin.Context)
	GetLayout(c *gin.Context)
	UpdateLayout(c *gin.Context)
	PublishLayout(c *gin.Context)
	ArchiveLayout(c *gin.Context)
	CloneLayout(c *gin.Context)
	ListLayouts(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func statusForLayoutError(err error) int {
	switch {
	case errors.Is(err, ErrLayoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLayoutNotDraft),
		errors.Is(err, ErrLayoutNotPublished),
		errors.Is(err, ErrLayoutEmpty),
		errors.Is(err, ErrDuplicateSeatUID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var req CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	layout, err := ctrl.service.CreateLayout(tenantID, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateSeatUID) {
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Layout created successfully", layout, nil)
}

func (ctrl *controller) GetLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid layout ID", nil, err.Error())
		return
	}

	layout, err := ctrl.service.GetLayout(c.Request.Context(), tenantID, layoutID)
	if err != nil {
		response.RespondJSON(c, "error", statusForLayoutError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout retrieved successfully", layout, nil)
}

func (ctrl *controller) UpdateLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid layout ID", nil, err.Error())
		return
	}

	var req UpdateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	layout, err := ctrl.service.UpdateLayout(tenantID, layoutID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForLayoutError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout updated successfully", layout, nil)
}

func (ctrl *controller) PublishLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid layout ID", nil, err.Error())
		return
	}

	layout, err := ctrl.service.PublishLayout(tenantID, layoutID)
	if err != nil {
		response.RespondJSON(c, "error", statusForLayoutError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout published successfully", layout, nil)
}

func (ctrl *controller) ArchiveLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid layout ID", nil, err.Error())
		return
	}

	layout, err := ctrl.service.ArchiveLayout(tenantID, layoutID)
	if err != nil {
		response.RespondJSON(c, "error", statusForLayoutError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout archived successfully", layout, nil)
}

func (ctrl *controller) CloneLayout(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	layoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid layout ID", nil, err.Error())
		return
	}

	var req CloneLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	layout, err := ctrl.service.CloneLayout(tenantID, layoutID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForLayoutError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Layout cloned successfully", layout, nil)
}

func (ctrl *controller) ListLayouts(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var query LayoutListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	layouts, err := ctrl.service.ListLayouts(tenantID, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layouts retrieved successfully", layouts, nil)
}
