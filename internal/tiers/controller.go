package tiers

import (
	"net/http"

	"seatgrid/internal/shared/middleware"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateTier(c *gin.Context)
	GetTier(c *gin.Context)
	UpdateTier(c *gin.Context)
	GetAllTiers(c *gin.Context)
	GetActiveTiers(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateTier(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var req CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tier, err := ctrl.service.CreateTier(tenantID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if err.Error() == "a tier with this code already exists" {
			statusCode = http.StatusConflict
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Tier created successfully", tier, nil)
}

func (ctrl *controller) GetTier(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	tierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid tier ID", nil, err.Error())
		return
	}

	tier, err := ctrl.service.GetTierByID(tenantID, tierID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "tier not found" {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tier retrieved successfully", tier, nil)
}

func (ctrl *controller) UpdateTier(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	tierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid tier ID", nil, err.Error())
		return
	}

	var req UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	tier, err := ctrl.service.UpdateTier(tenantID, tierID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if err.Error() == "tier not found" {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tier updated successfully", tier, nil)
}

func (ctrl *controller) GetAllTiers(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var query TierListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	tiers, err := ctrl.service.GetAllTiers(tenantID, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tiers retrieved successfully", tiers, nil)
}

func (ctrl *controller) GetActiveTiers(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	tiers, err := ctrl.service.GetActiveTiers(c.Request.Context(), tenantID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Active tiers retrieved successfully", tiers, nil)
}
