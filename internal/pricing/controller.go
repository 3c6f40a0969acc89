package pricing

import (
	"errors"
	"net/http"
	"time"

	"seatgrid/internal/shared/middleware"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateRule(c *gin.Context)
	GetRule(c *gin.Context)
	ListRules(c *gin.Context)
	SetRuleActive(c *gin.Context)
	EvaluateRules(c *gin.Context)
	CreateOverride(c *gin.Context)
	ListOverrides(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func statusForPricingError(err error) int {
	switch {
	case errors.Is(err, ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidScope),
		errors.Is(err, ErrInvalidOverride),
		errors.Is(err, ErrEmptyWindow),
		errors.Is(err, ErrUnknownStrategy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateRule(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rule, err := ctrl.service.CreateRule(tenantID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForPricingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Pricing rule created successfully", rule, nil)
}

func (ctrl *controller) GetRule(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid rule ID", nil, err.Error())
		return
	}

	rule, err := ctrl.service.GetRule(tenantID, ruleID)
	if err != nil {
		response.RespondJSON(c, "error", statusForPricingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rule retrieved successfully", rule, nil)
}

func (ctrl *controller) ListRules(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	eventSeatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	rules, err := ctrl.service.ListRules(tenantID, eventSeatingID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rules retrieved successfully", rules, nil)
}

func (ctrl *controller) SetRuleActive(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid rule ID", nil, err.Error())
		return
	}

	var req SetRuleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rule, err := ctrl.service.SetRuleActive(tenantID, ruleID, *req.Active)
	if err != nil {
		response.RespondJSON(c, "error", statusForPricingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rule updated successfully", rule, nil)
}

func (ctrl *controller) EvaluateRules(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	eventSeatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	var req EvaluateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	written, err := ctrl.service.EvaluateRules(c.Request.Context(), tenantID, eventSeatingID, at)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	result := EvaluationResponse{
		EventSeatingID:   eventSeatingID.String(),
		OverridesWritten: written,
		EvaluatedAt:      at,
	}
	response.RespondJSON(c, "success", http.StatusOK, "Pricing rules evaluated successfully", result, nil)
}

func (ctrl *controller) CreateOverride(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var req CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	override, err := ctrl.service.CreateManualOverride(tenantID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForPricingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Price override created successfully", override, nil)
}

func (ctrl *controller) ListOverrides(c *gin.Context) {
	eventSeatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	overrides, err := ctrl.service.ListOverrides(eventSeatingID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Price overrides retrieved successfully", overrides, nil)
}
