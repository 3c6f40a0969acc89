package seating

import (
	"errors"
	"net/http"
	"time"

	"seatgrid/internal/pricing"
	"seatgrid/internal/shared/middleware"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateSnapshot(c *gin.Context)
	GetSnapshot(c *gin.Context)
	GetSnapshotByEvent(c *gin.Context)
	GetSeatMap(c *gin.Context)
	QuoteSeatPrice(c *gin.Context)
	BlockSeats(c *gin.Context)
	UnblockSeats(c *gin.Context)
	DisableSeats(c *gin.Context)
	EnableSeats(c *gin.Context)
	BlockSeatsByLocation(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func statusForSeatingError(err error) int {
	switch {
	case errors.Is(err, ErrSnapshotNotFound), errors.Is(err, ErrSeatNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLayoutNotPublished),
		errors.Is(err, ErrAlreadySnapshotted),
		errors.Is(err, ErrUnknownSoldSeatUIDs):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrUnresolvable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ctrl *controller) CreateSnapshot(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	snapshot, err := ctrl.service.SnapshotForEvent(c.Request.Context(), tenantID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event seating created successfully", snapshot, nil)
}

func (ctrl *controller) GetSnapshot(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	snapshot, err := ctrl.service.GetSnapshot(tenantID, seatingID)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event seating retrieved successfully", snapshot, nil)
}

func (ctrl *controller) GetSnapshotByEvent(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	snapshot, err := ctrl.service.GetSnapshotByEvent(tenantID, eventID)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event seating retrieved successfully", snapshot, nil)
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), tenantID, seatingID)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) QuoteSeatPrice(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	seatUID := c.Param("seatUid")
	if seatUID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Seat UID is required", nil, nil)
		return
	}

	at := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid at timestamp", nil, err.Error())
			return
		}
		at = parsed.UTC()
	}

	quote, err := ctrl.service.QuoteSeatPrice(c.Request.Context(), tenantID, seatingID, seatUID, at)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat price resolved successfully", quote, nil)
}

func (ctrl *controller) seatAction(c *gin.Context, action func(tenantID, seatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error), message string) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	var req SeatActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := action(tenantID, seatingID, req.SeatUIDs)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

func (ctrl *controller) BlockSeats(c *gin.Context) {
	ctrl.seatAction(c, func(tenantID, seatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
		return ctrl.service.BlockSeats(c.Request.Context(), tenantID, seatingID, seatUIDs)
	}, "Seats blocked")
}

func (ctrl *controller) UnblockSeats(c *gin.Context) {
	ctrl.seatAction(c, func(tenantID, seatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
		return ctrl.service.UnblockSeats(c.Request.Context(), tenantID, seatingID, seatUIDs)
	}, "Seats unblocked")
}

func (ctrl *controller) DisableSeats(c *gin.Context) {
	ctrl.seatAction(c, func(tenantID, seatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
		return ctrl.service.DisableSeats(c.Request.Context(), tenantID, seatingID, seatUIDs)
	}, "Seats disabled")
}

func (ctrl *controller) EnableSeats(c *gin.Context) {
	ctrl.seatAction(c, func(tenantID, seatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
		return ctrl.service.EnableSeats(c.Request.Context(), tenantID, seatingID, seatUIDs)
	}, "Seats enabled")
}

func (ctrl *controller) BlockSeatsByLocation(c *gin.Context) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Tenant not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	var req BlockByLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.BlockSeatsByLocation(c.Request.Context(), tenantID, seatingID, req)
	if err != nil {
		response.RespondJSON(c, "error", statusForSeatingError(err), err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats blocked", result, nil)
}
