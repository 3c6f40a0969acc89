package holds

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
	HoldSeats(c *gin.Context)
	ReleaseHold(c *gin.Context)
	CommitHold(c *gin.Context)
	GetSessionHolds(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) HoldSeats(c *gin.Context) {
	sessionUID := middleware.SessionUID(c)
	if sessionUID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Session not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second

	held, err := ctrl.service.HoldSeats(c.Request.Context(), seatingID, req.SeatUIDs, sessionUID, ttl)
	if err != nil {
		var unavailable *SeatsUnavailableError
		switch {
		case errors.As(err, &unavailable):
			response.RespondJSON(c, "error", http.StatusConflict, "Some seats are unavailable", nil,
				map[string]interface{}{"unavailable_seat_uids": unavailable.SeatUIDs})
		case errors.Is(err, ErrNoSeats), errors.Is(err, ErrBatchTooLarge):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", held, nil)
}

func (ctrl *controller) ReleaseHold(c *gin.Context) {
	sessionUID := middleware.SessionUID(c)
	if sessionUID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Session not resolved", nil, nil)
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

	if err := ctrl.service.ReleaseHold(c.Request.Context(), seatingID, seatUID, sessionUID); err != nil {
		if errors.Is(err, ErrNotOwner) {
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold released", nil, nil)
}

func (ctrl *controller) CommitHold(c *gin.Context) {
	sessionUID := middleware.SessionUID(c)
	if sessionUID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Session not resolved", nil, nil)
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

	if err := ctrl.service.CommitHold(c.Request.Context(), seatingID, seatUID, sessionUID); err != nil {
		switch {
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
		case errors.Is(err, ErrHoldNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold committed", nil, nil)
}

func (ctrl *controller) GetSessionHolds(c *gin.Context) {
	sessionUID := middleware.SessionUID(c)
	if sessionUID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Session not resolved", nil, nil)
		return
	}

	seatingID, err := uuid.Parse(c.Param("seatingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event seating ID", nil, err.Error())
		return
	}

	holds, err := ctrl.service.GetSessionHolds(seatingID, sessionUID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Holds retrieved successfully", holds, nil)
}
