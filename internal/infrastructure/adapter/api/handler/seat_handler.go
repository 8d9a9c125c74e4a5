package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// SeatHandler handles seat booking HTTP requests
type SeatHandler struct {
	booking usecase.BookingUseCase
	logger  coreport.Logger
}

// NewSeatHandler creates a new seat handler instance
func NewSeatHandler(booking usecase.BookingUseCase, logger coreport.Logger) *SeatHandler {
	return &SeatHandler{
		booking: booking,
		logger:  logger,
	}
}

type userAction func(ctx context.Context, concertID, seatID, userID string) (*usecase.TransitionResult, error)

// Hold handles POST /concerts/:concertId/seats/:seatId/hold
func (h *SeatHandler) Hold(c *gin.Context) {
	h.runUserAction(c, h.booking.Hold)
}

// Purchase handles POST /concerts/:concertId/seats/:seatId/purchase
func (h *SeatHandler) Purchase(c *gin.Context) {
	h.runUserAction(c, h.booking.Purchase)
}

// Release handles POST /concerts/:concertId/seats/:seatId/release
func (h *SeatHandler) Release(c *gin.Context) {
	h.runUserAction(c, h.booking.Release)
}

// Cancel handles POST /concerts/:concertId/seats/:seatId/cancel; the body is optional
func (h *SeatHandler) Cancel(c *gin.Context) {
	h.runUserAction(c, h.booking.Cancel)
}

// Reopen handles POST /concerts/:concertId/seats/:seatId/reopen
func (h *SeatHandler) Reopen(c *gin.Context) {
	result, err := h.booking.Reopen(c.Request.Context(), c.Param("concertId"), c.Param("seatId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransitionResponse(result))
}

// Override handles POST /concerts/:concertId/seats/:seatId/status
func (h *SeatHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	status, err := entity.ParseSeatStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.booking.Override(c.Request.Context(), c.Param("concertId"), c.Param("seatId"), status, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransitionResponse(result))
}

// GetSeat handles GET /concerts/:concertId/seats/:seatId
func (h *SeatHandler) GetSeat(c *gin.Context) {
	seat, err := h.booking.GetSeat(c.Request.Context(), c.Param("concertId"), c.Param("seatId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSeatResponse(seat))
}

// ListSeats handles GET /concerts/:concertId/seats
func (h *SeatHandler) ListSeats(c *gin.Context) {
	concertID := c.Param("concertId")
	seats, err := h.booking.ListSeats(c.Request.Context(), concertID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSeatMapResponse(concertID, seats))
}

// ProvisionSeats handles POST /concerts/:concertId/seats
func (h *SeatHandler) ProvisionSeats(c *gin.Context) {
	var req dto.ProvisionSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	concertID := c.Param("concertId")
	seats, err := h.booking.ProvisionSeats(c.Request.Context(), concertID, req.SeatIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSeatMapResponse(concertID, seats))
}

func (h *SeatHandler) runUserAction(c *gin.Context, action userAction) {
	var req dto.SeatActionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "Invalid request format: "+err.Error())
			return
		}
	}

	result, err := action(c.Request.Context(), c.Param("concertId"), c.Param("seatId"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransitionResponse(result))
}
