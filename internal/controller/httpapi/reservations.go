package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/gin-gonic/gin"
)

// bookingBody тело POST /reservations. Номер корта принимается числом или строкой.
type bookingBody struct {
	CourtNumber json.RawMessage `json:"court_number"`
	Date        string          `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
}

func (b bookingBody) request() scheduler.BookingRequest {
	return scheduler.BookingRequest{
		CourtNumber: courtNumber(b.CourtNumber),
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
	}
}

// courtNumber 0, если номер не разобрался
func courtNumber(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

func (h *Handler) dateParam(c *gin.Context) string {
	return c.DefaultQuery("date", h.reservations.Today())
}

// GET /api/v1/reservations?date=YYYY-MM-DD
func (h *Handler) DayView(c *gin.Context) {
	view, err := h.reservations.DayView(c.Request.Context(), h.dateParam(c), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/v1/reservations/grid?date=YYYY-MM-DD
func (h *Handler) Grid(c *gin.Context) {
	grid, err := h.reservations.Availability(c.Request.Context(), h.dateParam(c), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// GET /api/v1/reservations/mine
func (h *Handler) Mine(c *gin.Context) {
	list, err := h.reservations.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// POST /api/v1/reservations
func (h *Handler) Book(c *gin.Context) {
	var in bookingBody
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeError(c, scheduler.Reject(scheduler.ErrInvalidFormat, "request body must be JSON with court_number, date, start_time and end_time"))
		return
	}

	res, err := h.reservations.Book(c.Request.Context(), currentUser(c), in.request())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
