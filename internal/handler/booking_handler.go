package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/seatbook-api/internal/dto"
	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/export"
	"github.com/noah-isme/seatbook-api/pkg/response"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

type bookingService interface {
	AvailableSeats(ctx context.Context, rawDate string) (*dto.AvailableSeatsResponse, error)
	WeeklyStatus(ctx context.Context, userID, rawWeekStart string) (*dto.WeeklyStatusResponse, error)
	MyBookings(ctx context.Context, userID, rawFrom, rawTo string) ([]models.Booking, error)
}

// BookingHandler serves employee booking queries.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// AvailableSeats godoc
// @Summary List free and booked seats for a date
// @Tags Bookings
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /bookings/available-seats [get]
func (h *BookingHandler) AvailableSeats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	resp, err := h.service.AvailableSeats(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// WeeklyStatus godoc
// @Summary Weekly attendance compliance for the caller
// @Tags Bookings
// @Produce json
// @Param weekStart query string false "Any date in the week (YYYY-MM-DD), defaults to the current week"
// @Success 200 {object} response.Envelope
// @Router /bookings/weekly-status [get]
func (h *BookingHandler) WeeklyStatus(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	resp, err := h.service.WeeklyStatus(c.Request.Context(), claims.UserID, c.Query("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// My godoc
// @Summary List the caller's confirmed bookings
// @Tags Bookings
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param format query string false "json (default) or csv"
// @Success 200 {object} response.Envelope
// @Router /bookings/my [get]
func (h *BookingHandler) My(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json or csv"))
		return
	}
	bookings, err := h.service.MyBookings(c.Request.Context(), claims.UserID, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if format == "json" {
		response.JSON(c, http.StatusOK, bookings, nil)
		return
	}

	body, err := export.CSV(bookingsTable(bookings))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render bookings"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func bookingsTable(bookings []models.Booking) export.Table {
	table := export.Table{
		Headers: []string{"booking_id", "date", "week", "seat_id", "auto_booked", "checked_in", "checked_out"},
		Rows:    make([][]string, 0, len(bookings)),
	}
	for _, b := range bookings {
		table.Rows = append(table.Rows, []string{
			b.ID,
			workweek.Format(b.BookingDate),
			strconv.Itoa(b.WeekNumber),
			b.SeatID,
			strconv.FormatBool(b.IsAutoBooked),
			strconv.FormatBool(b.CheckInTime != nil),
			strconv.FormatBool(b.CheckOutTime != nil),
		})
	}
	return table
}
