package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/booking/application/usecase"
	"meishiClient/internal/modules/booking/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	"meishiClient/internal/shared/httputil"
)

type statusRequest struct {
	Status string `json:"status"`
}

type pausedRequest struct {
	Paused bool `json:"paused"`
}

// BoardHandler serves the owner's booking management screens.
type BoardHandler struct {
	board  *usecase.BoardUseCase
	errors *httputil.ErrorMapper
}

func NewBoardHandler(board *usecase.BoardUseCase) *BoardHandler {
	return &BoardHandler{board: board, errors: newErrorMapper()}
}

func (h *BoardHandler) Register(g *echo.Group) {
	g.GET("/bookings", h.list)
	g.PATCH("/bookings/:id/status", h.changeStatus)
	g.DELETE("/bookings/:id", h.delete)
	g.GET("/booking-systems", h.systems)
	g.POST("/booking-systems", h.createSystem)
	g.DELETE("/booking-systems/:id", h.deleteSystem)
	g.PUT("/booking-systems/:id/paused", h.setPaused)

	g.GET("/booking-systems/:id/booking-types", h.types)
	g.POST("/booking-systems/:id/booking-types", h.createType)
	g.DELETE("/booking-types/:id", h.deleteType)

	g.GET("/booking-systems/:id/general-time-slots", h.generalSlots)
	g.POST("/booking-systems/:id/general-time-slots", h.createGeneralSlot)
	g.PUT("/general-time-slots/:id", h.updateGeneralSlot)
	g.DELETE("/general-time-slots/:id", h.deleteGeneralSlot)

	g.GET("/booking-systems/:id/time-slots", h.timeSlots)
	g.POST("/booking-systems/:id/time-slots", h.createTimeSlots)
	g.PATCH("/time-slots/:id", h.updateTimeSlot)
	g.DELETE("/time-slots/:id", h.deleteTimeSlot)
}

func (h *BoardHandler) list(c echo.Context) error {
	filter := domain.BookingFilter{
		Date:          c.QueryParam("date"),
		BookingSystem: domain.ID(c.QueryParam("booking_system")),
	}
	bookings, err := h.board.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BoardHandler) changeStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	booking, err := h.board.ChangeStatus(c.Request().Context(), domain.ID(c.Param("id")), req.Status)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BoardHandler) delete(c echo.Context) error {
	if err := h.board.DeleteBooking(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) systems(c echo.Context) error {
	systems, err := h.board.ListBookingSystems(c.Request().Context())
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, systems)
}

func (h *BoardHandler) setPaused(c echo.Context) error {
	var req pausedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.board.SetPaused(c.Request().Context(), domain.ID(c.Param("id")), req.Paused); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) timeSlots(c echo.Context) error {
	slots, err := h.board.ListSystemTimeSlots(c.Request().Context(), domain.ID(c.Param("id")), c.QueryParam("date"))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *BoardHandler) deleteType(c echo.Context) error {
	if err := h.board.DeleteBookingType(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}
