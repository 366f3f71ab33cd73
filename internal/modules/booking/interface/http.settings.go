package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/booking/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
)

type createSystemRequest struct {
	RestaurantID domain.ID `json:"restaurantId"`
	MealType     string    `json:"mealType"`
}

type createTypeRequest struct {
	Name string `json:"name"`
}

type capacityRequest struct {
	MaxPeople     int `json:"maxPeople"`
	MaxTables     int `json:"maxTables"`
	MinPerBooking int `json:"minPerBooking"`
	MaxPerBooking int `json:"maxPerBooking"`
}

func (r capacityRequest) capacity() domain.Capacity {
	return domain.Capacity{MaxPeople: r.MaxPeople, MaxTables: r.MaxTables, Min: r.MinPerBooking, Max: r.MaxPerBooking}
}

type generalSlotRequest struct {
	BookingSystemID domain.ID `json:"bookingSystemId"`
	Weekday         *int      `json:"weekday"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	IntervalMinutes int       `json:"intervalMinutes"`
	capacityRequest
}

func (r generalSlotRequest) slot(system domain.ID) domain.GeneralTimeSlot {
	weekday := -1
	if r.Weekday != nil {
		weekday = *r.Weekday
	}
	return domain.GeneralTimeSlot{
		BookingSystem:   system,
		Weekday:         weekday,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IntervalMinutes: r.IntervalMinutes,
		Capacity:        r.capacity(),
	}
}

type createTimeSlotsRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	IntervalMinutes int    `json:"intervalMinutes"`
	IsOpen          *bool  `json:"isOpen"`
	capacityRequest
}

type timeSlotPatchRequest struct {
	IsOpen        *bool `json:"isOpen"`
	MaxPeople     *int  `json:"maxPeople"`
	MaxTables     *int  `json:"maxTables"`
	MinPerBooking *int  `json:"minPerBooking"`
	MaxPerBooking *int  `json:"maxPerBooking"`
}

func (h *BoardHandler) createSystem(c echo.Context) error {
	var req createSystemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	system, err := h.board.CreateBookingSystem(c.Request().Context(), domain.BookingSystemInput{
		Restaurant: req.RestaurantID,
		MealType:   domain.MealType(req.MealType),
	})
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusCreated, system)
}

func (h *BoardHandler) deleteSystem(c echo.Context) error {
	if err := h.board.DeleteBookingSystem(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) types(c echo.Context) error {
	types, err := h.board.ListBookingTypes(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *BoardHandler) createType(c echo.Context) error {
	var req createTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.board.CreateBookingType(c.Request().Context(), domain.ID(c.Param("id")), domain.BookingTypeInput{Name: req.Name})
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *BoardHandler) generalSlots(c echo.Context) error {
	slots, err := h.board.ListGeneralTimeSlots(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *BoardHandler) createGeneralSlot(c echo.Context) error {
	var req generalSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	saved, err := h.board.SaveGeneralTimeSlot(c.Request().Context(), "", req.slot(domain.ID(c.Param("id"))))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *BoardHandler) updateGeneralSlot(c echo.Context) error {
	var req generalSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	saved, err := h.board.SaveGeneralTimeSlot(c.Request().Context(), domain.ID(c.Param("id")), req.slot(req.BookingSystemID))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *BoardHandler) deleteGeneralSlot(c echo.Context) error {
	if err := h.board.DeleteGeneralTimeSlot(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BoardHandler) createTimeSlots(c echo.Context) error {
	var req createTimeSlotsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	open := true
	if req.IsOpen != nil {
		open = *req.IsOpen
	}
	slots, err := h.board.CreateTimeSlots(c.Request().Context(), domain.TimeSlotInput{
		BookingSystem:   domain.ID(c.Param("id")),
		Date:            req.Date,
		Time:            req.Time,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IntervalMinutes: req.IntervalMinutes,
		IsOpen:          open,
		Capacity:        req.capacity(),
	})
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusCreated, slots)
}

func (h *BoardHandler) updateTimeSlot(c echo.Context) error {
	var req timeSlotPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, err := h.board.UpdateTimeSlot(c.Request().Context(), domain.ID(c.Param("id")), domain.TimeSlotPatch{
		IsOpen:    req.IsOpen,
		MaxPeople: req.MaxPeople,
		MaxTables: req.MaxTables,
		Min:       req.MinPerBooking,
		Max:       req.MaxPerBooking,
	})
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	if updated == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *BoardHandler) deleteTimeSlot(c echo.Context) error {
	if err := h.board.DeleteTimeSlot(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}
