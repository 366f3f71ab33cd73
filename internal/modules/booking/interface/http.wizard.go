package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/booking/application/usecase"
	"meishiClient/internal/modules/booking/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	"meishiClient/internal/shared/httputil"
)

type startWizardRequest struct {
	RestaurantID domain.ID       `json:"restaurantId"`
	Audience     string          `json:"audience"`
	Booking      *domain.Booking `json:"booking,omitempty"`
}

type wizardResponse struct {
	ID   string             `json:"id"`
	View usecase.WizardView `json:"view"`
	// Error carries a failed slot or type fetch. The state change itself was applied.
	Error string `json:"error,omitempty"`
}

type submitResponse struct {
	Booking *domain.Booking `json:"booking"`
}

// WizardHandler drives booking wizards over HTTP. Each wizard lives in the
// registry until it is submitted or closed.
type WizardHandler struct {
	registry *usecase.WizardRegistry
	errors   *httputil.ErrorMapper
}

func NewWizardHandler(registry *usecase.WizardRegistry) *WizardHandler {
	return &WizardHandler{registry: registry, errors: newErrorMapper()}
}

func (h *WizardHandler) Register(g *echo.Group) {
	g.POST("/wizards", h.start)
	g.GET("/wizards/:id", h.view)
	g.DELETE("/wizards/:id", h.close)
	g.PUT("/wizards/:id/date", h.setDate)
	g.PUT("/wizards/:id/people", h.setPeople)
	g.PUT("/wizards/:id/slot", h.selectSlot)
	g.PUT("/wizards/:id/type", h.selectType)
	g.PUT("/wizards/:id/personal", h.setPersonal)
	g.POST("/wizards/:id/next", h.next)
	g.POST("/wizards/:id/back", h.back)
	g.POST("/wizards/:id/submit", h.submit)
}

func (h *WizardHandler) start(c echo.Context) error {
	var req startWizardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cfg := usecase.WizardConfig{
		RestaurantID: req.RestaurantID,
		Audience:     domain.ParseAudience(req.Audience),
		Existing:     req.Booking,
	}
	id, wizard, err := h.registry.Start(c.Request().Context(), cfg)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	slog.Info("booking wizard started", slog.String("wizardId", id), slog.String("restaurantId", req.RestaurantID.String()), slog.Bool("edit", req.Booking != nil))
	return c.JSON(http.StatusCreated, wizardResponse{ID: id, View: wizard.View()})
}

func (h *WizardHandler) view(c echo.Context) error {
	return h.with(c, func(*usecase.Wizard) error { return nil })
}

func (h *WizardHandler) close(c echo.Context) error {
	if err := h.registry.Close(c.Param("id")); err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WizardHandler) setDate(c echo.Context) error {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.with(c, func(w *usecase.Wizard) error { return w.SetDate(c.Request().Context(), req.Date) })
}

func (h *WizardHandler) setPeople(c echo.Context) error {
	var req struct {
		People int `json:"people"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.with(c, func(w *usecase.Wizard) error { return w.SetPartySize(c.Request().Context(), req.People) })
}

func (h *WizardHandler) selectSlot(c echo.Context) error {
	var req struct {
		TimeSlot domain.ID `json:"timeSlot"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.with(c, func(w *usecase.Wizard) error { return w.SelectTimeSlot(c.Request().Context(), req.TimeSlot) })
}

func (h *WizardHandler) selectType(c echo.Context) error {
	var req struct {
		BookingType string `json:"bookingType"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.with(c, func(w *usecase.Wizard) error { return w.SelectBookingType(req.BookingType) })
}

func (h *WizardHandler) setPersonal(c echo.Context) error {
	var info domain.PersonalInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.with(c, func(w *usecase.Wizard) error { return w.SetPersonalInfo(info) })
}

func (h *WizardHandler) next(c echo.Context) error {
	return h.with(c, func(w *usecase.Wizard) error {
		_, err := w.Next()
		return err
	})
}

func (h *WizardHandler) back(c echo.Context) error {
	return h.with(c, func(w *usecase.Wizard) error {
		_, err := w.Back()
		return err
	})
}

func (h *WizardHandler) submit(c echo.Context) error {
	wizard, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	booking, err := wizard.Submit(c.Request().Context())
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, submitResponse{Booking: booking})
}

// with runs fn against the addressed wizard and answers with its view. Local
// validation errors fail the request; a failed fetch is reported alongside the view.
func (h *WizardHandler) with(c echo.Context, fn func(*usecase.Wizard) error) error {
	id := c.Param("id")
	wizard, err := h.registry.Get(id)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	resp := wizardResponse{ID: id}
	if err := fn(wizard); err != nil {
		if isInputError(err) {
			return gatewayhttp.WriteError(c, h.errors, err)
		}
		if _, expired := gateway.AsSessionExpired(err); expired {
			return gatewayhttp.WriteError(c, h.errors, err)
		}
		resp.Error = gateway.UserMessage(err)
	}
	resp.View = wizard.View()
	return c.JSON(http.StatusOK, resp)
}
