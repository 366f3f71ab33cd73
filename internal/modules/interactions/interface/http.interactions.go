package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	"meishiClient/internal/modules/interactions/application/usecase"
	"meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/shared/httputil"
)

type stateResponse struct {
	Entity string       `json:"entity"`
	ID     domain.ID    `json:"id"`
	State  domain.State `json:"state"`
}

type InteractionHandler struct {
	toggle *usecase.ToggleUseCase
	errors *httputil.ErrorMapper
}

func NewInteractionHandler(toggle *usecase.ToggleUseCase) *InteractionHandler {
	return &InteractionHandler{
		toggle: toggle,
		errors: gatewayhttp.NewErrorMapper(
			httputil.ErrorMapping{Error: domain.ErrUnknownEntity, Status: http.StatusBadRequest},
			httputil.ErrorMapping{Error: domain.ErrUnknownAction, Status: http.StatusBadRequest},
			httputil.ErrorMapping{Error: domain.ErrMissingEntity, Status: http.StatusBadRequest},
			httputil.ErrorMapping{Error: domain.ErrBusy, Status: http.StatusConflict},
			httputil.ErrorMapping{Error: domain.ErrMissingRecord, Status: http.StatusConflict},
			httputil.ErrorMapping{Error: domain.ErrMissingCreatedID, Status: http.StatusBadGateway},
		),
	}
}

func (h *InteractionHandler) Register(g *echo.Group) {
	g.GET("/interactions/:entity/:id", h.state)
	g.POST("/interactions/:entity/:id/:action", h.apply)
}

func (h *InteractionHandler) state(c echo.Context) error {
	ref, err := domain.NewEntityRef(c.Param("entity"), c.Param("id"))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	state, _ := h.toggle.State(ref)
	return c.JSON(http.StatusOK, stateResponse{Entity: string(ref.Kind), ID: ref.ID, State: state})
}

func (h *InteractionHandler) apply(c echo.Context) error {
	ref, err := domain.NewEntityRef(c.Param("entity"), c.Param("id"))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	action, err := domain.ParseAction(c.Param("action"))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	state, err := h.toggle.Toggle(c.Request().Context(), ref, action)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, stateResponse{Entity: string(ref.Kind), ID: ref.ID, State: state})
}
