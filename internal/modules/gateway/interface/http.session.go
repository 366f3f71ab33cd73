package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/gateway/application/usecase"
	"meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/httputil"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type importRequest struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    string `json:"role"`
}

// SessionHandler exposes the stored token pair to a UI shell.
type SessionHandler struct {
	session *usecase.SessionUseCase
	errors  *httputil.ErrorMapper
}

func NewSessionHandler(session *usecase.SessionUseCase) *SessionHandler {
	return &SessionHandler{session: session, errors: NewErrorMapper()}
}

// Register mounts the session routes on g.
func (h *SessionHandler) Register(g *echo.Group) {
	g.GET("/session", h.status)
	g.POST("/session/login", h.login)
	g.POST("/session/logout", h.logout)
	g.PUT("/session/tokens", h.importTokens)
}

func (h *SessionHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	var role domain.Role
	if req.Role != "" {
		role = domain.ParseRole(req.Role)
	}
	account, err := h.session.Login(c.Request().Context(), req.Username, req.Password, role)
	if err != nil {
		return WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, account)
}

func (h *SessionHandler) logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return WriteError(c, h.errors, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) status(c echo.Context) error {
	status, err := h.session.Status(c.Request().Context())
	if err != nil {
		return WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *SessionHandler) importTokens(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	tokens := domain.Tokens{Access: req.Access, Refresh: req.Refresh}
	if req.Role != "" {
		tokens.Role = domain.ParseRole(req.Role)
	}
	if err := h.session.Import(c.Request().Context(), tokens); err != nil {
		return WriteError(c, h.errors, err)
	}
	return h.status(c)
}
