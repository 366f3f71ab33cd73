package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/auth"
	"meishiClient/internal/shared/httputil"
)

// ErrorResponse is the body of every failed companion-server call.
type ErrorResponse struct {
	Error      string `json:"error"`
	LoginRoute string `json:"loginRoute,omitempty"`
}

// NewErrorMapper knows the gateway's typed errors. Feature handlers append their
// own sentinel mappings.
func NewErrorMapper(mappings ...httputil.ErrorMapping) *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithResolver(resolveSessionExpired).
		WithResolver(resolveAPIError).
		WithMappings(
			httputil.ErrorMapping{Error: domain.ErrMissingCredentials, Status: http.StatusBadRequest},
			httputil.ErrorMapping{Error: domain.ErrRoleMismatch, Status: http.StatusForbidden},
			httputil.ErrorMapping{Error: domain.ErrNotAuthenticated, Status: http.StatusUnauthorized},
			httputil.ErrorMapping{Error: auth.ErrMissingToken, Status: http.StatusBadRequest},
			httputil.ErrorMapping{Error: auth.ErrInvalidToken, Status: http.StatusBadRequest},
		).
		WithMappings(mappings...).
		WithDefault(http.StatusInternalServerError, "An unexpected error occurred")
}

func resolveSessionExpired(err error) (httputil.HTTPErrorInfo, bool) {
	if _, ok := domain.AsSessionExpired(err); !ok {
		return httputil.HTTPErrorInfo{}, false
	}
	return httputil.HTTPErrorInfo{Status: http.StatusUnauthorized, Message: domain.UserMessage(err)}, true
}

// resolveAPIError passes backend client errors through and reports backend
// failures as a bad gateway.
func resolveAPIError(err error) (httputil.HTTPErrorInfo, bool) {
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		return httputil.HTTPErrorInfo{}, false
	}
	status := apiErr.Status
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	return httputil.HTTPErrorInfo{Status: status, Message: domain.UserMessage(err)}, true
}

// WriteError maps err and writes it as JSON.
func WriteError(c echo.Context, mapper *httputil.ErrorMapper, err error) error {
	info := mapper.Map(err)
	body := ErrorResponse{Error: info.Message}
	if expired, ok := domain.AsSessionExpired(err); ok {
		body.LoginRoute = expired.LoginRoute
	}
	if info.Status >= http.StatusInternalServerError {
		slog.Error("http request failed", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Debug("http request rejected", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return c.JSON(info.Status, body)
}
