package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/realtime/application/usecase"
	"meishiClient/internal/shared/notify"
)

// NoticeRequest lets a UI shell raise a toast on connected sessions.
type NoticeRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
	// Session narrows delivery to one websocket session.
	Session string `json:"session,omitempty"`
}

type NoticeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewNoticeHTTPHandler creates POST /api/notices.
func NewNoticeHTTPHandler(notices *usecase.NoticeBroadcaster) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req NoticeRequest
		if err := c.Bind(&req); err != nil {
			slog.Warn("notice http: invalid request body", slog.Any("error", err))
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		message := strings.TrimSpace(req.Message)
		if message == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message field is required")
		}
		level := notify.Level(strings.ToLower(strings.TrimSpace(req.Level)))
		switch level {
		case notify.LevelError, notify.LevelSuccess, notify.LevelInfo:
		case "":
			level = notify.LevelInfo
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "unknown level "+req.Level)
		}

		ctx := c.Request().Context()
		if req.Session != "" {
			ctx = usecase.WithSession(ctx, req.Session)
		}
		notices.Notify(ctx, notify.Notice{Level: level, Message: message, Source: req.Source, Timestamp: time.Now().UTC()})

		slog.Info("notice http: message sent", slog.String("level", string(level)), slog.String("source", req.Source), slog.String("session", req.Session))
		return c.JSON(http.StatusOK, NoticeResponse{Success: true, Message: "Notice broadcasted"})
	}
}
