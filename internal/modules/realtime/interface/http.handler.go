package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	domain "meishiClient/internal/modules/realtime/domain"
	"meishiClient/internal/modules/realtime/infrastructure"
)

// HeaderSessionID names the websocket session a REST call belongs to.
const HeaderSessionID = "X-Session-ID"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebsocketOptions configures the /ws endpoint.
type WebsocketOptions struct {
	SendBuffer int
	Toggler    Toggler
	// UserID resolves the signed-in user, if any, for message targeting.
	UserID func(ctx context.Context) string
}

// NewWebsocketHandler exposes /ws. The session id comes from ?session=, the
// X-Session-ID header, or is generated; ?topics= lists initial subscriptions.
func NewWebsocketHandler(hub *infrastructure.Hub, opts WebsocketOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		sessionID := strings.TrimSpace(c.QueryParam("session"))
		if sessionID == "" {
			sessionID = strings.TrimSpace(c.Request().Header.Get(HeaderSessionID))
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		topics, rejected := parseTopics(c.QueryParam("topics"))
		if len(rejected) > 0 {
			slog.Warn("ws handler unknown topics", slog.String("sessionId", sessionID), slog.Any("topics", rejected))
			return echo.NewHTTPError(http.StatusBadRequest, "unknown topics: "+strings.Join(rejected, ","))
		}

		userID := ""
		if opts.UserID != nil {
			userID = opts.UserID(c.Request().Context())
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws handler upgrade failed", slog.String("sessionId", sessionID), slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, userID, sessionID, opts.SendBuffer, newToggleCommandHandler(opts.Toggler))
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		connected := domain.NewMessage(domain.TopicSystemConnected, domain.SystemEntity, domain.ActionConnected, map[string]any{
			"topics": topics,
		})
		connected.Metadata = map[string]string{
			domain.MetadataSessionID: sessionID,
			domain.MetadataUserID:    userID,
		}
		client.SendDomainMessage(connected)

		slog.Info("ws connected", slog.String("sessionId", sessionID), slog.String("userId", userID), slog.Any("topics", topics), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}
