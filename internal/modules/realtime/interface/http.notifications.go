package transport

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	domain "meishiClient/internal/modules/realtime/domain"
	"meishiClient/internal/modules/realtime/infrastructure"
)

var monitorCounter atomic.Uint64

// NewMonitorWebsocketHandler exposes /ws/monitor, a read-only stream of every
// broadcasted message regardless of topic or session.
func NewMonitorWebsocketHandler(hub *infrastructure.Hub, sendBuffer int) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("monitor ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		sessionID := fmt.Sprintf("monitor-%d", monitorCounter.Add(1))
		client := infrastructure.NewClient(hub, conn, "", sessionID, sendBuffer, nil)
		hub.AttachClientToAll(client)

		go client.WritePump()
		go client.ReadPump()

		connected := domain.NewMessage(domain.TopicSystemConnected, domain.SystemEntity, domain.ActionConnected, map[string]any{
			"mode":   "monitor",
			"topics": []string{"*"},
		})
		connected.Metadata = map[string]string{domain.MetadataSessionID: sessionID}
		client.SendDomainMessage(connected)

		slog.Info("monitor ws connected", slog.String("sessionId", sessionID), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}
