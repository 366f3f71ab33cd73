package port

import (
	"context"

	interactions "meishiClient/internal/modules/interactions/application/port"
	"meishiClient/internal/modules/realtime/domain"
)

// Broadcaster sends messages to the connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// ChangeFeed is the source of interaction state changes pushed to clients.
type ChangeFeed interface {
	SubscribeAll(fn interactions.Listener) (cancel func())
}
