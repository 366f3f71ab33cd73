package usecase

import (
	"context"
	"log/slog"
	"sync"

	"meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/modules/realtime/application/port"
	realtime "meishiClient/internal/modules/realtime/domain"
)

// InteractionUpdate is the payload of an interactions.<kind>:<id> message.
type InteractionUpdate struct {
	Entity string       `json:"entity"`
	ID     domain.ID    `json:"id"`
	State  domain.State `json:"state"`
}

// InteractionFeed relays every store change to the entity's topic.
type InteractionFeed struct {
	feed      port.ChangeFeed
	broadcast *BroadcastUseCase

	mu     sync.Mutex
	cancel func()
}

func NewInteractionFeed(feed port.ChangeFeed, broadcast *BroadcastUseCase) *InteractionFeed {
	return &InteractionFeed{feed: feed, broadcast: broadcast}
}

// Start subscribes to the store. Calling it twice is a no-op.
func (f *InteractionFeed) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return
	}
	f.cancel = f.feed.SubscribeAll(f.relay)
	slog.Info("interaction feed started")
}

func (f *InteractionFeed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
		slog.Info("interaction feed stopped")
	}
}

func (f *InteractionFeed) relay(ref domain.EntityRef, state domain.State) {
	topic := realtime.InteractionTopic(ref.Key())
	payload := InteractionUpdate{Entity: string(ref.Kind), ID: ref.ID, State: state}
	f.broadcast.Execute(context.Background(), realtime.NewMessage(topic, realtime.InteractionsEntity, realtime.ActionUpdated, payload))
	slog.Debug("interaction feed relayed", slog.String("topic", topic))
}
