package usecase

import (
	"context"

	"meishiClient/internal/modules/realtime/application/port"
	"meishiClient/internal/modules/realtime/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	if session := SessionFrom(ctx); session != "" && msg.Target(domain.MetadataSessionID) == "" {
		if msg.Metadata == nil {
			msg.Metadata = make(map[string]string, 1)
		}
		msg.Metadata[domain.MetadataSessionID] = session
	}
	uc.broadcaster.Broadcast(ctx, msg)
}
