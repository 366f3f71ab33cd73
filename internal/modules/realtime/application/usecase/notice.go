package usecase

import (
	"context"

	"meishiClient/internal/modules/realtime/domain"
	"meishiClient/internal/shared/notify"
)

// NoticeBroadcaster publishes user notices on the system.notice topic. Notices
// raised under WithSession only reach that session.
type NoticeBroadcaster struct {
	broadcast *BroadcastUseCase
}

func NewNoticeBroadcaster(broadcast *BroadcastUseCase) *NoticeBroadcaster {
	return &NoticeBroadcaster{broadcast: broadcast}
}

func (n *NoticeBroadcaster) Notify(ctx context.Context, notice notify.Notice) {
	msg := domain.NewMessage(domain.TopicSystemNotice, domain.SystemEntity, domain.ActionNotice, notice)
	if !notice.Timestamp.IsZero() {
		msg.Timestamp = notice.Timestamp
	}
	n.broadcast.Execute(ctx, msg)
}

var _ notify.Notifier = (*NoticeBroadcaster)(nil)
