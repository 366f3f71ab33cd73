package port

import (
	"context"

	"meishiClient/internal/modules/interactions/domain"
)

// InteractionAPI persists one planned operation. Creates return the new record id.
type InteractionAPI interface {
	Execute(ctx context.Context, ref domain.EntityRef, op domain.Operation) (domain.ID, error)
}
