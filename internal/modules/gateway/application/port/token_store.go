package port

import (
	"context"

	"meishiClient/internal/modules/gateway/domain"
)

// TokenStore persists the token pair. Load returns zero Tokens when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (domain.Tokens, error)
	Save(ctx context.Context, tokens domain.Tokens) error
	Clear(ctx context.Context) error
}
