package usecase

import (
	"context"
	"strings"
)

type sessionKey struct{}

// WithSession tags ctx with the websocket session that should receive notices
// produced while serving the request.
func WithSession(ctx context.Context, sessionID string) context.Context {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(sessionKey{}).(string)
	return value
}
