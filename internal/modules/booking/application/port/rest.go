package port

import "context"

// RESTDoer is the JSON transport the adapters are written against.
type RESTDoer interface {
	Get(ctx context.Context, endpoint string, params any, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Patch(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string) error
}
