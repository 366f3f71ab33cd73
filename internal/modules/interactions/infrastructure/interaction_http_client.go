package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/shared/normalization"
)

// RESTDoer is the subset of the gateway client this adapter needs.
type RESTDoer interface {
	Post(ctx context.Context, endpoint string, body, out any) error
	Patch(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string) error
}

// pathTemplates holds the endpoints of one record family; %[1]s is the entity kind
// and %[2]s the record id.
type pathTemplates struct {
	create string
	update string
	delete string
}

var interactionPaths = map[domain.Target]pathTemplates{
	domain.TargetReaction: {
		create: "/api/likes-dislikes/%[1]s/create/",
		update: "/api/likes-dislikes/%[1]s/%[2]s/update/",
		delete: "/api/likes-dislikes/%[1]s/%[2]s/delete/",
	},
	domain.TargetFavorite: {
		create: "/api/favorites/%[1]s/create/",
		delete: "/api/favorites/%[1]s/%[2]s/delete/",
	},
}

// InteractionHTTPClient implements port.InteractionAPI for every entity kind.
type InteractionHTTPClient struct {
	rest RESTDoer
}

func NewInteractionHTTPClient(rest RESTDoer) *InteractionHTTPClient {
	return &InteractionHTTPClient{rest: rest}
}

func (c *InteractionHTTPClient) Execute(ctx context.Context, ref domain.EntityRef, op domain.Operation) (domain.ID, error) {
	paths, ok := interactionPaths[op.Target]
	if !ok {
		return "", fmt.Errorf("unsupported interaction target %q", op.Target)
	}
	kind := url.PathEscape(string(ref.Kind))
	record := url.PathEscape(op.RecordID.String())

	switch op.Kind {
	case domain.OpCreate:
		body := map[string]any{ref.Kind.Field(): ref.ID}
		if op.Target == domain.TargetReaction {
			body["type"] = op.ReactionType
		}
		var created map[string]any
		if err := c.rest.Post(ctx, fmt.Sprintf(paths.create, kind), body, &created); err != nil {
			return "", fmt.Errorf("create %s for %s: %w", op.Target, ref.Key(), err)
		}
		id := normalization.AsID(created["id"])
		if id.IsZero() {
			return "", fmt.Errorf("create %s for %s: %w", op.Target, ref.Key(), domain.ErrMissingCreatedID)
		}
		slog.Debug("interaction created", slog.String("entity", ref.Key()), slog.String("target", string(op.Target)), slog.String("recordId", id.String()))
		return id, nil
	case domain.OpUpdate:
		if paths.update == "" {
			return "", fmt.Errorf("%s records cannot be updated", op.Target)
		}
		body := map[string]any{"type": op.ReactionType}
		if err := c.rest.Patch(ctx, fmt.Sprintf(paths.update, kind, record), body, nil); err != nil {
			return "", fmt.Errorf("update %s %s for %s: %w", op.Target, op.RecordID, ref.Key(), err)
		}
		return op.RecordID, nil
	case domain.OpDelete:
		if err := c.rest.Delete(ctx, fmt.Sprintf(paths.delete, kind, record)); err != nil {
			return "", fmt.Errorf("delete %s %s for %s: %w", op.Target, op.RecordID, ref.Key(), err)
		}
		return "", nil
	default:
		return "", fmt.Errorf("unsupported interaction operation %q", op.Kind)
	}
}

// DecodeState reads the viewer's interaction state from a dish or restaurant payload.
func DecodeState(entry map[string]any) domain.State {
	reaction := normalization.AsMap(entry["like_dislike_details"])
	favorite := normalization.AsMap(entry["favorite_details"])
	return domain.State{
		IsLiked:      normalization.AsBool(reaction["is_like"]),
		IsDisliked:   normalization.AsBool(reaction["is_dislike"]),
		LikeCount:    normalization.AsInt(entry["like_count"]),
		DislikeCount: normalization.AsInt(entry["dislike_count"]),
		IsFavorite:   normalization.AsBool(favorite["is_favorite"]),
		ReactionID:   normalization.AsID(reaction["like_dislike_id"]),
		FavoriteID:   normalization.AsID(favorite["favorite_id"]),
	}
}
