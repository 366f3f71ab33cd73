package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	gateway "meishiClient/internal/modules/gateway/domain"
	interactions "meishiClient/internal/modules/interactions/domain"
	domain "meishiClient/internal/modules/realtime/domain"
	"meishiClient/internal/modules/realtime/infrastructure"
)

// Toggler applies an interaction toggle on behalf of a socket client.
type Toggler interface {
	Toggle(ctx context.Context, ref interactions.EntityRef, action interactions.Action) (interactions.State, error)
}

type toggleResult struct {
	Entity string             `json:"entity"`
	ID     interactions.ID    `json:"id"`
	Action string             `json:"action"`
	State  interactions.State `json:"state"`
}

// newToggleCommandHandler serves {"action":"toggle","payload":{...}}. The new
// state also reaches topic subscribers through the store's change feed.
func newToggleCommandHandler(toggler Toggler) infrastructure.CommandHandler {
	if toggler == nil {
		return nil
	}
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		if strings.ToLower(strings.TrimSpace(cmd.Action)) != domain.CommandToggle {
			client.SendError("unsupported action "+cmd.Action, nil)
			return
		}
		var payload domain.ToggleCommand
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			client.SendError("invalid payload", map[string]string{"action": cmd.Action})
			return
		}
		ref, err := interactions.NewEntityRef(payload.Entity, payload.ID)
		if err != nil {
			client.SendError(err.Error(), map[string]string{"action": cmd.Action})
			return
		}
		action, err := interactions.ParseAction(payload.Action)
		if err != nil {
			client.SendError(err.Error(), map[string]string{"action": cmd.Action})
			return
		}

		state, err := toggler.Toggle(ctx, ref, action)
		if err != nil {
			slog.Warn("ws toggle failed", slog.String("sessionId", client.SessionID()), slog.String("entity", ref.Key()), slog.Any("error", err))
			client.SendError(gateway.UserMessage(err), map[string]string{"action": cmd.Action, "entity": ref.Key()})
			return
		}
		client.SendDomainMessage(domain.NewMessage(domain.InteractionTopic(ref.Key()), domain.InteractionsEntity, domain.ActionToggled, toggleResult{
			Entity: string(ref.Kind),
			ID:     ref.ID,
			Action: string(action),
			State:  state,
		}))
	}
}
