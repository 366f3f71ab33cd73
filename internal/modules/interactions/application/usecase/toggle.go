package usecase

import (
	"context"
	"errors"
	"log/slog"

	"meishiClient/internal/modules/interactions/application/port"
	"meishiClient/internal/modules/interactions/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/notify"
)

const noticeSource = "interactions"

// ToggleUseCase applies like, dislike and favorite toggles optimistically. The store
// shows the predicted state right away and gets the exact previous state back when
// the backend rejects the change.
type ToggleUseCase struct {
	api      port.InteractionAPI
	store    port.StateStore
	notifier notify.Notifier
}

func NewToggleUseCase(api port.InteractionAPI, store port.StateStore, notifier notify.Notifier) *ToggleUseCase {
	return &ToggleUseCase{api: api, store: store, notifier: notifier}
}

// Toggle runs one action. While a toggle for ref is in flight every other action on
// ref fails with domain.ErrBusy and changes nothing.
func (uc *ToggleUseCase) Toggle(ctx context.Context, ref domain.EntityRef, action domain.Action) (domain.State, error) {
	previous, err := uc.store.Acquire(ref)
	if err != nil {
		slog.Debug("interaction ignored while busy", slog.String("entity", ref.Key()), slog.String("action", string(action)))
		return previous, err
	}
	defer uc.store.Release(ref)

	next, op, err := domain.Plan(previous, action)
	if err != nil {
		uc.fail(ctx, ref, err)
		return previous, err
	}
	uc.store.Set(ref, next)

	createdID, err := uc.api.Execute(ctx, ref, op)
	if err != nil {
		uc.store.Set(ref, previous)
		slog.Warn("interaction rolled back", slog.String("entity", ref.Key()), slog.String("action", string(action)), slog.String("operation", string(op.Kind)), slog.Any("error", err))
		uc.fail(ctx, ref, err)
		return previous, err
	}

	next.Commit(op, createdID)
	uc.store.Set(ref, next)
	slog.Info("interaction applied", slog.String("entity", ref.Key()), slog.String("action", string(action)), slog.String("operation", string(op.Kind)))
	return next, nil
}

// State returns the stored state of ref.
func (uc *ToggleUseCase) State(ref domain.EntityRef) (domain.State, bool) {
	return uc.store.Get(ref)
}

func (uc *ToggleUseCase) fail(ctx context.Context, ref domain.EntityRef, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	notify.Error(ctx, uc.notifier, noticeSource+":"+ref.Key(), gateway.UserMessage(err))
}
