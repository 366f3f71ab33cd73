package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/modules/interactions/infrastructure"
	"meishiClient/internal/shared/notify"
)

type fakeInteractionAPI struct {
	mu      sync.Mutex
	calls   []domain.Operation
	err     error
	created domain.ID
	// hold blocks Execute until closed when set.
	hold    chan struct{}
	entered chan struct{}
}

func (f *fakeInteractionAPI) Execute(_ context.Context, _ domain.EntityRef, op domain.Operation) (domain.ID, error) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	hold, entered := f.hold, f.entered
	f.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if hold != nil {
		<-hold
	}
	if f.err != nil {
		return "", f.err
	}
	if op.Kind == domain.OpCreate {
		return f.created, nil
	}
	return op.RecordID, nil
}

type noticeLog struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (l *noticeLog) Notify(_ context.Context, notice notify.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, notice)
}

func newToggle(api *fakeInteractionAPI) (*ToggleUseCase, *infrastructure.MemoryStore, *noticeLog) {
	store := infrastructure.NewMemoryStore()
	notices := &noticeLog{}
	return NewToggleUseCase(api, store, notices), store, notices
}

var dish = domain.EntityRef{Kind: domain.KindDish, ID: "5"}

func TestToggleLikeFailureRestoresSnapshot(t *testing.T) {
	t.Parallel()

	api := &fakeInteractionAPI{err: errors.New("Network Error")}
	toggle, store, notices := newToggle(api)
	store.Seed(dish, domain.State{LikeCount: 4})

	var seen []domain.State
	cancel := store.Subscribe(dish, func(_ domain.EntityRef, state domain.State) { seen = append(seen, state) })
	defer cancel()

	got, err := toggle.Toggle(context.Background(), dish, domain.ActionLike)
	if err == nil {
		t.Fatal("expected error")
	}
	want := domain.State{LikeCount: 4}
	if got != want {
		t.Fatalf("returned state %+v, want %+v", got, want)
	}
	if stored, _ := store.Get(dish); stored != want {
		t.Fatalf("stored state %+v, want %+v", stored, want)
	}
	if len(seen) != 2 || seen[0].LikeCount != 5 || !seen[0].IsLiked || seen[1] != want {
		t.Fatalf("expected optimistic then rollback, got %+v", seen)
	}
	if len(notices.notices) != 1 || notices.notices[0].Message != "Network Error" {
		t.Fatalf("expected one notice, got %+v", notices.notices)
	}
	if store.Busy(dish) {
		t.Fatal("busy flag must be released after failure")
	}
}

func TestToggleSwitchPolarityKeepsOptimisticState(t *testing.T) {
	t.Parallel()

	api := &fakeInteractionAPI{}
	toggle, store, _ := newToggle(api)
	store.Seed(dish, domain.State{IsDisliked: true, LikeCount: 7, DislikeCount: 2, ReactionID: "31"})

	got, err := toggle.Toggle(context.Background(), dish, domain.ActionLike)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	want := domain.State{IsLiked: true, LikeCount: 8, DislikeCount: 1, ReactionID: "31"}
	if got != want {
		t.Fatalf("state %+v, want %+v", got, want)
	}
	if stored, _ := store.Get(dish); stored != want {
		t.Fatalf("stored %+v, want %+v", stored, want)
	}
	if len(api.calls) != 1 || api.calls[0].Kind != domain.OpUpdate || api.calls[0].RecordID != "31" {
		t.Fatalf("expected one update call, got %+v", api.calls)
	}
}

func TestToggleCreateStoresRecordID(t *testing.T) {
	t.Parallel()

	api := &fakeInteractionAPI{created: "77"}
	toggle, store, _ := newToggle(api)
	ctx := context.Background()

	if _, err := toggle.Toggle(ctx, dish, domain.ActionFavorite); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if stored, _ := store.Get(dish); !stored.IsFavorite || stored.FavoriteID != "77" {
		t.Fatalf("expected favorite id stored, got %+v", stored)
	}

	if _, err := toggle.Toggle(ctx, dish, domain.ActionFavorite); err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	if stored, _ := store.Get(dish); stored.IsFavorite || !stored.FavoriteID.IsZero() {
		t.Fatalf("expected favorite cleared, got %+v", stored)
	}
	if api.calls[1].Kind != domain.OpDelete || api.calls[1].RecordID != "77" {
		t.Fatalf("expected delete of record 77, got %+v", api.calls[1])
	}
}

func TestToggleIgnoresActionsWhileBusy(t *testing.T) {
	t.Parallel()

	hold := make(chan struct{})
	api := &fakeInteractionAPI{created: "1", hold: hold, entered: make(chan struct{})}
	toggle, store, _ := newToggle(api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := toggle.Toggle(ctx, dish, domain.ActionLike)
		done <- err
	}()
	<-api.entered

	for _, action := range []domain.Action{domain.ActionLike, domain.ActionDislike, domain.ActionFavorite} {
		state, err := toggle.Toggle(ctx, dish, action)
		if !errors.Is(err, domain.ErrBusy) {
			t.Fatalf("%s: expected ErrBusy, got %v", action, err)
		}
		if !state.IsLiked || state.LikeCount != 1 {
			t.Fatalf("%s: busy toggle must report the optimistic state, got %+v", action, state)
		}
	}

	other := domain.EntityRef{Kind: domain.KindRestaurant, ID: "5"}
	api.mu.Lock()
	api.hold, api.entered = nil, nil
	api.mu.Unlock()
	if _, err := toggle.Toggle(ctx, other, domain.ActionFavorite); err != nil {
		t.Fatalf("other entities must not be blocked: %v", err)
	}

	close(hold)
	if err := <-done; err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if len(api.calls) != 2 {
		t.Fatalf("busy actions must not reach the backend, got %+v", api.calls)
	}
	if stored, _ := store.Get(dish); stored.ReactionID != "1" {
		t.Fatalf("expected reaction id stored, got %+v", stored)
	}
}

func TestTogglePlanErrorNotifiesWithoutCall(t *testing.T) {
	t.Parallel()

	api := &fakeInteractionAPI{}
	toggle, store, notices := newToggle(api)
	store.Seed(dish, domain.State{IsLiked: true, LikeCount: 1})

	if _, err := toggle.Toggle(context.Background(), dish, domain.ActionLike); !errors.Is(err, domain.ErrMissingRecord) {
		t.Fatalf("expected ErrMissingRecord, got %v", err)
	}
	if len(api.calls) != 0 || len(notices.notices) != 1 {
		t.Fatalf("expected no call and one notice, got %d calls %d notices", len(api.calls), len(notices.notices))
	}
}
