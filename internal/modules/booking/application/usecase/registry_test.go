package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"meishiClient/internal/modules/booking/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	registry := NewWizardRegistry(api, nil)
	ctx := context.Background()

	id, wizard, err := registry.Start(ctx, WizardConfig{RestaurantID: "3", Now: fixedNow})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got, err := registry.Get(id); err != nil || got != wizard {
		t.Fatalf("expected registered wizard, got %v %v", got, err)
	}
	if !wizard.View().Open || len(wizard.View().Slots) != 2 {
		t.Fatalf("expected opened wizard with slots, got %+v", wizard.View())
	}

	if err := registry.Close(id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := registry.Get(id); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("expected ErrWizardNotFound, got %v", err)
	}
}

func TestRegistryDropsWizardAfterSubmit(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	registry := NewWizardRegistry(api, nil)
	ctx := context.Background()
	var completed *domain.Booking

	id, wizard, err := registry.Start(ctx, WizardConfig{
		RestaurantID: "3",
		Now:          fixedNow,
		OnSuccess:    func(_ context.Context, b *domain.Booking) { completed = b },
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	_ = wizard.SelectTimeSlot(ctx, "12")
	mustNext(t, wizard, domain.PhasePersonalInfo)
	_ = wizard.SetPersonalInfo(domain.PersonalInfo{FirstName: "Kim"})
	if _, err := wizard.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if completed == nil || completed.ID != "100" {
		t.Fatalf("caller callback must still run, got %+v", completed)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected registry empty, got %d", registry.Len())
	}
	if _, err := registry.Get(id); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("expected ErrWizardNotFound, got %v", err)
	}
}

func TestRegistrySweepDropsIdleWizards(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	registry := NewWizardRegistry(api, nil)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return clock }
	ctx := context.Background()

	staleID, stale, err := registry.Start(ctx, WizardConfig{RestaurantID: "3", Now: fixedNow})
	if err != nil {
		t.Fatalf("start stale: %v", err)
	}
	clock = clock.Add(20 * time.Minute)
	activeID, _, err := registry.Start(ctx, WizardConfig{RestaurantID: "3", Now: fixedNow})
	if err != nil {
		t.Fatalf("start active: %v", err)
	}

	clock = clock.Add(15 * time.Minute)
	if n := registry.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("expected one expired wizard, got %d", n)
	}
	if _, err := registry.Get(staleID); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("expected stale wizard gone, got %v", err)
	}
	if stale.View().Open {
		t.Fatal("expired wizard must be closed")
	}

	// Get refreshes the idle clock.
	clock = clock.Add(10 * time.Minute)
	if _, err := registry.Get(activeID); err != nil {
		t.Fatalf("get active: %v", err)
	}
	clock = clock.Add(25 * time.Minute)
	if n := registry.Sweep(30 * time.Minute); n != 0 {
		t.Fatalf("recently used wizard must survive, swept %d", n)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected one open wizard, got %d", registry.Len())
	}
	if n := registry.Sweep(0); n != 0 {
		t.Fatalf("zero idle disables the sweep, swept %d", n)
	}
}

func TestRegistryJanitorStopsWithContext(t *testing.T) {
	t.Parallel()

	registry := NewWizardRegistry(newFakeBookingAPI(), nil)
	if _, _, err := registry.Start(context.Background(), WizardConfig{RestaurantID: "3", Now: fixedNow}); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		registry.RunJanitor(ctx, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()
	waitFor(t, func() bool { return registry.Len() == 0 })
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
