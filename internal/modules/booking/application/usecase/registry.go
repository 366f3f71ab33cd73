package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meishiClient/internal/modules/booking/application/port"
	"meishiClient/internal/modules/booking/domain"
	"meishiClient/internal/shared/notify"
)

// WizardRegistry keeps the open wizards of the companion server, keyed by session id.
type WizardRegistry struct {
	api      port.BookingAPI
	notifier notify.Notifier

	now      func() time.Time

	mu      sync.RWMutex
	wizards map[string]*wizardEntry
}

type wizardEntry struct {
	wizard   *Wizard
	lastUsed time.Time
}

func NewWizardRegistry(api port.BookingAPI, notifier notify.Notifier) *WizardRegistry {
	return &WizardRegistry{
		api:      api,
		notifier: notifier,
		now:      time.Now,
		wizards:  make(map[string]*wizardEntry),
	}
}

// Start opens a new wizard. A failed initial slot fetch is reported through the
// notifier and leaves the wizard open so the user can retry with another date.
func (r *WizardRegistry) Start(ctx context.Context, cfg WizardConfig) (string, *Wizard, error) {
	id := uuid.NewString()
	if cfg.Notifier == nil {
		cfg.Notifier = r.notifier
	}
	onSuccess := cfg.OnSuccess
	cfg.OnSuccess = func(ctx context.Context, booking *domain.Booking) {
		r.remove(id)
		if onSuccess != nil {
			onSuccess(ctx, booking)
		}
	}

	wizard, err := NewWizard(r.api, cfg)
	if err != nil {
		return "", nil, err
	}
	r.mu.Lock()
	r.wizards[id] = &wizardEntry{wizard: wizard, lastUsed: r.now().UTC()}
	r.mu.Unlock()

	if err := wizard.Open(ctx); err != nil {
		slog.Warn("booking wizard initial fetch failed", slog.String("wizardId", id), slog.Any("error", err))
	}
	return id, wizard, nil
}

// Get returns the wizard and marks it as used.
func (r *WizardRegistry) Get(id string) (*Wizard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.wizards[id]
	if !ok {
		return nil, domain.ErrWizardNotFound
	}
	entry.lastUsed = r.now().UTC()
	return entry.wizard, nil
}

// Close discards the wizard and its draft.
func (r *WizardRegistry) Close(id string) error {
	wizard, err := r.Get(id)
	if err != nil {
		return err
	}
	wizard.Close()
	r.remove(id)
	return nil
}

func (r *WizardRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.wizards)
}

// Sweep closes and drops every wizard that has not been used for longer than idle.
func (r *WizardRegistry) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := r.now().UTC().Add(-idle)
	var expired []*wizardEntry
	var ids []string
	r.mu.Lock()
	for id, entry := range r.wizards {
		if entry.lastUsed.Before(cutoff) {
			expired = append(expired, entry)
			ids = append(ids, id)
			delete(r.wizards, id)
		}
	}
	r.mu.Unlock()

	for i, entry := range expired {
		entry.wizard.Close()
		slog.Info("booking wizard expired", slog.String("wizardId", ids[i]), slog.Time("lastUsed", entry.lastUsed))
	}
	return len(expired)
}

// RunJanitor sweeps idle wizards every interval until ctx is done.
func (r *WizardRegistry) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				slog.Debug("booking wizard sweep", slog.Int("expired", n), slog.Int("open", r.Len()))
			}
		}
	}
}

func (r *WizardRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.wizards, id)
	r.mu.Unlock()
}
