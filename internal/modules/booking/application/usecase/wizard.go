package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"meishiClient/internal/modules/booking/application/port"
	"meishiClient/internal/modules/booking/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/notify"
)

const noticeSource = "booking"

// WizardConfig describes one booking form.
type WizardConfig struct {
	RestaurantID domain.ID
	Audience     domain.Audience
	// Existing switches the wizard into edit mode.
	Existing  *domain.Booking
	Notifier  notify.Notifier
	OnSuccess func(ctx context.Context, booking *domain.Booking)
	Now       func() time.Time
}

// WizardView is the read-only snapshot handed to renderers.
type WizardView struct {
	domain.WizardState
	Open         bool            `json:"open"`
	CanProceed   bool            `json:"canProceed"`
	Audience     domain.Audience `json:"audience"`
	RestaurantID domain.ID       `json:"restaurantId"`
}

// Wizard drives the booking form. Every slot and type fetch carries a sequence number
// and its own context; starting a newer fetch cancels the older one and a response whose
// number is no longer current is dropped.
type Wizard struct {
	api port.BookingAPI
	cfg WizardConfig

	mu          sync.Mutex
	state       domain.WizardState
	open        bool
	slotSeq     uint64
	typeSeq     uint64
	cancelSlots context.CancelFunc
	cancelTypes context.CancelFunc
}

func NewWizard(api port.BookingAPI, cfg WizardConfig) (*Wizard, error) {
	if cfg.RestaurantID.IsZero() {
		return nil, domain.ErrMissingRestaurant
	}
	if cfg.Audience == "" {
		cfg.Audience = domain.AudienceDiner
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Wizard{
		api:   api,
		cfg:   cfg,
		state: domain.NewWizardState(cfg.Now(), cfg.Existing),
	}, nil
}

// Open resets the form (pre-populating it in edit mode) and loads slots for the
// draft's date and party size.
func (w *Wizard) Open(ctx context.Context) error {
	w.mu.Lock()
	w.resetLocked()
	w.open = true
	w.mu.Unlock()
	slog.Info("booking wizard opened", slog.String("restaurantId", w.cfg.RestaurantID.String()), slog.String("audience", string(w.cfg.Audience)), slog.Bool("editMode", w.cfg.Existing != nil))
	return w.fetchSlots(ctx)
}

// Close cancels outstanding fetches and discards the draft.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.open = false
}

func (w *Wizard) View() WizardView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open && w.state.CanProceed()
}

func (w *Wizard) SetDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if err := domain.ValidateDate(date); err != nil {
		w.notifyError(ctx, err)
		return err
	}
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return domain.ErrWizardClosed
	}
	if w.state.Draft.Date == date {
		w.mu.Unlock()
		return nil
	}
	before := w.state.Draft.TimeSlotID
	w.state.ChangeDate(date)
	w.afterSlotChangeLocked(before)
	w.mu.Unlock()
	return w.fetchSlots(ctx)
}

func (w *Wizard) SetPartySize(ctx context.Context, people int) error {
	if people < 1 {
		w.notifyError(ctx, domain.ErrInvalidPartySize)
		return domain.ErrInvalidPartySize
	}
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return domain.ErrWizardClosed
	}
	if w.state.Draft.People == people {
		w.mu.Unlock()
		return nil
	}
	w.state.Draft.People = people
	w.mu.Unlock()
	return w.fetchSlots(ctx)
}

// SelectTimeSlot picks a slot from the current list and loads its booking types.
func (w *Wizard) SelectTimeSlot(ctx context.Context, id domain.ID) error {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return domain.ErrWizardClosed
	}
	system, err := w.state.SelectSlot(id)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.invalidateTypesLocked()
	w.mu.Unlock()

	if system.IsZero() {
		return nil
	}
	return w.fetchTypes(ctx, system)
}

func (w *Wizard) SelectBookingType(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return domain.ErrWizardClosed
	}
	return w.state.SelectType(strings.TrimSpace(name))
}

func (w *Wizard) SetPersonalInfo(info domain.PersonalInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return domain.ErrWizardClosed
	}
	w.state.Draft.PersonalInfo = info
	return nil
}

// Next advances one phase, skipping the booking type step when it does not apply.
func (w *Wizard) Next() (domain.Phase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return w.state.Phase, domain.ErrWizardClosed
	}
	next, err := w.state.Forward()
	if err != nil {
		return w.state.Phase, err
	}
	w.state.Phase = next
	return next, nil
}

func (w *Wizard) Back() (domain.Phase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return w.state.Phase, domain.ErrWizardClosed
	}
	w.state.Phase = w.state.Backward()
	return w.state.Phase, nil
}

// Submit validates the draft locally, then creates or updates the booking. On success
// the completion callback runs and the wizard closes; on failure it stays where it is.
func (w *Wizard) Submit(ctx context.Context) (*domain.Booking, error) {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return nil, domain.ErrWizardClosed
	}
	if w.state.Submitting {
		w.mu.Unlock()
		return nil, domain.ErrSubmissionInFlight
	}
	if w.state.Phase != domain.PhasePersonalInfo {
		w.mu.Unlock()
		return nil, domain.ErrCannotProceed
	}
	payload, err := w.state.Payload()
	if err != nil {
		w.mu.Unlock()
		w.notifyError(ctx, err)
		return nil, err
	}
	w.state.Submitting = true
	existing := w.state.Original
	w.mu.Unlock()

	var booking *domain.Booking
	if existing != nil {
		booking, err = w.api.UpdateBooking(ctx, w.cfg.Audience, existing.ID, payload)
	} else {
		booking, err = w.api.CreateBooking(ctx, w.cfg.Audience, payload)
	}

	w.mu.Lock()
	w.state.Submitting = false
	if err != nil {
		w.mu.Unlock()
		slog.Warn("booking wizard submit failed", slog.String("restaurantId", w.cfg.RestaurantID.String()), slog.Any("error", err))
		w.notifyError(ctx, err)
		return nil, err
	}
	w.resetLocked()
	w.open = false
	w.mu.Unlock()

	message := "Booking created successfully"
	if existing != nil {
		message = "Booking updated successfully"
	}
	notify.Success(ctx, w.cfg.Notifier, noticeSource, message)
	if w.cfg.OnSuccess != nil {
		w.cfg.OnSuccess(ctx, booking)
	}
	return booking, nil
}

func (w *Wizard) fetchSlots(ctx context.Context) error {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return domain.ErrWizardClosed
	}
	w.slotSeq++
	seq := w.slotSeq
	if w.cancelSlots != nil {
		w.cancelSlots()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancelSlots = cancel
	w.state.SlotsLoading = true
	query := domain.SlotQuery{
		RestaurantID: w.cfg.RestaurantID,
		Date:         w.state.Draft.Date,
		People:       w.state.Draft.People,
	}
	w.mu.Unlock()

	slots, err := w.api.FetchTimeSlots(fetchCtx, w.cfg.Audience, query)
	cancel()

	w.mu.Lock()
	if seq != w.slotSeq {
		w.mu.Unlock()
		slog.Debug("booking wizard stale slots dropped", slog.String("date", query.Date), slog.Int("people", query.People))
		return nil
	}
	w.cancelSlots = nil
	w.state.SlotsLoading = false
	if err != nil {
		w.mu.Unlock()
		w.notifyError(ctx, err)
		return err
	}
	before := w.state.Draft.TimeSlotID
	system, fetchTypes := w.state.ApplySlots(slots)
	w.afterSlotChangeLocked(before)
	w.mu.Unlock()

	if fetchTypes {
		return w.fetchTypes(ctx, system)
	}
	return nil
}

func (w *Wizard) fetchTypes(ctx context.Context, system domain.ID) error {
	w.mu.Lock()
	w.typeSeq++
	seq := w.typeSeq
	if w.cancelTypes != nil {
		w.cancelTypes()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancelTypes = cancel
	w.state.TypesLoading = true
	w.mu.Unlock()

	types, err := w.api.FetchBookingTypes(fetchCtx, system)
	cancel()

	w.mu.Lock()
	if seq != w.typeSeq || w.state.BookingSystemID != system {
		w.mu.Unlock()
		slog.Debug("booking wizard stale types dropped", slog.String("bookingSystemId", system.String()))
		return nil
	}
	w.cancelTypes = nil
	w.state.TypesLoading = false
	if err != nil {
		w.mu.Unlock()
		w.notifyError(ctx, err)
		return err
	}
	w.state.ApplyTypes(types)
	w.mu.Unlock()
	return nil
}

// afterSlotChangeLocked drops an in-flight type fetch that belongs to a slot that is no
// longer selected.
func (w *Wizard) afterSlotChangeLocked(before domain.ID) {
	if w.state.Draft.TimeSlotID != before {
		w.invalidateTypesLocked()
	}
}

func (w *Wizard) invalidateTypesLocked() {
	w.typeSeq++
	if w.cancelTypes != nil {
		w.cancelTypes()
		w.cancelTypes = nil
	}
	w.state.TypesLoading = false
}

func (w *Wizard) resetLocked() {
	w.slotSeq++
	w.typeSeq++
	if w.cancelSlots != nil {
		w.cancelSlots()
		w.cancelSlots = nil
	}
	if w.cancelTypes != nil {
		w.cancelTypes()
		w.cancelTypes = nil
	}
	w.state = domain.NewWizardState(w.cfg.Now(), w.cfg.Existing)
}

func (w *Wizard) viewLocked() WizardView {
	return WizardView{
		WizardState:  w.state.Clone(),
		Open:         w.open,
		CanProceed:   w.open && w.state.CanProceed(),
		Audience:     w.cfg.Audience,
		RestaurantID: w.cfg.RestaurantID,
	}
}

func (w *Wizard) notifyError(ctx context.Context, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	notify.Error(ctx, w.cfg.Notifier, noticeSource, gateway.UserMessage(err))
}
