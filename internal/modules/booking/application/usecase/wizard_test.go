package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meishiClient/internal/modules/booking/domain"
	"meishiClient/internal/shared/notify"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }

type fakeBookingAPI struct {
	mu        sync.Mutex
	slots     map[string][]domain.TimeSlotOption
	types     map[domain.ID][]domain.BookingTypeOption
	slotErr   error
	submitErr error
	gates     map[string]chan struct{}
	started   chan string

	typeGates   map[domain.ID]chan struct{}
	typeStarted chan domain.ID

	slotQueries []domain.SlotQuery
	typeCalls   []domain.ID
	creates     []domain.BookingPayload
	updates     map[domain.ID]domain.BookingPayload
}

func newFakeBookingAPI() *fakeBookingAPI {
	return &fakeBookingAPI{
		slots: map[string][]domain.TimeSlotOption{
			"2025-06-01": {
				{ID: "11", BookingSystemID: "1", Date: "2025-06-01", Time: "18:00", IsOpen: true},
				{ID: "12", Date: "2025-06-01", Time: "19:00", IsOpen: true},
			},
			"2025-06-02": {
				{ID: "21", BookingSystemID: "1", Date: "2025-06-02", Time: "18:00", IsOpen: true},
			},
		},
		types: map[domain.ID][]domain.BookingTypeOption{
			"1": {{ID: "5", Name: "Window", BookingSystemID: "1"}, {ID: "6", Name: "Bar", BookingSystemID: "1"}},
		},
		gates:       map[string]chan struct{}{},
		started:     make(chan string, 16),
		typeGates:   map[domain.ID]chan struct{}{},
		typeStarted: make(chan domain.ID, 16),
		updates:     map[domain.ID]domain.BookingPayload{},
	}
}

func (f *fakeBookingAPI) FetchTimeSlots(_ context.Context, _ domain.Audience, query domain.SlotQuery) ([]domain.TimeSlotOption, error) {
	f.mu.Lock()
	f.slotQueries = append(f.slotQueries, query)
	gate := f.gates[query.Date]
	f.mu.Unlock()
	f.started <- query.Date
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotErr != nil {
		return nil, f.slotErr
	}
	return append([]domain.TimeSlotOption(nil), f.slots[query.Date]...), nil
}

func (f *fakeBookingAPI) FetchBookingTypes(_ context.Context, system domain.ID) ([]domain.BookingTypeOption, error) {
	f.mu.Lock()
	f.typeCalls = append(f.typeCalls, system)
	gate := f.typeGates[system]
	f.mu.Unlock()
	f.typeStarted <- system
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BookingTypeOption(nil), f.types[system]...), nil
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, _ domain.Audience, payload domain.BookingPayload) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.creates = append(f.creates, payload)
	return &domain.Booking{ID: "100", TimeSlot: payload.TimeSlot, BookingType: payload.BookingType, FirstName: payload.FirstName, People: payload.People}, nil
}

func (f *fakeBookingAPI) UpdateBooking(_ context.Context, _ domain.Audience, id domain.ID, payload domain.BookingPayload) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.updates[id] = payload
	return &domain.Booking{ID: id, TimeSlot: payload.TimeSlot, People: payload.People}, nil
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

func (l *noticeLog) byLevel(level notify.Level) []notify.Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []notify.Notice
	for _, n := range l.notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

func newTestWizard(t *testing.T, api *fakeBookingAPI, existing *domain.Booking) (*Wizard, *noticeLog, *[]*domain.Booking) {
	t.Helper()
	notices := &noticeLog{}
	var completed []*domain.Booking
	wizard, err := NewWizard(api, WizardConfig{
		RestaurantID: "3",
		Audience:     domain.AudienceDiner,
		Existing:     existing,
		Notifier:     notices,
		OnSuccess:    func(_ context.Context, b *domain.Booking) { completed = append(completed, b) },
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	if err := wizard.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	return wizard, notices, &completed
}

func mustNext(t *testing.T, w *Wizard, want domain.Phase) {
	t.Helper()
	got, err := w.Next()
	if err != nil {
		t.Fatalf("next from %s: %v", w.View().Phase, err)
	}
	if got != want {
		t.Fatalf("expected phase %s, got %s", want, got)
	}
}

func TestWizardRequiresRestaurant(t *testing.T) {
	t.Parallel()

	if _, err := NewWizard(newFakeBookingAPI(), WizardConfig{}); !errors.Is(err, domain.ErrMissingRestaurant) {
		t.Fatalf("expected ErrMissingRestaurant, got %v", err)
	}
}

func TestWizardCreatesBookingWithType(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, notices, completed := newTestWizard(t, api, nil)
	ctx := context.Background()

	if err := wizard.SetPartySize(ctx, 4); err != nil {
		t.Fatalf("party size: %v", err)
	}
	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	if err := wizard.SelectTimeSlot(ctx, "11"); err != nil {
		t.Fatalf("select slot: %v", err)
	}
	if view := wizard.View(); len(view.Types) != 2 || view.BookingSystemID != "1" {
		t.Fatalf("expected types for system 1, got %+v", view)
	}
	mustNext(t, wizard, domain.PhaseBookingTypeSelection)
	if wizard.CanProceed() {
		t.Fatal("type step must block until a type is chosen")
	}
	if err := wizard.SelectBookingType("Window"); err != nil {
		t.Fatalf("select type: %v", err)
	}
	mustNext(t, wizard, domain.PhasePersonalInfo)
	if err := wizard.SetPersonalInfo(domain.PersonalInfo{FirstName: "  Jane ", Phone: "555"}); err != nil {
		t.Fatalf("personal info: %v", err)
	}

	booking, err := wizard.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if booking.ID != "100" {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if len(api.creates) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.creates))
	}
	payload := api.creates[0]
	if payload.TimeSlot != "11" || payload.BookingType != "Window" || payload.People != 4 || payload.FirstName != "Jane" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(*completed) != 1 {
		t.Fatalf("expected completion callback once, got %d", len(*completed))
	}
	if len(notices.byLevel(notify.LevelSuccess)) != 1 {
		t.Fatalf("expected success notice, got %+v", notices.notices)
	}
	view := wizard.View()
	if view.Open || view.Phase != domain.PhaseInitial || view.Draft.TimeSlotID != "" {
		t.Fatalf("expected reset closed wizard, got %+v", view)
	}
}

func TestWizardSkipsTypeStepForSlotWithoutSystem(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, _, _ := newTestWizard(t, api, nil)
	ctx := context.Background()

	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	if err := wizard.SelectTimeSlot(ctx, "12"); err != nil {
		t.Fatalf("select slot: %v", err)
	}
	if len(api.typeCalls) != 0 {
		t.Fatalf("slot without booking system must not fetch types, got %v", api.typeCalls)
	}
	mustNext(t, wizard, domain.PhasePersonalInfo)
	if phase, _ := wizard.Back(); phase != domain.PhaseTimeSlotSelection {
		t.Fatalf("back must skip the type step, got %s", phase)
	}
	mustNext(t, wizard, domain.PhasePersonalInfo)
	_ = wizard.SetPersonalInfo(domain.PersonalInfo{FirstName: "Ann"})

	if _, err := wizard.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := api.creates[0].BookingType; got != "" {
		t.Fatalf("expected empty booking type, got %q", got)
	}
}

func TestWizardSubmitValidationMakesNoCall(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		info domain.PersonalInfo
		want error
	}{
		{name: "blank first name", info: domain.PersonalInfo{FirstName: "   "}, want: domain.ErrFirstNameRequired},
		{name: "long first name", info: domain.PersonalInfo{FirstName: "Abcdefghijklmnopqrstu"}, want: domain.ErrFirstNameTooLong},
		{name: "long last name", info: domain.PersonalInfo{FirstName: "Jo", LastName: "Abcdefghijklmnopqrstuvwxyzabcde"}, want: domain.ErrLastNameTooLong},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			api := newFakeBookingAPI()
			wizard, notices, _ := newTestWizard(t, api, nil)
			mustNext(t, wizard, domain.PhaseTimeSlotSelection)
			_ = wizard.SelectTimeSlot(context.Background(), "12")
			mustNext(t, wizard, domain.PhasePersonalInfo)
			_ = wizard.SetPersonalInfo(tc.info)

			if _, err := wizard.Submit(context.Background()); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(api.creates) != 0 {
				t.Fatal("invalid draft must not reach the backend")
			}
			if errs := notices.byLevel(notify.LevelError); len(errs) != 1 || errs[0].Message != tc.want.Error() {
				t.Fatalf("expected one error notice, got %+v", errs)
			}
			if view := wizard.View(); !view.Open || view.Phase != domain.PhasePersonalInfo {
				t.Fatalf("wizard must stay on the personal info step, got %+v", view)
			}
		})
	}
}

func TestWizardSubmitFailureKeepsPhase(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	api.submitErr = errors.New("This time slot is fully booked")
	wizard, notices, completed := newTestWizard(t, api, nil)

	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	_ = wizard.SelectTimeSlot(context.Background(), "12")
	mustNext(t, wizard, domain.PhasePersonalInfo)
	_ = wizard.SetPersonalInfo(domain.PersonalInfo{FirstName: "Jo"})

	if _, err := wizard.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	view := wizard.View()
	if view.Phase != domain.PhasePersonalInfo || view.Submitting || view.Draft.FirstName != "Jo" {
		t.Fatalf("draft must survive a failed submit, got %+v", view)
	}
	if len(*completed) != 0 {
		t.Fatal("completion callback must not run on failure")
	}
	if errs := notices.byLevel(notify.LevelError); len(errs) != 1 || errs[0].Message != "This time slot is fully booked" {
		t.Fatalf("unexpected notices %+v", errs)
	}
}

func TestWizardSlotFetchFailureNotifies(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, notices, _ := newTestWizard(t, api, nil)
	api.mu.Lock()
	api.slotErr = errors.New("Service unavailable")
	api.mu.Unlock()

	if err := wizard.SetDate(context.Background(), "2025-06-02"); err == nil {
		t.Fatal("expected fetch error")
	}
	view := wizard.View()
	if view.SlotsLoading || view.Phase != domain.PhaseInitial {
		t.Fatalf("unexpected state after failure %+v", view)
	}
	if len(notices.byLevel(notify.LevelError)) != 1 {
		t.Fatalf("expected one error notice, got %+v", notices.notices)
	}
}

func TestWizardDateChangeDropsUnlistedSlot(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, _, _ := newTestWizard(t, api, nil)
	ctx := context.Background()
	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	_ = wizard.SelectTimeSlot(ctx, "11")
	_ = wizard.SelectBookingType("Bar")

	if err := wizard.SetDate(ctx, "2025-06-02"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	view := wizard.View()
	if view.Draft.TimeSlotID != "" || view.Draft.BookingType != "" || len(view.Types) != 0 {
		t.Fatalf("expected selection cleared, got %+v", view.Draft)
	}
	if len(view.Slots) != 1 || view.Slots[0].ID != "21" {
		t.Fatalf("expected slots for the new date, got %+v", view.Slots)
	}
	if wizard.CanProceed() {
		t.Fatal("cannot proceed without a slot")
	}
}

func TestWizardRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, _, _ := newTestWizard(t, api, nil)
	ctx := context.Background()

	if err := wizard.SetDate(ctx, "06/02/2025"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := wizard.SetPartySize(ctx, 0); !errors.Is(err, domain.ErrInvalidPartySize) {
		t.Fatalf("expected ErrInvalidPartySize, got %v", err)
	}
	if err := wizard.SelectTimeSlot(ctx, "999"); !errors.Is(err, domain.ErrUnknownTimeSlot) {
		t.Fatalf("expected ErrUnknownTimeSlot, got %v", err)
	}
	if _, err := wizard.Submit(ctx); !errors.Is(err, domain.ErrCannotProceed) {
		t.Fatalf("submit outside the last step must fail, got %v", err)
	}
}

func TestWizardDropsStaleSlotResponse(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, _, _ := newTestWizard(t, api, nil)
	<-api.started // Open

	gate := make(chan struct{})
	api.mu.Lock()
	api.gates["2025-06-02"] = gate
	api.slots["2025-06-03"] = []domain.TimeSlotOption{{ID: "31", Date: "2025-06-03", Time: "20:00"}}
	api.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- wizard.SetDate(context.Background(), "2025-06-02") }()
	if date := <-api.started; date != "2025-06-02" {
		t.Fatalf("unexpected first fetch %s", date)
	}

	if err := wizard.SetDate(context.Background(), "2025-06-03"); err != nil {
		t.Fatalf("second date: %v", err)
	}
	<-api.started
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("stale fetch must resolve quietly, got %v", err)
	}

	view := wizard.View()
	if view.Draft.Date != "2025-06-03" || len(view.Slots) != 1 || view.Slots[0].ID != "31" {
		t.Fatalf("stale response overwrote newer slots: %+v", view)
	}
	if view.SlotsLoading {
		t.Fatal("loading flag must be cleared by the latest fetch")
	}
}

func TestWizardEditModeKeepsOriginalSlot(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	// The edited booking's slot is full, so it is no longer listed.
	api.slots["2025-06-02"] = nil
	existing := &domain.Booking{
		ID:              "77",
		TimeSlot:        "40",
		TimeSlotDetails: &domain.TimeSlotDetails{ID: "40", BookingSystem: "1", Date: "2025-06-02", Time: "18:00"},
		BookingType:     "Window",
		FirstName:       "Lee",
		People:          3,
	}
	wizard, _, completed := newTestWizard(t, api, existing)

	view := wizard.View()
	if view.Draft.Date != "2025-06-02" || view.Draft.TimeSlotID != "40" || view.Draft.People != 3 {
		t.Fatalf("expected draft populated from the booking, got %+v", view.Draft)
	}
	if view.BookingSystemID != "1" || len(view.Types) != 2 {
		t.Fatalf("expected types of the original system, got %+v", view)
	}

	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	mustNext(t, wizard, domain.PhaseBookingTypeSelection)
	mustNext(t, wizard, domain.PhasePersonalInfo)
	if _, err := wizard.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	payload, ok := api.updates["77"]
	if !ok {
		t.Fatalf("expected update of booking 77, got %+v", api.updates)
	}
	if payload.TimeSlot != "40" || payload.BookingType != "Window" || payload.FirstName != "Lee" {
		t.Fatalf("unexpected update payload %+v", payload)
	}
	if len(api.creates) != 0 {
		t.Fatal("edit must not create")
	}
	if len(*completed) != 1 {
		t.Fatal("expected completion callback")
	}
}

func TestWizardEditModeLeavingDateClearsSlot(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	existing := &domain.Booking{
		ID:              "77",
		TimeSlot:        "21",
		TimeSlotDetails: &domain.TimeSlotDetails{ID: "21", BookingSystem: "1", Date: "2025-06-02"},
		BookingType:     "Bar",
		FirstName:       "Lee",
		People:          2,
	}
	wizard, _, _ := newTestWizard(t, api, existing)

	if err := wizard.SetDate(context.Background(), "2025-06-01"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	view := wizard.View()
	if view.Draft.TimeSlotID != "" || view.Draft.BookingType != "" {
		t.Fatalf("leaving the original date must clear the selection, got %+v", view.Draft)
	}
}

func TestWizardCloseResets(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	wizard, _, _ := newTestWizard(t, api, nil)
	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	_ = wizard.SelectTimeSlot(context.Background(), "11")

	wizard.Close()
	view := wizard.View()
	if view.Open || view.Phase != domain.PhaseInitial || view.Draft.TimeSlotID != "" || len(view.Slots) != 0 {
		t.Fatalf("expected reset state, got %+v", view)
	}
	if _, err := wizard.Next(); !errors.Is(err, domain.ErrWizardClosed) {
		t.Fatalf("expected ErrWizardClosed, got %v", err)
	}
}

func TestWizardSlotChangeAfterTypeStepRequiresTypeAgain(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	api.slots["2025-06-01"] = append(api.slots["2025-06-01"],
		domain.TimeSlotOption{ID: "13", BookingSystemID: "1", Date: "2025-06-01", Time: "20:00", IsOpen: true})
	wizard, notices, _ := newTestWizard(t, api, nil)
	ctx := context.Background()

	mustNext(t, wizard, domain.PhaseTimeSlotSelection)
	_ = wizard.SelectTimeSlot(ctx, "11")
	_ = wizard.SelectBookingType("Window")
	mustNext(t, wizard, domain.PhaseBookingTypeSelection)
	mustNext(t, wizard, domain.PhasePersonalInfo)
	_ = wizard.SetPersonalInfo(domain.PersonalInfo{FirstName: "Jane"})

	if err := wizard.SelectTimeSlot(ctx, "13"); err != nil {
		t.Fatalf("reselect slot: %v", err)
	}
	view := wizard.View()
	if view.Phase != domain.PhaseTimeSlotSelection || view.Draft.BookingType != "" || len(view.Types) != 2 {
		t.Fatalf("expected slot step with types to pick again, got phase %s type %q types %d", view.Phase, view.Draft.BookingType, len(view.Types))
	}
	if _, err := wizard.Submit(ctx); !errors.Is(err, domain.ErrCannotProceed) {
		t.Fatalf("submit before walking the type step again must fail, got %v", err)
	}
	if len(api.creates) != 0 {
		t.Fatalf("nothing may be submitted, got %+v", api.creates)
	}

	mustNext(t, wizard, domain.PhaseBookingTypeSelection)
	if _, err := wizard.Next(); !errors.Is(err, domain.ErrCannotProceed) {
		t.Fatalf("type step must block without a type, got %v", err)
	}
	_ = wizard.SelectBookingType("Bar")
	mustNext(t, wizard, domain.PhasePersonalInfo)
	if _, err := wizard.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := api.creates[0]; got.TimeSlot != "13" || got.BookingType != "Bar" || got.FirstName != "Jane" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if errs := notices.byLevel(notify.LevelError); len(errs) != 0 {
		t.Fatalf("unexpected error notices %+v", errs)
	}
}

func TestWizardDropsStaleTypeResponse(t *testing.T) {
	t.Parallel()

	api := newFakeBookingAPI()
	api.slots["2025-06-01"] = append(api.slots["2025-06-01"],
		domain.TimeSlotOption{ID: "14", BookingSystemID: "2", Date: "2025-06-01", Time: "21:00", IsOpen: true})
	api.types["2"] = []domain.BookingTypeOption{{ID: "8", Name: "Terrace", BookingSystemID: "2"}}
	gate := make(chan struct{})
	api.typeGates["1"] = gate
	wizard, _, _ := newTestWizard(t, api, nil)
	ctx := context.Background()
	mustNext(t, wizard, domain.PhaseTimeSlotSelection)

	done := make(chan error, 1)
	go func() { done <- wizard.SelectTimeSlot(ctx, "11") }()
	if system := <-api.typeStarted; system != "1" {
		t.Fatalf("unexpected first type fetch %s", system)
	}

	if err := wizard.SelectTimeSlot(ctx, "14"); err != nil {
		t.Fatalf("second slot: %v", err)
	}
	<-api.typeStarted
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("stale type fetch must resolve quietly, got %v", err)
	}

	view := wizard.View()
	if view.Draft.TimeSlotID != "14" || view.BookingSystemID != "2" {
		t.Fatalf("unexpected selection %+v", view.Draft)
	}
	if len(view.Types) != 1 || view.Types[0].Name != "Terrace" {
		t.Fatalf("stale types overwrote the current system's types: %+v", view.Types)
	}
	if view.TypesLoading {
		t.Fatal("loading flag must be cleared by the latest fetch")
	}
}
