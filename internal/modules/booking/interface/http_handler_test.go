package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/booking/application/usecase"
	"meishiClient/internal/modules/booking/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
)

type fakeAPI struct {
	mu        sync.Mutex
	slotErr   error
	statusErr error
	created   []domain.BookingPayload

	generalSaved []domain.GeneralTimeSlot
	slotInputs   []domain.TimeSlotInput
	slotPatches  []domain.TimeSlotPatch
}

func (f *fakeAPI) FetchTimeSlots(_ context.Context, _ domain.Audience, query domain.SlotQuery) ([]domain.TimeSlotOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotErr != nil {
		return nil, f.slotErr
	}
	return []domain.TimeSlotOption{{ID: "11", BookingSystemID: "1", Date: query.Date, Time: "18:00", IsOpen: true}}, nil
}

func (f *fakeAPI) FetchBookingTypes(context.Context, domain.ID) ([]domain.BookingTypeOption, error) {
	return []domain.BookingTypeOption{{ID: "5", Name: "Window", BookingSystemID: "1"}}, nil
}

func (f *fakeAPI) CreateBooking(_ context.Context, _ domain.Audience, payload domain.BookingPayload) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	return &domain.Booking{ID: "900", TimeSlot: payload.TimeSlot, FirstName: payload.FirstName}, nil
}

func (f *fakeAPI) UpdateBooking(_ context.Context, _ domain.Audience, id domain.ID, payload domain.BookingPayload) (*domain.Booking, error) {
	return &domain.Booking{ID: id, TimeSlot: payload.TimeSlot}, nil
}

func (f *fakeAPI) ListBookings(context.Context, domain.BookingFilter) ([]domain.Booking, error) {
	return []domain.Booking{{ID: "1", Status: domain.StatusConfirmed}}, nil
}

func (f *fakeAPI) UpdateBookingStatus(_ context.Context, id domain.ID, status domain.Status) (*domain.Booking, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &domain.Booking{ID: id, Status: status}, nil
}

func (f *fakeAPI) DeleteBooking(context.Context, domain.ID) error { return nil }

func (f *fakeAPI) ListBookingSystems(context.Context) ([]domain.BookingSystem, error) {
	return []domain.BookingSystem{{ID: "1", MealType: "dinner"}}, nil
}

func (f *fakeAPI) SetBookingSystemPaused(context.Context, domain.ID, bool) error { return nil }

func (f *fakeAPI) DeleteBookingType(context.Context, domain.ID) error { return nil }

func (f *fakeAPI) CreateBookingSystem(_ context.Context, input domain.BookingSystemInput) (*domain.BookingSystem, error) {
	return &domain.BookingSystem{ID: "2", Restaurant: input.Restaurant, MealType: string(input.MealType)}, nil
}

func (f *fakeAPI) DeleteBookingSystem(context.Context, domain.ID) error { return nil }

func (f *fakeAPI) CreateBookingType(_ context.Context, system domain.ID, input domain.BookingTypeInput) (*domain.BookingTypeOption, error) {
	return &domain.BookingTypeOption{ID: "6", Name: input.Name, BookingSystemID: system}, nil
}

func (f *fakeAPI) ListGeneralTimeSlots(context.Context) ([]domain.GeneralTimeSlot, error) {
	return []domain.GeneralTimeSlot{
		{ID: "1", BookingSystem: "1", Weekday: 4, StartTime: "18:00", EndTime: "22:00"},
		{ID: "2", BookingSystem: "2", Weekday: 0, StartTime: "12:00", EndTime: "14:00"},
	}, nil
}

func (f *fakeAPI) CreateGeneralTimeSlot(_ context.Context, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generalSaved = append(f.generalSaved, slot)
	slot.ID = "3"
	return &slot, nil
}

func (f *fakeAPI) UpdateGeneralTimeSlot(_ context.Context, id domain.ID, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generalSaved = append(f.generalSaved, slot)
	slot.ID = id
	return &slot, nil
}

func (f *fakeAPI) DeleteGeneralTimeSlot(context.Context, domain.ID) error { return nil }

func (f *fakeAPI) CreateTimeSlots(_ context.Context, input domain.TimeSlotInput) ([]domain.TimeSlotOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slotInputs = append(f.slotInputs, input)
	return []domain.TimeSlotOption{{ID: "40", BookingSystemID: input.BookingSystem, Date: input.Date, Time: input.Time, IsOpen: input.IsOpen}}, nil
}

func (f *fakeAPI) UpdateTimeSlot(_ context.Context, id domain.ID, patch domain.TimeSlotPatch) (*domain.TimeSlotOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slotPatches = append(f.slotPatches, patch)
	if patch.IsOpen == nil {
		return nil, nil
	}
	return &domain.TimeSlotOption{ID: id, IsOpen: *patch.IsOpen}, nil
}

func (f *fakeAPI) DeleteTimeSlot(context.Context, domain.ID) error { return nil }

func newServer(api *fakeAPI) *echo.Echo {
	e := echo.New()
	g := e.Group("/api")
	NewWizardHandler(usecase.NewWizardRegistry(api, nil)).Register(g)
	NewBoardHandler(usecase.NewBoardUseCase(api, nil)).Register(g)
	return e
}

func call(t *testing.T, e *echo.Echo, method, target, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type viewBody struct {
	ID    string `json:"id"`
	Error string `json:"error"`
	View  struct {
		Phase      string                  `json:"phase"`
		CanProceed bool                    `json:"canProceed"`
		Open       bool                    `json:"open"`
		Slots      []domain.TimeSlotOption `json:"slots"`
	} `json:"view"`
}

func TestWizardRoutesCreateBooking(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	e := newServer(api)

	var started viewBody
	if code := call(t, e, http.MethodPost, "/api/wizards", `{"restaurantId":3}`, &started); code != http.StatusCreated {
		t.Fatalf("start returned %d", code)
	}
	if !started.View.Open || len(started.View.Slots) != 1 {
		t.Fatalf("unexpected initial view %+v", started.View)
	}
	base := "/api/wizards/" + started.ID

	steps := []struct {
		method, path, body string
		wantPhase          string
	}{
		{http.MethodPost, "/next", "", "time_slot_selection"},
		{http.MethodPut, "/slot", `{"timeSlot":"11"}`, "time_slot_selection"},
		{http.MethodPost, "/next", "", "booking_type_selection"},
		{http.MethodPut, "/type", `{"bookingType":"Window"}`, "booking_type_selection"},
		{http.MethodPost, "/next", "", "personal_info"},
		{http.MethodPut, "/personal", `{"first_name":"Ana"}`, "personal_info"},
	}
	for _, step := range steps {
		var body viewBody
		if code := call(t, e, step.method, base+step.path, step.body, &body); code != http.StatusOK {
			t.Fatalf("%s %s returned %d", step.method, step.path, code)
		}
		if body.View.Phase != step.wantPhase {
			t.Fatalf("%s: expected phase %s, got %s", step.path, step.wantPhase, body.View.Phase)
		}
	}

	var submitted struct {
		Booking domain.Booking `json:"booking"`
	}
	if code := call(t, e, http.MethodPost, base+"/submit", "", &submitted); code != http.StatusOK {
		t.Fatalf("submit returned %d", code)
	}
	if submitted.Booking.ID != "900" || len(api.created) != 1 || api.created[0].BookingType != "Window" {
		t.Fatalf("unexpected submission %+v / %+v", submitted.Booking, api.created)
	}
	if code := call(t, e, http.MethodGet, base, "", nil); code != http.StatusNotFound {
		t.Fatalf("submitted wizard still reachable: %d", code)
	}
}

func TestWizardRoutesRejectInput(t *testing.T) {
	t.Parallel()

	e := newServer(&fakeAPI{})
	var started viewBody
	call(t, e, http.MethodPost, "/api/wizards", `{"restaurantId":"3"}`, &started)
	base := "/api/wizards/" + started.ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"bad date", http.MethodPut, "/date", `{"date":"01/06/2025"}`, http.StatusUnprocessableEntity, domain.ErrInvalidDate.Error()},
		{"zero people", http.MethodPut, "/people", `{"people":0}`, http.StatusUnprocessableEntity, domain.ErrInvalidPartySize.Error()},
		{"unknown slot", http.MethodPut, "/slot", `{"timeSlot":"99"}`, http.StatusUnprocessableEntity, ""},
		{"submit too early", http.MethodPost, "/submit", "", http.StatusConflict, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body gatewayhttp.ErrorResponse
			if code := call(t, e, tt.method, base+tt.path, tt.body, &body); code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, code)
			}
			if tt.wantError != "" && body.Error != tt.wantError {
				t.Fatalf("expected %q, got %q", tt.wantError, body.Error)
			}
		})
	}

	if code := call(t, e, http.MethodPost, "/api/wizards", `{}`, nil); code != http.StatusBadRequest {
		t.Fatalf("start without restaurant returned %d", code)
	}
	if code := call(t, e, http.MethodGet, "/api/wizards/missing", "", nil); code != http.StatusNotFound {
		t.Fatalf("unknown wizard returned %d", code)
	}
}

func TestWizardRoutesReportFetchFailureWithView(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	e := newServer(api)
	var started viewBody
	call(t, e, http.MethodPost, "/api/wizards", `{"restaurantId":"3"}`, &started)

	api.mu.Lock()
	api.slotErr = &gateway.APIError{Status: http.StatusBadRequest, Message: "Restaurant is closed on this date."}
	api.mu.Unlock()

	var body viewBody
	if code := call(t, e, http.MethodPut, "/api/wizards/"+started.ID+"/date", `{"date":"2030-01-02"}`, &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Error != "Restaurant is closed on this date." || !body.View.Open {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestBoardRoutes(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	e := newServer(api)

	var bookings []domain.Booking
	if code := call(t, e, http.MethodGet, "/api/bookings?date=2025-06-01", "", &bookings); code != http.StatusOK || len(bookings) != 1 {
		t.Fatalf("list returned %d %+v", code, bookings)
	}
	if code := call(t, e, http.MethodGet, "/api/bookings?date=June", "", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date returned %d", code)
	}

	var updated domain.Booking
	if code := call(t, e, http.MethodPatch, "/api/bookings/1/status", `{"status":"Arrived"}`, &updated); code != http.StatusOK || updated.Status != domain.StatusArrived {
		t.Fatalf("status change returned %d %+v", code, updated)
	}
	if code := call(t, e, http.MethodPatch, "/api/bookings/1/status", `{"status":"eaten"}`, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown status returned %d", code)
	}

	api.statusErr = errors.New("connection refused")
	if code := call(t, e, http.MethodPatch, "/api/bookings/1/status", `{"status":"bill"}`, nil); code != http.StatusInternalServerError {
		t.Fatalf("backend failure returned %d", code)
	}

	if code := call(t, e, http.MethodPut, "/api/booking-systems/1/paused", `{"paused":true}`, nil); code != http.StatusNoContent {
		t.Fatalf("pause returned %d", code)
	}
	var slots []domain.TimeSlotOption
	if code := call(t, e, http.MethodGet, "/api/booking-systems/1/time-slots?date=2025-06-01", "", &slots); code != http.StatusOK || len(slots) != 1 {
		t.Fatalf("slots returned %d %+v", code, slots)
	}
	if code := call(t, e, http.MethodDelete, "/api/booking-types/5", "", nil); code != http.StatusNoContent {
		t.Fatalf("delete type returned %d", code)
	}
}

func TestBookingSettingsRoutes(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	e := newServer(api)

	var system domain.BookingSystem
	if code := call(t, e, http.MethodPost, "/api/booking-systems", `{"restaurantId":3,"mealType":"Lunch"}`, &system); code != http.StatusCreated || system.MealType != "lunch" {
		t.Fatalf("create system returned %d %+v", code, system)
	}
	if code := call(t, e, http.MethodPost, "/api/booking-systems", `{"restaurantId":3,"mealType":"tea"}`, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown meal type returned %d", code)
	}
	if code := call(t, e, http.MethodDelete, "/api/booking-systems/2", "", nil); code != http.StatusNoContent {
		t.Fatalf("delete system returned %d", code)
	}

	var types []domain.BookingTypeOption
	if code := call(t, e, http.MethodGet, "/api/booking-systems/1/booking-types", "", &types); code != http.StatusOK || len(types) != 1 {
		t.Fatalf("types returned %d %+v", code, types)
	}
	var bookingType domain.BookingTypeOption
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/booking-types", `{"name":"Bar"}`, &bookingType); code != http.StatusCreated || bookingType.BookingSystemID != "1" {
		t.Fatalf("create type returned %d %+v", code, bookingType)
	}
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/booking-types", `{"name":""}`, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("blank type returned %d", code)
	}

	var general []domain.GeneralTimeSlot
	if code := call(t, e, http.MethodGet, "/api/booking-systems/1/general-time-slots", "", &general); code != http.StatusOK || len(general) != 1 || general[0].ID != "1" {
		t.Fatalf("general slots returned %d %+v", code, general)
	}
	var saved domain.GeneralTimeSlot
	body := `{"weekday":0,"startTime":"17:00","endTime":"21:00","intervalMinutes":15,"maxPeople":12,"maxTables":4,"minPerBooking":1,"maxPerBooking":6}`
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/general-time-slots", body, &saved); code != http.StatusCreated || saved.ID != "3" {
		t.Fatalf("create general slot returned %d %+v", code, saved)
	}
	if got := api.generalSaved[0]; got.BookingSystem != "1" || got.Weekday != 0 || got.Max != 6 {
		t.Fatalf("unexpected general slot sent %+v", got)
	}
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/general-time-slots", `{"startTime":"17:00","endTime":"21:00"}`, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("missing weekday returned %d", code)
	}
	if code := call(t, e, http.MethodPut, "/api/general-time-slots/3", `{"bookingSystemId":1,"weekday":2,"startTime":"17:00","endTime":"21:00"}`, &saved); code != http.StatusOK || saved.ID != "3" || saved.Weekday != 2 {
		t.Fatalf("update general slot returned %d %+v", code, saved)
	}
	if code := call(t, e, http.MethodDelete, "/api/general-time-slots/3", "", nil); code != http.StatusNoContent {
		t.Fatalf("delete general slot returned %d", code)
	}

	var created []domain.TimeSlotOption
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/time-slots", `{"date":"2025-06-01","time":"19:00"}`, &created); code != http.StatusCreated || len(created) != 1 || !created[0].IsOpen {
		t.Fatalf("create slot returned %d %+v", code, created)
	}
	if code := call(t, e, http.MethodPost, "/api/booking-systems/1/time-slots", `{"date":"2025-06-01","startTime":"18:00","endTime":"20:00","isOpen":false}`, nil); code != http.StatusCreated {
		t.Fatalf("create range returned %d", code)
	}
	if ranged := api.slotInputs[1]; !ranged.IsRange() || ranged.IsOpen || ranged.IntervalMinutes != 30 {
		t.Fatalf("unexpected range input %+v", ranged)
	}

	var slot domain.TimeSlotOption
	if code := call(t, e, http.MethodPatch, "/api/time-slots/40", `{"isOpen":false}`, &slot); code != http.StatusOK || slot.ID != "40" || slot.IsOpen {
		t.Fatalf("close slot returned %d %+v", code, slot)
	}
	if code := call(t, e, http.MethodPatch, "/api/time-slots/40", `{"maxPeople":10}`, nil); code != http.StatusNoContent {
		t.Fatalf("resize slot returned %d", code)
	}
	if code := call(t, e, http.MethodPatch, "/api/time-slots/40", `{}`, nil); code != http.StatusBadRequest {
		t.Fatalf("empty patch returned %d", code)
	}
	if code := call(t, e, http.MethodDelete, "/api/time-slots/40", "", nil); code != http.StatusNoContent {
		t.Fatalf("delete slot returned %d", code)
	}
}
