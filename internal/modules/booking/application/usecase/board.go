package usecase

import (
	"context"
	"log/slog"
	"sync"

	"meishiClient/internal/modules/booking/application/port"
	"meishiClient/internal/modules/booking/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/shared/notify"
)

const boardSource = "booking board"

// BoardUseCase backs the restaurant owner's booking board. It keeps the last listing so
// status changes can be shown before the backend confirms them.
type BoardUseCase struct {
	api      port.BookingBoardAPI
	notifier notify.Notifier

	mu       sync.Mutex
	filter   domain.BookingFilter
	bookings []domain.Booking
}

func NewBoardUseCase(api port.BookingBoardAPI, notifier notify.Notifier) *BoardUseCase {
	return &BoardUseCase{api: api, notifier: notifier}
}

func (uc *BoardUseCase) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	if filter.Date != "" {
		if err := domain.ValidateDate(filter.Date); err != nil {
			return nil, err
		}
	}
	bookings, err := uc.api.ListBookings(ctx, filter)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	uc.mu.Lock()
	uc.filter = filter
	uc.bookings = append([]domain.Booking(nil), bookings...)
	uc.mu.Unlock()
	return bookings, nil
}

// Snapshot returns the board as last listed, including unconfirmed status changes.
func (uc *BoardUseCase) Snapshot() (domain.BookingFilter, []domain.Booking) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.filter, append([]domain.Booking(nil), uc.bookings...)
}

// ChangeStatus applies the new status to the listing immediately and restores the
// previous one when the backend rejects it.
func (uc *BoardUseCase) ChangeStatus(ctx context.Context, id domain.ID, raw string) (*domain.Booking, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	index := uc.indexLocked(id)
	var previous domain.Status
	if index >= 0 {
		previous = uc.bookings[index].Status
		uc.bookings[index].Status = status
	}
	uc.mu.Unlock()

	updated, err := uc.api.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		uc.mu.Lock()
		if i := uc.indexLocked(id); i >= 0 && uc.bookings[i].Status == status {
			uc.bookings[i].Status = previous
		}
		uc.mu.Unlock()
		slog.Warn("booking status change rolled back", slog.String("bookingId", id.String()), slog.String("status", string(status)), slog.Any("error", err))
		uc.fail(ctx, err)
		return nil, err
	}

	uc.mu.Lock()
	if i := uc.indexLocked(id); i >= 0 {
		uc.bookings[i] = *updated
	}
	uc.mu.Unlock()
	notify.Success(ctx, uc.notifier, boardSource, "Booking status updated")
	return updated, nil
}

func (uc *BoardUseCase) DeleteBooking(ctx context.Context, id domain.ID) error {
	if err := uc.api.DeleteBooking(ctx, id); err != nil {
		uc.fail(ctx, err)
		return err
	}
	uc.mu.Lock()
	if i := uc.indexLocked(id); i >= 0 {
		uc.bookings = append(uc.bookings[:i], uc.bookings[i+1:]...)
	}
	uc.mu.Unlock()
	notify.Success(ctx, uc.notifier, boardSource, "Booking deleted")
	return nil
}

func (uc *BoardUseCase) ListBookingSystems(ctx context.Context) ([]domain.BookingSystem, error) {
	systems, err := uc.api.ListBookingSystems(ctx)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	return systems, nil
}

// SetPaused pauses or resumes online booking for one booking system.
func (uc *BoardUseCase) SetPaused(ctx context.Context, id domain.ID, paused bool) error {
	if id.IsZero() {
		return domain.ErrMissingBookingSystem
	}
	if err := uc.api.SetBookingSystemPaused(ctx, id, paused); err != nil {
		uc.fail(ctx, err)
		return err
	}
	message := "Booking system resumed"
	if paused {
		message = "Booking system paused"
	}
	notify.Success(ctx, uc.notifier, boardSource, message)
	return nil
}

// ListSystemTimeSlots lists every slot of one booking system, open or not.
func (uc *BoardUseCase) ListSystemTimeSlots(ctx context.Context, system domain.ID, date string) ([]domain.TimeSlotOption, error) {
	if system.IsZero() {
		return nil, domain.ErrMissingBookingSystem
	}
	if date != "" {
		if err := domain.ValidateDate(date); err != nil {
			return nil, err
		}
	}
	slots, err := uc.api.FetchTimeSlots(ctx, domain.AudienceOwner, domain.SlotQuery{BookingSystem: system, Date: date})
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	return slots, nil
}

func (uc *BoardUseCase) DeleteBookingType(ctx context.Context, id domain.ID) error {
	if err := uc.api.DeleteBookingType(ctx, id); err != nil {
		uc.fail(ctx, err)
		return err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Booking type deleted")
	return nil
}

func (uc *BoardUseCase) indexLocked(id domain.ID) int {
	for i := range uc.bookings {
		if uc.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (uc *BoardUseCase) fail(ctx context.Context, err error) {
	notify.Error(ctx, uc.notifier, boardSource, gateway.UserMessage(err))
}
