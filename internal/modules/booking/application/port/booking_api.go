package port

import (
	"context"

	"meishiClient/internal/modules/booking/domain"
)

// BookingAPI is what the wizard needs from the backend.
type BookingAPI interface {
	FetchTimeSlots(ctx context.Context, audience domain.Audience, query domain.SlotQuery) ([]domain.TimeSlotOption, error)
	FetchBookingTypes(ctx context.Context, bookingSystemID domain.ID) ([]domain.BookingTypeOption, error)
	CreateBooking(ctx context.Context, audience domain.Audience, payload domain.BookingPayload) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, audience domain.Audience, id domain.ID, payload domain.BookingPayload) (*domain.Booking, error)
}

// BookingBoardAPI covers the owner's booking management and booking settings screens.
type BookingBoardAPI interface {
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id domain.ID, status domain.Status) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id domain.ID) error

	ListBookingSystems(ctx context.Context) ([]domain.BookingSystem, error)
	CreateBookingSystem(ctx context.Context, input domain.BookingSystemInput) (*domain.BookingSystem, error)
	DeleteBookingSystem(ctx context.Context, id domain.ID) error
	SetBookingSystemPaused(ctx context.Context, id domain.ID, paused bool) error

	FetchBookingTypes(ctx context.Context, bookingSystemID domain.ID) ([]domain.BookingTypeOption, error)
	CreateBookingType(ctx context.Context, bookingSystemID domain.ID, input domain.BookingTypeInput) (*domain.BookingTypeOption, error)
	DeleteBookingType(ctx context.Context, id domain.ID) error

	ListGeneralTimeSlots(ctx context.Context) ([]domain.GeneralTimeSlot, error)
	CreateGeneralTimeSlot(ctx context.Context, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error)
	UpdateGeneralTimeSlot(ctx context.Context, id domain.ID, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error)
	DeleteGeneralTimeSlot(ctx context.Context, id domain.ID) error

	FetchTimeSlots(ctx context.Context, audience domain.Audience, query domain.SlotQuery) ([]domain.TimeSlotOption, error)
	CreateTimeSlots(ctx context.Context, input domain.TimeSlotInput) ([]domain.TimeSlotOption, error)
	UpdateTimeSlot(ctx context.Context, id domain.ID, patch domain.TimeSlotPatch) (*domain.TimeSlotOption, error)
	DeleteTimeSlot(ctx context.Context, id domain.ID) error
}
