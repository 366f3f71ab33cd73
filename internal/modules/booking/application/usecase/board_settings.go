package usecase

import (
	"context"
	"log/slog"
	"sort"

	"meishiClient/internal/modules/booking/domain"
	"meishiClient/internal/shared/notify"
)

// Booking settings: booking systems, their booking types, weekly general slots and
// dated time slots. Input is validated before anything is sent to the backend.

func (uc *BoardUseCase) CreateBookingSystem(ctx context.Context, input domain.BookingSystemInput) (*domain.BookingSystem, error) {
	meal, err := domain.ParseMealType(string(input.MealType))
	if err != nil {
		return nil, err
	}
	input.MealType = meal
	if err := input.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.api.CreateBookingSystem(ctx, input)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Booking system created")
	return created, nil
}

func (uc *BoardUseCase) DeleteBookingSystem(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ErrMissingBookingSystem
	}
	if err := uc.api.DeleteBookingSystem(ctx, id); err != nil {
		uc.fail(ctx, err)
		return err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Booking system deleted")
	return nil
}

func (uc *BoardUseCase) ListBookingTypes(ctx context.Context, system domain.ID) ([]domain.BookingTypeOption, error) {
	if system.IsZero() {
		return nil, domain.ErrMissingBookingSystem
	}
	types, err := uc.api.FetchBookingTypes(ctx, system)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	return types, nil
}

func (uc *BoardUseCase) CreateBookingType(ctx context.Context, system domain.ID, input domain.BookingTypeInput) (*domain.BookingTypeOption, error) {
	if system.IsZero() {
		return nil, domain.ErrMissingBookingSystem
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.api.CreateBookingType(ctx, system, input)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Booking type created")
	return created, nil
}

// ListGeneralTimeSlots returns the weekly slots of one booking system ordered by
// weekday and start time. The backend lists every system's slots at once.
func (uc *BoardUseCase) ListGeneralTimeSlots(ctx context.Context, system domain.ID) ([]domain.GeneralTimeSlot, error) {
	if system.IsZero() {
		return nil, domain.ErrMissingBookingSystem
	}
	all, err := uc.api.ListGeneralTimeSlots(ctx)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	slots := make([]domain.GeneralTimeSlot, 0, len(all))
	for _, slot := range all {
		if slot.BookingSystem == system {
			slots = append(slots, slot)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Weekday != slots[j].Weekday {
			return slots[i].Weekday < slots[j].Weekday
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

// SaveGeneralTimeSlot creates the slot, or replaces it when id is set.
func (uc *BoardUseCase) SaveGeneralTimeSlot(ctx context.Context, id domain.ID, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error) {
	slot.Normalize()
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	var (
		saved   *domain.GeneralTimeSlot
		err     error
		message = "General time slot created"
	)
	if id.IsZero() {
		saved, err = uc.api.CreateGeneralTimeSlot(ctx, slot)
	} else {
		saved, err = uc.api.UpdateGeneralTimeSlot(ctx, id, slot)
		message = "General time slot updated"
	}
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	notify.Success(ctx, uc.notifier, boardSource, message)
	return saved, nil
}

func (uc *BoardUseCase) DeleteGeneralTimeSlot(ctx context.Context, id domain.ID) error {
	if err := uc.api.DeleteGeneralTimeSlot(ctx, id); err != nil {
		uc.fail(ctx, err)
		return err
	}
	notify.Success(ctx, uc.notifier, boardSource, "General time slot deleted")
	return nil
}

func (uc *BoardUseCase) CreateTimeSlots(ctx context.Context, input domain.TimeSlotInput) ([]domain.TimeSlotOption, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	slots, err := uc.api.CreateTimeSlots(ctx, input)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Time slots created")
	return slots, nil
}

// UpdateTimeSlot opens, closes or resizes one dated slot. The result is nil when the
// backend answers without a body.
func (uc *BoardUseCase) UpdateTimeSlot(ctx context.Context, id domain.ID, patch domain.TimeSlotPatch) (*domain.TimeSlotOption, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.api.UpdateTimeSlot(ctx, id, patch)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	if patch.IsOpen != nil {
		slog.Info("time slot availability changed", slog.String("timeSlotId", id.String()), slog.Bool("open", *patch.IsOpen))
	}
	notify.Success(ctx, uc.notifier, boardSource, "Time slot updated")
	return updated, nil
}

func (uc *BoardUseCase) DeleteTimeSlot(ctx context.Context, id domain.ID) error {
	if err := uc.api.DeleteTimeSlot(ctx, id); err != nil {
		uc.fail(ctx, err)
		return err
	}
	notify.Success(ctx, uc.notifier, boardSource, "Time slot deleted")
	return nil
}
