package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"meishiClient/internal/modules/booking/domain"
	"meishiClient/internal/shared/normalization"
)

const (
	bookingSystemsPath   = "/api/booking-systems/"
	generalTimeSlotsPath = "/api/general-time-slots/"
	timeSlotsPath        = "/api/time-slots/"
	timeSlotRangePath    = "/api/time-slots/create/"
)

func (c *BookingHTTPClient) CreateBookingSystem(ctx context.Context, input domain.BookingSystemInput) (*domain.BookingSystem, error) {
	var created domain.BookingSystem
	if err := c.rest.Post(ctx, bookingSystemsPath, input, &created); err != nil {
		return nil, fmt.Errorf("create booking system: %w", err)
	}
	slog.Info("booking system created", slog.String("restaurantId", input.Restaurant.String()), slog.String("mealType", string(input.MealType)), slog.String("bookingSystemId", created.ID.String()))
	return &created, nil
}

func (c *BookingHTTPClient) DeleteBookingSystem(ctx context.Context, id domain.ID) error {
	path, err := bookingSystemPath(id)
	if err != nil {
		return err
	}
	if err := c.rest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete booking system %s: %w", id, err)
	}
	return nil
}

func (c *BookingHTTPClient) CreateBookingType(ctx context.Context, bookingSystemID domain.ID, input domain.BookingTypeInput) (*domain.BookingTypeOption, error) {
	path, err := bookingTypesPath(bookingSystemID)
	if err != nil {
		return nil, err
	}
	var created domain.BookingTypeOption
	if err := c.rest.Post(ctx, path, input, &created); err != nil {
		return nil, fmt.Errorf("create booking type: %w", err)
	}
	if created.BookingSystemID.IsZero() {
		created.BookingSystemID = bookingSystemID
	}
	return &created, nil
}

func (c *BookingHTTPClient) ListGeneralTimeSlots(ctx context.Context) ([]domain.GeneralTimeSlot, error) {
	var payload json.RawMessage
	if err := c.rest.Get(ctx, generalTimeSlotsPath, nil, &payload); err != nil {
		return nil, fmt.Errorf("list general time slots: %w", err)
	}
	return decodeList[domain.GeneralTimeSlot](payload)
}

func (c *BookingHTTPClient) CreateGeneralTimeSlot(ctx context.Context, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error) {
	slot.ID = ""
	var created domain.GeneralTimeSlot
	if err := c.rest.Post(ctx, generalTimeSlotsPath, slot, &created); err != nil {
		return nil, fmt.Errorf("create general time slot: %w", err)
	}
	return &created, nil
}

func (c *BookingHTTPClient) UpdateGeneralTimeSlot(ctx context.Context, id domain.ID, slot domain.GeneralTimeSlot) (*domain.GeneralTimeSlot, error) {
	path, err := generalTimeSlotPath(id)
	if err != nil {
		return nil, err
	}
	slot.ID = ""
	var updated domain.GeneralTimeSlot
	if err := c.rest.Patch(ctx, path, slot, &updated); err != nil {
		return nil, fmt.Errorf("update general time slot %s: %w", id, err)
	}
	return &updated, nil
}

func (c *BookingHTTPClient) DeleteGeneralTimeSlot(ctx context.Context, id domain.ID) error {
	path, err := generalTimeSlotPath(id)
	if err != nil {
		return err
	}
	if err := c.rest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete general time slot %s: %w", id, err)
	}
	return nil
}

// CreateTimeSlots posts a single slot to the collection and a time range to the
// expansion endpoint. Either may answer with one slot or a list.
func (c *BookingHTTPClient) CreateTimeSlots(ctx context.Context, input domain.TimeSlotInput) ([]domain.TimeSlotOption, error) {
	path := timeSlotsPath
	if input.IsRange() {
		path = timeSlotRangePath
	}
	var payload any
	if err := c.rest.Post(ctx, path, input, &payload); err != nil {
		return nil, fmt.Errorf("create time slots: %w", err)
	}
	slots := decodeOwnerTimeSlots(payload)
	if slot, ok := decodeOwnerTimeSlot(normalization.MapFromPayload(payload)); ok {
		slots = []domain.TimeSlotOption{slot}
	}
	slog.Info("time slots created", slog.String("bookingSystemId", input.BookingSystem.String()), slog.String("date", input.Date), slog.Bool("range", input.IsRange()), slog.Int("count", len(slots)))
	return slots, nil
}

func (c *BookingHTTPClient) UpdateTimeSlot(ctx context.Context, id domain.ID, patch domain.TimeSlotPatch) (*domain.TimeSlotOption, error) {
	path, err := timeSlotPath(id)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := c.rest.Patch(ctx, path, patch, &payload); err != nil {
		return nil, fmt.Errorf("update time slot %s: %w", id, err)
	}
	slot, ok := decodeOwnerTimeSlot(normalization.MapFromPayload(payload))
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (c *BookingHTTPClient) DeleteTimeSlot(ctx context.Context, id domain.ID) error {
	path, err := timeSlotPath(id)
	if err != nil {
		return err
	}
	if err := c.rest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete time slot %s: %w", id, err)
	}
	return nil
}
