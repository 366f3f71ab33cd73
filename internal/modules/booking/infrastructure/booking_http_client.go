package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"meishiClient/internal/modules/booking/application/port"
	"meishiClient/internal/modules/booking/domain"
	"meishiClient/internal/shared/normalization"
)

// BookingHTTPClient implements port.BookingAPI and port.BookingBoardAPI.
type BookingHTTPClient struct {
	rest port.RESTDoer
}

type pathBuilder func(domain.ID) (string, error)

type slotDecoder func(payload any) []domain.TimeSlotOption

type endpointVariant struct {
	slotsPath          string
	slotsIncludePeople bool
	decodeSlots        slotDecoder
	createPath         string
	updatePathBuilder  pathBuilder
}

var audienceEndpoints = map[domain.Audience]endpointVariant{
	domain.AudienceDiner: {
		slotsPath:          "/api/available-tables/",
		slotsIncludePeople: true,
		decodeSlots:        decodeAvailableTimes,
		createPath:         "/api/user/bookings/create/",
		updatePathBuilder:  resourcePathBuilder("/api/user/bookings"),
	},
	domain.AudienceOwner: {
		slotsPath:         "/api/time-slots/",
		decodeSlots:       decodeOwnerTimeSlots,
		createPath:        "/api/bookings/",
		updatePathBuilder: resourcePathBuilder("/api/bookings"),
	},
}

func resolveVariant(audience domain.Audience) endpointVariant {
	if variant, ok := audienceEndpoints[audience]; ok {
		return variant
	}
	return audienceEndpoints[domain.AudienceDiner]
}

func resourcePathBuilder(base string) pathBuilder {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	return func(id domain.ID) (string, error) {
		identifier := strings.TrimSpace(id.String())
		if identifier == "" {
			return "", fmt.Errorf("missing identifier for %s", trimmed)
		}
		return trimmed + "/" + url.PathEscape(identifier) + "/", nil
	}
}

func requiredValuePathBuilder(format string) pathBuilder {
	return func(id domain.ID) (string, error) {
		identifier := strings.TrimSpace(id.String())
		if identifier == "" {
			return "", domain.ErrMissingBookingSystem
		}
		return fmt.Sprintf(format, url.PathEscape(identifier)), nil
	}
}

var (
	bookingTypesPath    = requiredValuePathBuilder("/api/booking-system/%s/booking-types/")
	bookingPath         = resourcePathBuilder("/api/bookings")
	bookingTypePath     = resourcePathBuilder("/api/booking-types")
	bookingSystemPath   = resourcePathBuilder("/api/booking-systems")
	generalTimeSlotPath = resourcePathBuilder("/api/general-time-slots")
	timeSlotPath        = resourcePathBuilder("/api/time-slots")
)

func NewBookingHTTPClient(rest port.RESTDoer) *BookingHTTPClient {
	return &BookingHTTPClient{rest: rest}
}

func (c *BookingHTTPClient) FetchTimeSlots(ctx context.Context, audience domain.Audience, query domain.SlotQuery) ([]domain.TimeSlotOption, error) {
	variant := resolveVariant(audience)
	if query.RestaurantID.IsZero() && query.BookingSystem.IsZero() {
		return nil, domain.ErrMissingRestaurant
	}
	if !variant.slotsIncludePeople {
		query.People = 0
	}
	slog.Info("booking slots fetch start", slog.String("audience", string(audience)), slog.String("restaurantId", query.RestaurantID.String()), slog.String("date", query.Date))

	var payload any
	if err := c.rest.Get(ctx, variant.slotsPath, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch time slots: %w", err)
	}
	slots := variant.decodeSlots(payload)
	slog.Debug("booking slots fetched", slog.String("audience", string(audience)), slog.Int("count", len(slots)))
	return slots, nil
}

func (c *BookingHTTPClient) FetchBookingTypes(ctx context.Context, bookingSystemID domain.ID) ([]domain.BookingTypeOption, error) {
	path, err := bookingTypesPath(bookingSystemID)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := c.rest.Get(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch booking types: %w", err)
	}
	items := normalization.ItemsFromPayload(payload, "results")
	types := make([]domain.BookingTypeOption, 0, len(items))
	for _, item := range items {
		entry := normalization.AsMap(item)
		name := normalization.AsString(entry["name"])
		if entry == nil || name == "" {
			continue
		}
		types = append(types, domain.BookingTypeOption{
			ID:              normalization.AsID(entry["id"]),
			Name:            name,
			BookingSystemID: normalization.AsID(entry["booking_system"]),
		})
	}
	return types, nil
}

func (c *BookingHTTPClient) CreateBooking(ctx context.Context, audience domain.Audience, payload domain.BookingPayload) (*domain.Booking, error) {
	variant := resolveVariant(audience)
	var created domain.Booking
	if err := c.rest.Post(ctx, variant.createPath, payload, &created); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	slog.Info("booking created", slog.String("audience", string(audience)), slog.String("bookingId", created.ID.String()))
	return &created, nil
}

func (c *BookingHTTPClient) UpdateBooking(ctx context.Context, audience domain.Audience, id domain.ID, payload domain.BookingPayload) (*domain.Booking, error) {
	path, err := resolveVariant(audience).updatePathBuilder(id)
	if err != nil {
		return nil, err
	}
	var updated domain.Booking
	if err := c.rest.Patch(ctx, path, payload, &updated); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	slog.Info("booking updated", slog.String("audience", string(audience)), slog.String("bookingId", id.String()))
	return &updated, nil
}

func (c *BookingHTTPClient) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var payload json.RawMessage
	if err := c.rest.Get(ctx, "/api/bookings/", filter, &payload); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return decodeList[domain.Booking](payload)
}

func (c *BookingHTTPClient) UpdateBookingStatus(ctx context.Context, id domain.ID, status domain.Status) (*domain.Booking, error) {
	path, err := bookingPath(id)
	if err != nil {
		return nil, err
	}
	var updated domain.Booking
	if err := c.rest.Patch(ctx, path, map[string]domain.Status{"status": status}, &updated); err != nil {
		return nil, fmt.Errorf("update booking status %s: %w", id, err)
	}
	return &updated, nil
}

func (c *BookingHTTPClient) DeleteBooking(ctx context.Context, id domain.ID) error {
	path, err := bookingPath(id)
	if err != nil {
		return err
	}
	if err := c.rest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	return nil
}

func (c *BookingHTTPClient) ListBookingSystems(ctx context.Context) ([]domain.BookingSystem, error) {
	var payload json.RawMessage
	if err := c.rest.Get(ctx, "/api/booking-systems/", nil, &payload); err != nil {
		return nil, fmt.Errorf("list booking systems: %w", err)
	}
	return decodeList[domain.BookingSystem](payload)
}

func (c *BookingHTTPClient) SetBookingSystemPaused(ctx context.Context, id domain.ID, paused bool) error {
	base, err := bookingSystemPath(id)
	if err != nil {
		return err
	}
	action := "resume/"
	if paused {
		action = "pause/"
	}
	if err := c.rest.Post(ctx, base+action, nil, nil); err != nil {
		return fmt.Errorf("%s booking system %s: %w", strings.TrimSuffix(action, "/"), id, err)
	}
	return nil
}

func (c *BookingHTTPClient) DeleteBookingType(ctx context.Context, id domain.ID) error {
	path, err := bookingTypePath(id)
	if err != nil {
		return err
	}
	if err := c.rest.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete booking type %s: %w", id, err)
	}
	return nil
}

// decodeList accepts a bare array or a paginated {"results": [...]} envelope.
func decodeList[T any](payload json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		return envelope.Results, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}

func decodeAvailableTimes(payload any) []domain.TimeSlotOption {
	items := normalization.ItemsFromPayload(payload, "available_times")
	slots := make([]domain.TimeSlotOption, 0, len(items))
	for _, item := range items {
		entry := normalization.AsMap(item)
		id := normalization.AsID(entry["time_slot_id"])
		if entry == nil || id.IsZero() {
			continue
		}
		slots = append(slots, domain.TimeSlotOption{
			ID:              id,
			BookingSystemID: normalization.AsID(entry["booking_system_id"]),
			Date:            normalization.AsString(entry["date"]),
			Time:            normalization.AsString(entry["time"]),
			MealType:        normalization.AsString(entry["meal_type"]),
			IsOpen:          true,
			AvailablePeople: normalization.AsInt(entry["available_people_capacity"]),
			AvailableTables: normalization.AsInt(entry["available_table_capacity"]),
		})
	}
	return slots
}

func decodeOwnerTimeSlots(payload any) []domain.TimeSlotOption {
	items := normalization.ItemsFromPayload(payload, "results", "time_slots")
	slots := make([]domain.TimeSlotOption, 0, len(items))
	for _, item := range items {
		if slot, ok := decodeOwnerTimeSlot(item); ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

func decodeOwnerTimeSlot(item any) (domain.TimeSlotOption, bool) {
	entry := normalization.AsMap(item)
	id := normalization.AsID(entry["id"])
	if entry == nil || id.IsZero() {
		return domain.TimeSlotOption{}, false
	}
	return domain.TimeSlotOption{
		ID:              id,
		BookingSystemID: normalization.AsID(entry["booking_system"]),
		Date:            normalization.AsString(entry["date"]),
		Time:            normalization.AsString(entry["time"]),
		IsOpen:          normalization.AsBool(entry["is_open"]),
		MaxPeople:       normalization.AsInt(entry["max_people"]),
		MaxTables:       normalization.AsInt(entry["max_tables"]),
		MinPerBooking:   normalization.AsInt(entry["min"]),
		MaxPerBooking:   normalization.AsInt(entry["max"]),
		BookedPeople:    normalization.AsInt(entry["current_booked_people"]),
		BookedTables:    normalization.AsInt(entry["current_number_of_tables"]),
	}, true
}
