package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MealType names the service a booking system covers.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealBrunch    MealType = "brunch"
	MealGeneral   MealType = "general"
)

func ParseMealType(raw string) (MealType, error) {
	switch meal := MealType(strings.ToLower(strings.TrimSpace(raw))); meal {
	case MealBreakfast, MealLunch, MealDinner, MealBrunch, MealGeneral:
		return meal, nil
	default:
		return "", ErrInvalidMealType
	}
}

const maxBookingTypeName = 20

// BookingSystemInput creates a booking system for one restaurant.
type BookingSystemInput struct {
	Restaurant ID       `json:"restaurant"`
	MealType   MealType `json:"meal_type"`
}

func (in BookingSystemInput) Validate() error {
	if in.Restaurant.IsZero() {
		return ErrMissingRestaurant
	}
	_, err := ParseMealType(string(in.MealType))
	return err
}

// BookingTypeInput names a new booking type (e.g. "Window") of a booking system.
type BookingTypeInput struct {
	Name string `json:"name"`
}

func (in BookingTypeInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrBookingTypeNameRequired
	}
	if utf8.RuneCountInString(name) > maxBookingTypeName {
		return ErrBookingTypeNameTooLong
	}
	return nil
}

// Capacity holds the per-slot limits shared by general and dated time slots.
type Capacity struct {
	MaxPeople int `json:"max_people"`
	MaxTables int `json:"max_tables"`
	Min       int `json:"min"`
	Max       int `json:"max"`
}

func (c Capacity) Validate() error {
	if c.MaxPeople < 1 || c.MaxTables < 1 || c.Min < 1 || c.Max < c.Min {
		return ErrInvalidCapacity
	}
	return nil
}

// DefaultCapacity mirrors the prefilled values of the owner's slot forms.
func DefaultCapacity() Capacity {
	return Capacity{MaxPeople: 20, MaxTables: 5, Min: 1, Max: 8}
}

const defaultIntervalMinutes = 30

// GeneralTimeSlot is a weekly template the backend expands into dated slots.
// Weekday counts from Monday (0) to Sunday (6).
type GeneralTimeSlot struct {
	ID              ID     `json:"id,omitempty"`
	BookingSystem   ID     `json:"booking_system"`
	Weekday         int    `json:"weekday"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IntervalMinutes int    `json:"interval_minutes"`
	Capacity
}

func (g *GeneralTimeSlot) Normalize() {
	if g.IntervalMinutes == 0 {
		g.IntervalMinutes = defaultIntervalMinutes
	}
	if g.Capacity == (Capacity{}) {
		g.Capacity = DefaultCapacity()
	}
}

func (g GeneralTimeSlot) Validate() error {
	if g.BookingSystem.IsZero() {
		return ErrMissingBookingSystem
	}
	if g.Weekday < 0 || g.Weekday > 6 {
		return ErrInvalidWeekday
	}
	if err := validateRange(g.StartTime, g.EndTime, g.IntervalMinutes); err != nil {
		return err
	}
	return g.Capacity.Validate()
}

// TimeSlotInput creates dated slots. A single slot is described by Time; a range by
// StartTime, EndTime and IntervalMinutes, which the backend splits into slots.
type TimeSlotInput struct {
	BookingSystem   ID     `json:"booking_system"`
	Date            string `json:"date"`
	Time            string `json:"time,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
	IsOpen          bool   `json:"is_open"`
	Capacity
}

func (in TimeSlotInput) IsRange() bool {
	return in.StartTime != "" || in.EndTime != ""
}

func (in *TimeSlotInput) Normalize() {
	if in.IsRange() && in.IntervalMinutes == 0 {
		in.IntervalMinutes = defaultIntervalMinutes
	}
	if in.Capacity == (Capacity{}) {
		in.Capacity = DefaultCapacity()
	}
}

func (in TimeSlotInput) Validate() error {
	if in.BookingSystem.IsZero() {
		return ErrMissingBookingSystem
	}
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if in.IsRange() {
		if in.Time != "" {
			return ErrInvalidTimeRange
		}
		if err := validateRange(in.StartTime, in.EndTime, in.IntervalMinutes); err != nil {
			return err
		}
	} else if _, err := parseClock(in.Time); err != nil {
		return err
	}
	return in.Capacity.Validate()
}

// TimeSlotPatch changes one dated slot. Nil fields are left untouched.
type TimeSlotPatch struct {
	IsOpen    *bool `json:"is_open,omitempty"`
	MaxPeople *int  `json:"max_people,omitempty"`
	MaxTables *int  `json:"max_tables,omitempty"`
	Min       *int  `json:"min,omitempty"`
	Max       *int  `json:"max,omitempty"`
}

func (p TimeSlotPatch) Validate() error {
	if p == (TimeSlotPatch{}) {
		return ErrEmptyPatch
	}
	for _, value := range []*int{p.MaxPeople, p.MaxTables, p.Min, p.Max} {
		if value != nil && *value < 1 {
			return ErrInvalidCapacity
		}
	}
	if p.Min != nil && p.Max != nil && *p.Max < *p.Min {
		return ErrInvalidCapacity
	}
	return nil
}

func validateRange(start, end string, interval int) error {
	from, err := parseClock(start)
	if err != nil {
		return err
	}
	to, err := parseClock(end)
	if err != nil {
		return err
	}
	if !from.Before(to) || interval < 1 {
		return ErrInvalidTimeRange
	}
	return nil
}

func parseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}
