package domain

import (
	"strings"
	"time"

	"meishiClient/internal/shared/normalization"
)

type ID = normalization.ID

// Audience selects which side of the backend a wizard talks to.
type Audience string

const (
	AudienceDiner Audience = "diner"
	AudienceOwner Audience = "owner"
)

func ParseAudience(raw string) Audience {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "owner", "restaurant":
		return AudienceOwner
	default:
		return AudienceDiner
	}
}

// Status is the lifecycle of a booking on the owner's board.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusArrived   Status = "arrived"
	StatusDessert   Status = "dessert"
	StatusBill      Status = "bill"
	StatusClean     Status = "clean"
	StatusNoShow    Status = "noshow"
	StatusGone      Status = "gone"
	StatusCanceled  Status = "canceled"
)

var statuses = []Status{StatusConfirmed, StatusArrived, StatusDessert, StatusBill, StatusClean, StatusNoShow, StatusGone, StatusCanceled}

func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range statuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// TimeSlotDetails is the nested slot summary returned with a booking.
type TimeSlotDetails struct {
	ID            ID     `json:"id"`
	BookingSystem ID     `json:"booking_system"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type Booking struct {
	ID              ID               `json:"id"`
	BookingCode     string           `json:"booking_code,omitempty"`
	TimeSlot        ID               `json:"time_slot"`
	TimeSlotDetails *TimeSlotDetails `json:"time_slot_details,omitempty"`
	BookingType     string           `json:"booking_type"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	People          int              `json:"people"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	Notes           string           `json:"notes"`
	Status          Status           `json:"status,omitempty"`
	CreatedAt       *time.Time       `json:"created_at,omitempty"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}

// Date is the booking's slot date, empty when the backend omitted the details.
func (b *Booking) Date() string {
	if b == nil || b.TimeSlotDetails == nil {
		return ""
	}
	return b.TimeSlotDetails.Date
}

// BookingSystemID is the system owning the booking's slot.
func (b *Booking) BookingSystemID() ID {
	if b == nil || b.TimeSlotDetails == nil {
		return ""
	}
	return b.TimeSlotDetails.BookingSystem
}

// BookingSystem groups slots and booking types of one service (e.g. dinner).
type BookingSystem struct {
	ID         ID         `json:"id"`
	Restaurant ID         `json:"restaurant"`
	MealType   string     `json:"meal_type"`
	IsPaused   bool       `json:"is_paused"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}
