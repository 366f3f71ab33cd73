package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout       = "2006-01-02"
	DefaultPartySize = 2

	maxFirstNameLength = 20
	maxLastNameLength  = 30
)

// PersonalInfo is the contact block collected in the last step.
type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

func (p PersonalInfo) Validate() error {
	first := strings.TrimSpace(p.FirstName)
	if first == "" {
		return ErrFirstNameRequired
	}
	if utf8.RuneCountInString(first) > maxFirstNameLength {
		return ErrFirstNameTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.LastName)) > maxLastNameLength {
		return ErrLastNameTooLong
	}
	return nil
}

// BookingDraft is the form being filled in. It only lives while a wizard is open.
type BookingDraft struct {
	Date        string `json:"date"`
	People      int    `json:"people"`
	TimeSlotID  ID     `json:"time_slot"`
	BookingType string `json:"booking_type"`
	PersonalInfo
}

func NewDraft(today time.Time) BookingDraft {
	return BookingDraft{Date: today.Format(DateLayout), People: DefaultPartySize}
}

// DraftFromBooking pre-populates a draft for editing b.
func DraftFromBooking(b *Booking, today time.Time) BookingDraft {
	draft := NewDraft(today)
	if b == nil {
		return draft
	}
	if date := b.Date(); date != "" {
		draft.Date = date
	}
	if b.People > 0 {
		draft.People = b.People
	}
	draft.TimeSlotID = b.TimeSlot
	draft.BookingType = b.BookingType
	draft.PersonalInfo = PersonalInfo{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Phone:     b.Phone,
		Email:     b.Email,
		Notes:     b.Notes,
	}
	return draft
}

// BookingPayload is the create/update request body.
type BookingPayload struct {
	TimeSlot    ID     `json:"time_slot"`
	BookingType string `json:"booking_type"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	People      int    `json:"people"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		return ErrInvalidDate
	}
	return nil
}
