package domain

import (
	"strings"
	"time"
)

// Phase is a step of the booking wizard.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseTimeSlotSelection
	PhaseBookingTypeSelection
	PhasePersonalInfo
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseTimeSlotSelection:
		return "time_slot_selection"
	case PhaseBookingTypeSelection:
		return "booking_type_selection"
	case PhasePersonalInfo:
		return "personal_info"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// WizardState holds everything the wizard renders. Its methods are the pure transition
// rules; fetching and locking live in the use case.
type WizardState struct {
	Phase           Phase               `json:"phase"`
	Draft           BookingDraft        `json:"draft"`
	Slots           []TimeSlotOption    `json:"slots"`
	Types           []BookingTypeOption `json:"types"`
	BookingSystemID ID                  `json:"bookingSystemId"`
	SlotsLoading    bool                `json:"slotsLoading"`
	TypesLoading    bool                `json:"typesLoading"`
	Submitting      bool                `json:"submitting"`
	Original        *Booking            `json:"original,omitempty"`
}

// NewWizardState returns the defaults for a new booking, or the pre-populated state
// for editing original.
func NewWizardState(today time.Time, original *Booking) WizardState {
	if original != nil {
		return WizardState{Draft: DraftFromBooking(original, today), Original: original}
	}
	return WizardState{Draft: NewDraft(today)}
}

func (s WizardState) EditMode() bool {
	return s.Original != nil
}

func (s WizardState) onOriginalDate() bool {
	return s.EditMode() && s.Original.Date() != "" && s.Draft.Date == s.Original.Date()
}

// SlotPinned reports whether the draft still points at the edited booking's own slot
// on its own date. A pinned slot stays selected even when the backend no longer lists it.
func (s WizardState) SlotPinned() bool {
	return s.onOriginalDate() && !s.Draft.TimeSlotID.IsZero() && s.Draft.TimeSlotID == s.Original.TimeSlot
}

// SkipsTypes reports whether the booking type step does not apply to the selected slot.
func (s WizardState) SkipsTypes() bool {
	return s.BookingSystemID.IsZero() || len(s.Types) == 0
}

func (s WizardState) slotSelectable() bool {
	if s.Draft.TimeSlotID.IsZero() {
		return false
	}
	if s.SlotPinned() {
		return true
	}
	_, ok := findSlot(s.Slots, s.Draft.TimeSlotID)
	return ok
}

func (s WizardState) CanProceed() bool {
	switch s.Phase {
	case PhaseInitial:
		return s.Draft.Date != "" && s.Draft.People >= 1 && !s.SlotsLoading
	case PhaseTimeSlotSelection:
		if s.SlotsLoading || s.TypesLoading {
			return false
		}
		if s.SlotPinned() {
			return true
		}
		if len(s.Slots) == 0 {
			return false
		}
		return s.slotSelectable()
	case PhaseBookingTypeSelection:
		return s.Draft.BookingType != "" || len(s.Types) == 0
	case PhasePersonalInfo:
		return strings.TrimSpace(s.Draft.FirstName) != "" && !s.Submitting
	default:
		return false
	}
}

// Forward returns the phase after the current one.
func (s WizardState) Forward() (Phase, error) {
	if s.Phase == PhasePersonalInfo || !s.CanProceed() {
		return s.Phase, ErrCannotProceed
	}
	switch s.Phase {
	case PhaseInitial:
		return PhaseTimeSlotSelection, nil
	case PhaseTimeSlotSelection:
		if s.SkipsTypes() {
			return PhasePersonalInfo, nil
		}
		return PhaseBookingTypeSelection, nil
	default:
		return PhasePersonalInfo, nil
	}
}

// Backward returns the phase before the current one.
func (s WizardState) Backward() Phase {
	switch s.Phase {
	case PhasePersonalInfo:
		if s.SkipsTypes() {
			return PhaseTimeSlotSelection
		}
		return PhaseBookingTypeSelection
	case PhaseBookingTypeSelection:
		return PhaseTimeSlotSelection
	default:
		return PhaseInitial
	}
}

// ChangeDate sets the draft date. Leaving the edited booking's date drops the pinned
// slot and type.
func (s *WizardState) ChangeDate(date string) {
	leavingOriginal := s.onOriginalDate() && date != s.Original.Date()
	s.Draft.Date = date
	if leavingOriginal {
		s.ClearSlot()
	}
}

// ClearSlot drops the selected slot along with everything derived from it.
func (s *WizardState) ClearSlot() {
	s.Draft.TimeSlotID = ""
	s.Draft.BookingType = ""
	s.Types = nil
	s.BookingSystemID = ""
}

// ApplySlots installs a fresh slot list. A selection missing from the list is dropped
// unless it is pinned. It returns the booking system whose types should be fetched
// for a pinned slot.
func (s *WizardState) ApplySlots(slots []TimeSlotOption) (ID, bool) {
	s.Slots = slots
	if s.Draft.TimeSlotID.IsZero() {
		return "", false
	}
	slot, listed := findSlot(slots, s.Draft.TimeSlotID)
	if s.SlotPinned() {
		system := slot.BookingSystemID
		if !listed || system.IsZero() {
			system = s.Original.BookingSystemID()
		}
		s.BookingSystemID = system
		return system, !system.IsZero()
	}
	if !listed {
		s.ClearSlot()
	}
	return "", false
}

// SelectSlot picks a listed slot and resets the type selection. Picking a slot from a
// later step returns the wizard to slot selection so the type step is walked again.
// It returns the slot's booking system, empty when the slot has none.
func (s *WizardState) SelectSlot(id ID) (ID, error) {
	slot, ok := findSlot(s.Slots, id)
	if !ok {
		return "", ErrUnknownTimeSlot
	}
	if s.Phase > PhaseTimeSlotSelection {
		s.Phase = PhaseTimeSlotSelection
	}
	s.Draft.TimeSlotID = slot.ID
	s.Draft.BookingType = ""
	s.Types = nil
	s.BookingSystemID = slot.BookingSystemID
	return slot.BookingSystemID, nil
}

// ApplyTypes installs the types of the selected slot's booking system, dropping a
// type selection the system no longer offers.
func (s *WizardState) ApplyTypes(types []BookingTypeOption) {
	s.Types = types
	if s.Draft.BookingType != "" && !hasType(types, s.Draft.BookingType) {
		s.Draft.BookingType = ""
	}
}

func (s *WizardState) SelectType(name string) error {
	if !hasType(s.Types, name) {
		return ErrUnknownBookingType
	}
	s.Draft.BookingType = name
	return nil
}

// Payload validates the draft and builds the submission body.
func (s WizardState) Payload() (BookingPayload, error) {
	if err := s.Draft.PersonalInfo.Validate(); err != nil {
		return BookingPayload{}, err
	}
	if s.Draft.People < 1 {
		return BookingPayload{}, ErrInvalidPartySize
	}
	if !s.slotSelectable() {
		return BookingPayload{}, ErrTimeSlotRequired
	}
	if s.TypesLoading {
		return BookingPayload{}, ErrCannotProceed
	}
	bookingType := s.Draft.BookingType
	if s.SkipsTypes() {
		bookingType = ""
	} else if bookingType == "" {
		return BookingPayload{}, ErrBookingTypeRequired
	}
	return BookingPayload{
		TimeSlot:    s.Draft.TimeSlotID,
		BookingType: bookingType,
		FirstName:   strings.TrimSpace(s.Draft.FirstName),
		LastName:    strings.TrimSpace(s.Draft.LastName),
		People:      s.Draft.People,
		Phone:       strings.TrimSpace(s.Draft.Phone),
		Email:       strings.TrimSpace(s.Draft.Email),
		Notes:       s.Draft.Notes,
	}, nil
}

// Clone returns a copy that shares no slices with s.
func (s WizardState) Clone() WizardState {
	cloned := s
	cloned.Slots = append([]TimeSlotOption(nil), s.Slots...)
	cloned.Types = append([]BookingTypeOption(nil), s.Types...)
	if s.Original != nil {
		original := *s.Original
		cloned.Original = &original
	}
	return cloned
}
