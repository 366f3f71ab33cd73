package domain

import "errors"

var (
	ErrFirstNameRequired    = errors.New("First name is required")
	ErrFirstNameTooLong     = errors.New("First name must be at most 20 characters")
	ErrLastNameTooLong      = errors.New("Last name must be at most 30 characters")
	ErrInvalidPartySize     = errors.New("Number of people must be at least 1")
	ErrInvalidDate          = errors.New("Date must use the YYYY-MM-DD format")
	ErrTimeSlotRequired     = errors.New("Please select a time slot")
	ErrBookingTypeRequired  = errors.New("Please select a booking type")
	ErrUnknownTimeSlot      = errors.New("time slot is not in the current list")
	ErrUnknownBookingType   = errors.New("booking type is not offered for this time slot")
	ErrCannotProceed        = errors.New("cannot proceed from the current step")
	ErrSubmissionInFlight   = errors.New("booking submission already in progress")
	ErrWizardClosed         = errors.New("booking wizard is closed")
	ErrWizardNotFound       = errors.New("booking wizard not found")
	ErrInvalidStatus        = errors.New("unknown booking status")
	ErrMissingRestaurant    = errors.New("restaurant id is required")
	ErrMissingBookingSystem = errors.New("booking system id is required")

	ErrInvalidMealType         = errors.New("Meal type must be breakfast, lunch, dinner, brunch or general")
	ErrBookingTypeNameRequired = errors.New("Booking type name is required")
	ErrBookingTypeNameTooLong  = errors.New("Booking type name must be at most 20 characters")
	ErrInvalidWeekday          = errors.New("Weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidTime             = errors.New("Time must use the HH:MM format")
	ErrInvalidTimeRange        = errors.New("End time must be after start time with a positive interval")
	ErrInvalidCapacity         = errors.New("Capacities must be at least 1 and max must not be below min")
	ErrEmptyPatch              = errors.New("nothing to update")
)
