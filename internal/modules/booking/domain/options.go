package domain

// TimeSlotOption is one bookable slot as shown by the wizard. Diner and owner listings
// fill different counters.
type TimeSlotOption struct {
	ID              ID     `json:"id"`
	BookingSystemID ID     `json:"bookingSystemId"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	MealType        string `json:"mealType,omitempty"`
	IsOpen          bool   `json:"isOpen"`

	AvailablePeople int `json:"availablePeople,omitempty"`
	AvailableTables int `json:"availableTables,omitempty"`

	MaxPeople     int `json:"maxPeople,omitempty"`
	MaxTables     int `json:"maxTables,omitempty"`
	MinPerBooking int `json:"minPerBooking,omitempty"`
	MaxPerBooking int `json:"maxPerBooking,omitempty"`
	BookedPeople  int `json:"bookedPeople,omitempty"`
	BookedTables  int `json:"bookedTables,omitempty"`
}

type BookingTypeOption struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	BookingSystemID ID     `json:"booking_system"`
}

// SlotQuery scopes a slot listing.
type SlotQuery struct {
	RestaurantID  ID     `url:"restaurant_id,omitempty"`
	BookingSystem ID     `url:"booking_system,omitempty"`
	Date          string `url:"date,omitempty"`
	People        int    `url:"people,omitempty"`
}

// BookingFilter scopes the owner's booking board.
type BookingFilter struct {
	Date          string `url:"date,omitempty"`
	BookingSystem ID     `url:"booking_system,omitempty"`
}

func findSlot(slots []TimeSlotOption, id ID) (TimeSlotOption, bool) {
	for _, slot := range slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TimeSlotOption{}, false
}

func hasType(types []BookingTypeOption, name string) bool {
	for _, option := range types {
		if option.Name == name {
			return true
		}
	}
	return false
}
