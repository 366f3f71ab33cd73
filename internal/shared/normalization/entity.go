package normalization

import "strings"

// entityAliases maps the singular, plural and snake-case spellings used by the
// backend and by UI callers to one canonical plural form.
var entityAliases = map[string]string{
	"restaurant":  "restaurants",
	"restaurants": "restaurants",

	"dish":   "dishes",
	"dishes": "dishes",

	"booking":  "bookings",
	"bookings": "bookings",

	"time-slot":  "time-slots",
	"time-slots": "time-slots",
	"timeslot":   "time-slots",
	"timeslots":  "time-slots",

	"booking-type":  "booking-types",
	"booking-types": "booking-types",

	"booking-system":  "booking-systems",
	"booking-systems": "booking-systems",
}

var singularForms = map[string]string{
	"restaurants":     "restaurant",
	"dishes":          "dish",
	"bookings":        "booking",
	"time-slots":      "time_slot",
	"booking-types":   "booking_type",
	"booking-systems": "booking_system",
}

// NormalizeEntity converts entity names to their canonical plural form.
//
//	NormalizeEntity("Dish")          => "dishes"
//	NormalizeEntity("booking_types") => "booking-types"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// SingularField returns the request body field naming one entity, e.g. "dish".
func SingularField(raw string) string {
	return singularForms[NormalizeEntity(raw)]
}

func IsValidEntity(raw string) bool {
	_, ok := singularForms[NormalizeEntity(raw)]
	return ok
}
