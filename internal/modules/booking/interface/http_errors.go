package transport

import (
	"errors"
	"net/http"

	"meishiClient/internal/modules/booking/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	"meishiClient/internal/shared/httputil"
)

// inputErrors are rejected before anything is sent to the backend.
var inputErrors = []httputil.ErrorMapping{
	{Error: domain.ErrFirstNameRequired, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrFirstNameTooLong, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrLastNameTooLong, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidPartySize, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidDate, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrTimeSlotRequired, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrBookingTypeRequired, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrUnknownTimeSlot, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrUnknownBookingType, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidStatus, Status: http.StatusBadRequest},
	{Error: domain.ErrMissingRestaurant, Status: http.StatusBadRequest},
	{Error: domain.ErrMissingBookingSystem, Status: http.StatusBadRequest},
	{Error: domain.ErrInvalidMealType, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrBookingTypeNameRequired, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrBookingTypeNameTooLong, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidWeekday, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidTime, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidTimeRange, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrInvalidCapacity, Status: http.StatusUnprocessableEntity},
	{Error: domain.ErrEmptyPatch, Status: http.StatusBadRequest},
	{Error: domain.ErrCannotProceed, Status: http.StatusConflict},
	{Error: domain.ErrSubmissionInFlight, Status: http.StatusConflict},
	{Error: domain.ErrWizardClosed, Status: http.StatusConflict},
	{Error: domain.ErrWizardNotFound, Status: http.StatusNotFound},
}

func newErrorMapper() *httputil.ErrorMapper {
	return gatewayhttp.NewErrorMapper(inputErrors...)
}

// isInputError reports whether err was raised locally rather than by a fetch.
func isInputError(err error) bool {
	for _, mapping := range inputErrors {
		if errors.Is(err, mapping.Error) {
			return true
		}
	}
	return false
}
