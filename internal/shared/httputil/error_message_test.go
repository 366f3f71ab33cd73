package httputil

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
)

func TestExtractMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		body     string
		fallback string
		want     []string
	}{
		{name: "detail field", body: `{"detail":"Given token not valid"}`, want: []string{"Given token not valid"}},
		{name: "error before message", body: `{"message":"m","error":"e"}`, want: []string{"e"}},
		{name: "errors list", body: `{"errors":["a","b"]}`, want: []string{"a, b"}},
		{name: "array body", body: `["'Slot' is full","[closed]"]`, want: []string{"Slot is full, closed"}},
		{name: "field errors", body: `{"status":400,"time_slot":["This field is required."],"email":["Enter a valid email."]}`, want: []string{"Enter a valid email.", "This field is required."}},
		{name: "empty detail falls through", body: `{"detail":"","people":["Too many"]}`, want: []string{"Too many"}},
		{name: "json string", body: `"booking closed"`, want: []string{"booking closed"}},
		{name: "plain text", body: `bad gateway`, want: []string{"bad gateway"}},
		{name: "html uses fallback", body: `<html></html>`, fallback: "request failed", want: []string{"request failed"}},
		{name: "empty uses generic", body: ``, want: []string{GenericErrorMessage}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractMessages([]byte(tc.body), tc.fallback)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractMessages(%s) = %#v, want %#v", tc.body, got, tc.want)
			}
		})
	}
}

func TestErrorMapperResolverAndMappings(t *testing.T) {
	t.Parallel()

	errBusy := errors.New("busy")
	errTyped := errors.New("typed")
	mapper := NewErrorMapper().
		WithMapping(errBusy, http.StatusConflict, "").
		WithResolver(func(err error) (HTTPErrorInfo, bool) {
			if errors.Is(err, errTyped) {
				return HTTPErrorInfo{Status: http.StatusTeapot, Message: "typed"}, true
			}
			return HTTPErrorInfo{}, false
		})

	if info := mapper.Map(errBusy); info.Status != http.StatusConflict || info.Message != "busy" {
		t.Fatalf("unexpected mapping %+v", info)
	}
	if info := mapper.Map(errTyped); info.Status != http.StatusTeapot {
		t.Fatalf("expected resolver status, got %+v", info)
	}
	if info := mapper.Map(errors.New("other")); info.Status != http.StatusInternalServerError {
		t.Fatalf("expected default status, got %+v", info)
	}
}
