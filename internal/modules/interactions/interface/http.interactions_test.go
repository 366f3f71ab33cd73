package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	gateway "meishiClient/internal/modules/gateway/domain"
	"meishiClient/internal/modules/interactions/application/usecase"
	"meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/modules/interactions/infrastructure"
)

type stubInteractionAPI struct {
	err error
}

func (s stubInteractionAPI) Execute(_ context.Context, _ domain.EntityRef, op domain.Operation) (domain.ID, error) {
	if s.err != nil {
		return "", s.err
	}
	if op.Kind == domain.OpCreate {
		return "70", nil
	}
	return op.RecordID, nil
}

func newInteractionServer(api stubInteractionAPI) (*echo.Echo, *infrastructure.MemoryStore) {
	store := infrastructure.NewMemoryStore()
	e := echo.New()
	NewInteractionHandler(usecase.NewToggleUseCase(api, store, nil)).Register(e.Group("/api"))
	return e, store
}

func post(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func TestInteractionRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		api        stubInteractionAPI
		target     string
		wantStatus int
		wantLikes  int
	}{
		{"like dish", stubInteractionAPI{}, "/api/interactions/dish/5/like", http.StatusOK, 1},
		{"plural entity", stubInteractionAPI{}, "/api/interactions/restaurants/5/like", http.StatusOK, 1},
		{"unknown entity", stubInteractionAPI{}, "/api/interactions/menus/5/like", http.StatusBadRequest, 0},
		{"unknown action", stubInteractionAPI{}, "/api/interactions/dish/5/love", http.StatusBadRequest, 0},
		{"backend error", stubInteractionAPI{err: &gateway.APIError{Status: http.StatusBadRequest, Message: "Already liked."}}, "/api/interactions/dish/5/like", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newInteractionServer(tt.api)
			rec := post(e, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body stateResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.State.LikeCount != tt.wantLikes || !body.State.IsLiked || body.State.ReactionID != "70" {
				t.Fatalf("unexpected state %+v", body.State)
			}
		})
	}
}

func TestInteractionStateReadsStore(t *testing.T) {
	t.Parallel()

	e, store := newInteractionServer(stubInteractionAPI{})
	store.Seed(domain.EntityRef{Kind: domain.KindRestaurant, ID: "8"}, domain.State{IsFavorite: true, FavoriteID: "2"})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/interactions/restaurant/8", nil))
	var body stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Entity != "restaurants" || !body.State.IsFavorite {
		t.Fatalf("unexpected response %+v", body)
	}
}
