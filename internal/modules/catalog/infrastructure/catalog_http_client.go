package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"meishiClient/internal/modules/catalog/domain"
	interactions "meishiClient/internal/modules/interactions/infrastructure"
	"meishiClient/internal/shared/normalization"
)

// RESTDoer is the read side of the gateway client.
type RESTDoer interface {
	Get(ctx context.Context, endpoint string, params any, out any) error
}

// CatalogHTTPClient implements port.CatalogAPI.
type CatalogHTTPClient struct {
	rest RESTDoer
}

func NewCatalogHTTPClient(rest RESTDoer) *CatalogHTTPClient {
	return &CatalogHTTPClient{rest: rest}
}

func (c *CatalogHTTPClient) ListRestaurants(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Restaurant], error) {
	params := query.RestaurantParams()
	var payload any
	if err := c.rest.Get(ctx, "/api/restaurants/", params, &payload); err != nil {
		return domain.Page[domain.Restaurant]{}, fmt.Errorf("list restaurants: %w", err)
	}
	items := normalization.ItemsFromPayload(payload, "results")
	restaurants := make([]domain.Restaurant, 0, len(items))
	for _, item := range items {
		if restaurant, ok := decodeRestaurant(normalization.AsMap(item)); ok {
			restaurants = append(restaurants, restaurant)
		}
	}
	count := pageCount(payload, len(restaurants))
	slog.Debug("catalog restaurants fetched", slog.Int("page", params.Page), slog.Int("count", count))
	return domain.NewPage(count, params.Page, restaurants), nil
}

func (c *CatalogHTTPClient) ListDishes(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Dish], error) {
	params := query.DishParams()
	var payload any
	if err := c.rest.Get(ctx, "/api/dishes/", params, &payload); err != nil {
		return domain.Page[domain.Dish]{}, fmt.Errorf("list dishes: %w", err)
	}
	dishes := decodeDishes(payload)
	count := pageCount(payload, len(dishes))
	slog.Debug("catalog dishes fetched", slog.Int("page", params.Page), slog.Int("count", count))
	return domain.NewPage(count, params.Page, dishes), nil
}

func (c *CatalogHTTPClient) GetRestaurant(ctx context.Context, id domain.ID) (*domain.Restaurant, error) {
	path, err := itemPath("/api/restaurants", id)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := c.rest.Get(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	restaurant, ok := decodeRestaurant(payload)
	if !ok {
		return nil, fmt.Errorf("get restaurant %s: payload has no id", id)
	}
	return &restaurant, nil
}

func (c *CatalogHTTPClient) GetDish(ctx context.Context, id domain.ID) (*domain.Dish, error) {
	path, err := itemPath("/api/dishes", id)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := c.rest.Get(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("get dish %s: %w", id, err)
	}
	dish, ok := decodeDish(payload)
	if !ok {
		return nil, fmt.Errorf("get dish %s: payload has no id", id)
	}
	return &dish, nil
}

func (c *CatalogHTTPClient) RestaurantDishes(ctx context.Context, restaurantID domain.ID) ([]domain.Dish, error) {
	base, err := itemPath("/api/restaurants", restaurantID)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := c.rest.Get(ctx, base+"dishes/", nil, &payload); err != nil {
		return nil, fmt.Errorf("list dishes of restaurant %s: %w", restaurantID, err)
	}
	return decodeDishes(payload), nil
}

func itemPath(base string, id domain.ID) (string, error) {
	identifier := strings.TrimSpace(id.String())
	if identifier == "" {
		return "", fmt.Errorf("missing identifier for %s", base)
	}
	return base + "/" + url.PathEscape(identifier) + "/", nil
}

func pageCount(payload any, fallback int) int {
	if envelope := normalization.AsMap(payload); envelope != nil {
		if _, ok := envelope["count"]; ok {
			return normalization.AsInt(envelope["count"])
		}
	}
	return fallback
}

func decodeDishes(payload any) []domain.Dish {
	items := normalization.ItemsFromPayload(payload, "results")
	dishes := make([]domain.Dish, 0, len(items))
	for _, item := range items {
		if dish, ok := decodeDish(normalization.AsMap(item)); ok {
			dishes = append(dishes, dish)
		}
	}
	return dishes
}

func decodeRestaurant(entry map[string]any) (domain.Restaurant, bool) {
	id := normalization.AsID(entry["id"])
	if id.IsZero() {
		return domain.Restaurant{}, false
	}
	return domain.Restaurant{
		ID:            id,
		Name:          normalization.AsString(entry["name"]),
		Description:   normalization.AsString(entry["description"]),
		Country:       normalization.AsString(entry["country"]),
		State:         normalization.AsString(entry["state"]),
		City:          normalization.AsString(entry["city"]),
		Postal:        normalization.AsString(entry["postal"]),
		Street:        normalization.AsString(entry["street"]),
		ContactNumber: normalization.AsString(entry["contact_number"]),
		ContactEmail:  normalization.AsString(entry["contact_email"]),
		Website:       normalization.AsString(entry["website_link"]),
		Cuisine:       decodeNamed(entry["cuisine"]),
		Currency:      normalization.AsString(entry["currency"]),
		Timezone:      normalization.AsString(entry["timezone"]),
		Interaction:   interactions.DecodeState(entry),
	}, true
}

func decodeDish(entry map[string]any) (domain.Dish, bool) {
	id := normalization.AsID(entry["id"])
	if id.IsZero() {
		return domain.Dish{}, false
	}
	dish := domain.Dish{
		ID:             id,
		Name:           normalization.AsString(entry["name"]),
		Description:    normalization.AsString(entry["description"]),
		Price:          normalization.AsString(entry["price"]),
		Currency:       normalization.AsString(entry["currency"]),
		RestaurantID:   normalization.AsID(entry["restaurant"]),
		RestaurantName: normalization.AsString(entry["restaurant_name"]),
		City:           normalization.AsString(entry["city"]),
		Country:        normalization.AsString(entry["country"]),
		Type:           normalization.AsString(entry["type"]),
		Course:         decodeNamed(entry["course"]),
		Interaction:    interactions.DecodeState(entry),
	}
	for _, raw := range normalization.AsInterfaceSlice(entry["categories"]) {
		if category := decodeNamed(raw); category != nil {
			dish.Categories = append(dish.Categories, *category)
		}
	}
	return dish, true
}

func decodeNamed(value any) *domain.Named {
	entry := normalization.AsMap(value)
	if entry == nil {
		return nil
	}
	name := normalization.AsString(entry["name"])
	if name == "" {
		return nil
	}
	return &domain.Named{ID: normalization.AsID(entry["id"]), Name: name}
}
