package port

import (
	"context"

	"meishiClient/internal/modules/catalog/domain"
)

type CatalogAPI interface {
	ListRestaurants(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Restaurant], error)
	ListDishes(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Dish], error)
	GetRestaurant(ctx context.Context, id domain.ID) (*domain.Restaurant, error)
	GetDish(ctx context.Context, id domain.ID) (*domain.Dish, error)
	RestaurantDishes(ctx context.Context, restaurantID domain.ID) ([]domain.Dish, error)
}
