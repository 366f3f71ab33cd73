package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meishiClient/internal/modules/catalog/application/port"
	"meishiClient/internal/modules/catalog/domain"
	gateway "meishiClient/internal/modules/gateway/domain"
	interactions "meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/shared/notify"
)

const noticeSource = "catalog"

// CatalogUseCase serves restaurant and dish listings. Every listed entity is seeded
// into the shared interaction store, and the returned items carry the store's state so
// a toggle in flight is never shown as reverted.
type CatalogUseCase struct {
	api      port.CatalogAPI
	store    port.InteractionSeeder
	notifier notify.Notifier
	cache    *pageCache
}

func NewCatalogUseCase(api port.CatalogAPI, store port.InteractionSeeder, notifier notify.Notifier) *CatalogUseCase {
	return &CatalogUseCase{api: api, store: store, notifier: notifier, cache: newPageCache()}
}

func (uc *CatalogUseCase) ListRestaurants(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Restaurant], error) {
	key := query.CanonicalKey()
	page, err := uc.api.ListRestaurants(ctx, query)
	if err != nil {
		if stale, fetchedAt, ok := cached[domain.Page[domain.Restaurant]](uc.cache, scopeRestaurants, key); ok {
			uc.serveStale(ctx, scopeRestaurants, key, fetchedAt, err)
			stale = clonePage(stale)
			stale.Stale = true
			uc.overlayRestaurants(stale.Results)
			return stale, nil
		}
		uc.fail(ctx, err)
		return domain.Page[domain.Restaurant]{}, err
	}
	uc.seedRestaurants(page.Results)
	uc.cache.set(scopeRestaurants, key, clonePage(page))
	return page, nil
}

func (uc *CatalogUseCase) ListDishes(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Dish], error) {
	key := query.CanonicalKey()
	page, err := uc.api.ListDishes(ctx, query)
	if err != nil {
		if stale, fetchedAt, ok := cached[domain.Page[domain.Dish]](uc.cache, scopeDishes, key); ok {
			uc.serveStale(ctx, scopeDishes, key, fetchedAt, err)
			stale = clonePage(stale)
			stale.Stale = true
			uc.overlayDishes(stale.Results)
			return stale, nil
		}
		uc.fail(ctx, err)
		return domain.Page[domain.Dish]{}, err
	}
	uc.seedDishes(page.Results)
	uc.cache.set(scopeDishes, key, clonePage(page))
	return page, nil
}

func (uc *CatalogUseCase) GetRestaurant(ctx context.Context, id domain.ID) (*domain.Restaurant, error) {
	restaurant, err := uc.api.GetRestaurant(ctx, id)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	items := []domain.Restaurant{*restaurant}
	uc.seedRestaurants(items)
	return &items[0], nil
}

func (uc *CatalogUseCase) GetDish(ctx context.Context, id domain.ID) (*domain.Dish, error) {
	dish, err := uc.api.GetDish(ctx, id)
	if err != nil {
		uc.fail(ctx, err)
		return nil, err
	}
	items := []domain.Dish{*dish}
	uc.seedDishes(items)
	return &items[0], nil
}

// RestaurantDishes returns one filtered page of a restaurant's menu.
func (uc *CatalogUseCase) RestaurantDishes(ctx context.Context, restaurantID domain.ID, filter domain.DishFilter) (domain.Menu, error) {
	key := restaurantID.String()
	dishes, err := uc.api.RestaurantDishes(ctx, restaurantID)
	stale := false
	if err != nil {
		cachedDishes, fetchedAt, ok := cached[[]domain.Dish](uc.cache, scopeMenu, key)
		if !ok {
			uc.fail(ctx, err)
			return domain.Menu{}, err
		}
		uc.serveStale(ctx, scopeMenu, key, fetchedAt, err)
		dishes = append([]domain.Dish(nil), cachedDishes...)
		uc.overlayDishes(dishes)
		stale = true
	} else {
		uc.seedDishes(dishes)
		uc.cache.set(scopeMenu, key, append([]domain.Dish(nil), dishes...))
	}

	menu := domain.FilterDishes(dishes, filter)
	menu.Dishes.Stale = stale
	return menu, nil
}

func (uc *CatalogUseCase) seedRestaurants(items []domain.Restaurant) {
	for i := range items {
		items[i].Interaction = uc.seed(items[i].Ref(), items[i].Interaction)
	}
}

func (uc *CatalogUseCase) seedDishes(items []domain.Dish) {
	for i := range items {
		items[i].Interaction = uc.seed(items[i].Ref(), items[i].Interaction)
	}
}

func (uc *CatalogUseCase) overlayRestaurants(items []domain.Restaurant) {
	if uc.store == nil {
		return
	}
	for i := range items {
		if state, ok := uc.store.Get(items[i].Ref()); ok {
			items[i].Interaction = state
		}
	}
}

func (uc *CatalogUseCase) overlayDishes(items []domain.Dish) {
	if uc.store == nil {
		return
	}
	for i := range items {
		if state, ok := uc.store.Get(items[i].Ref()); ok {
			items[i].Interaction = state
		}
	}
}

// seed installs state unless a toggle is in flight, and returns what the store holds.
func (uc *CatalogUseCase) seed(ref interactions.EntityRef, state interactions.State) interactions.State {
	if uc.store == nil {
		return state
	}
	if uc.store.Seed(ref, state) {
		return state
	}
	if current, ok := uc.store.Get(ref); ok {
		return current
	}
	return state
}

func (uc *CatalogUseCase) serveStale(ctx context.Context, scope, key string, fetchedAt time.Time, err error) {
	slog.Warn("catalog serving cached page", slog.String("scope", scope), slog.String("key", key), slog.Time("fetchedAt", fetchedAt), slog.Any("error", err))
	uc.fail(ctx, err)
}

func (uc *CatalogUseCase) fail(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	notify.Error(ctx, uc.notifier, noticeSource, gateway.UserMessage(err))
}

func clonePage[T any](page domain.Page[T]) domain.Page[T] {
	cloned := page
	cloned.Results = append([]T(nil), page.Results...)
	return cloned
}
