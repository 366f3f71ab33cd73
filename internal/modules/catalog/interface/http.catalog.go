package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/catalog/application/usecase"
	"meishiClient/internal/modules/catalog/domain"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	"meishiClient/internal/shared/httputil"
)

type CatalogHandler struct {
	catalog *usecase.CatalogUseCase
	errors  *httputil.ErrorMapper
}

func NewCatalogHandler(catalog *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, errors: gatewayhttp.NewErrorMapper()}
}

func (h *CatalogHandler) Register(g *echo.Group) {
	g.GET("/restaurants", h.listRestaurants)
	g.GET("/restaurants/:id", h.restaurant)
	g.GET("/restaurants/:id/dishes", h.menu)
	g.GET("/dishes", h.listDishes)
	g.GET("/dishes/:id", h.dish)
}

func bindListQuery(c echo.Context) (domain.ListQuery, error) {
	var q domain.ListQuery
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		String("search", &q.Search).
		String("ordering", &q.Ordering).
		String("country", &q.Country).
		String("state", &q.State).
		String("city", &q.City).
		String("cuisine", &q.Cuisine).
		BindError()
	return q, err
}

func (h *CatalogHandler) listRestaurants(c echo.Context) error {
	query, err := bindListQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	page, err := h.catalog.ListRestaurants(c.Request().Context(), query)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) listDishes(c echo.Context) error {
	query, err := bindListQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	page, err := h.catalog.ListDishes(c.Request().Context(), query)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) restaurant(c echo.Context) error {
	restaurant, err := h.catalog.GetRestaurant(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *CatalogHandler) dish(c echo.Context) error {
	dish, err := h.catalog.GetDish(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, dish)
}

func (h *CatalogHandler) menu(c echo.Context) error {
	var filter domain.DishFilter
	err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		String("search", &filter.Search).
		String("type", &filter.Type).
		String("course", &filter.Course).
		String("category", &filter.Category).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	menu, err := h.catalog.RestaurantDishes(c.Request().Context(), domain.ID(c.Param("id")), filter)
	if err != nil {
		return gatewayhttp.WriteError(c, h.errors, err)
	}
	return c.JSON(http.StatusOK, menu)
}
