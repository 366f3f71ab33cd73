package domain

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// PageSize is the backend's fixed page size for restaurant and dish listings.
	PageSize        = 18
	DefaultOrdering = "-weekly_like_count"
)

// ListQuery holds the search, location and paging preferences of a catalog listing.
type ListQuery struct {
	Page     int
	Search   string
	Ordering string
	Country  string
	State    string
	City     string
	Cuisine  string
}

// Normalize returns a trimmed copy with defaults applied.
func (q ListQuery) Normalize() ListQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	normalized.Search = strings.TrimSpace(normalized.Search)
	normalized.Ordering = strings.TrimSpace(normalized.Ordering)
	if normalized.Ordering == "" {
		normalized.Ordering = DefaultOrdering
	}
	normalized.Country = strings.TrimSpace(normalized.Country)
	normalized.State = strings.TrimSpace(normalized.State)
	normalized.City = strings.TrimSpace(normalized.City)
	normalized.Cuisine = strings.TrimSpace(normalized.Cuisine)
	return normalized
}

// CanonicalKey builds a stable cache key for the query.
func (q ListQuery) CanonicalKey() string {
	normalized := q.Normalize()
	parts := map[string]string{
		"search":   strings.ToLower(normalized.Search),
		"ordering": normalized.Ordering,
		"country":  strings.ToLower(normalized.Country),
		"state":    strings.ToLower(normalized.State),
		"city":     strings.ToLower(normalized.City),
		"cuisine":  strings.ToLower(normalized.Cuisine),
	}
	keys := make([]string, 0, len(parts))
	for key, value := range parts {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString("page=")
	builder.WriteString(strconv.Itoa(normalized.Page))
	for _, key := range keys {
		builder.WriteString("&")
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(parts[key])
	}
	return builder.String()
}

// RestaurantParams is the query string of GET /api/restaurants/.
type RestaurantParams struct {
	Page     int    `url:"page"`
	Search   string `url:"search,omitempty"`
	Ordering string `url:"ordering,omitempty"`
	Country  string `url:"country,omitempty"`
	State    string `url:"state,omitempty"`
	City     string `url:"city,omitempty"`
	Cuisine  string `url:"cuisine,omitempty"`
}

// DishParams is the query string of GET /api/dishes/. Location filters go through the
// dish's restaurant.
type DishParams struct {
	Page     int    `url:"page"`
	Search   string `url:"search,omitempty"`
	Ordering string `url:"ordering,omitempty"`
	Country  string `url:"restaurant__country,omitempty"`
	State    string `url:"restaurant__state,omitempty"`
	City     string `url:"restaurant__city,omitempty"`
}

func (q ListQuery) RestaurantParams() RestaurantParams {
	n := q.Normalize()
	return RestaurantParams{Page: n.Page, Search: n.Search, Ordering: n.Ordering, Country: n.Country, State: n.State, City: n.City, Cuisine: n.Cuisine}
}

func (q ListQuery) DishParams() DishParams {
	n := q.Normalize()
	return DishParams{Page: n.Page, Search: n.Search, Ordering: n.Ordering, Country: n.Country, State: n.State, City: n.City}
}

// DishFilter narrows a restaurant's menu. The backend returns the whole menu, so
// filtering and paging happen locally.
type DishFilter struct {
	Page     int
	Search   string
	Type     string
	Course   string
	Category string
}

// Menu is one filtered page of a restaurant's dishes plus the dish types on offer.
type Menu struct {
	Dishes Page[Dish] `json:"dishes"`
	Types  []string   `json:"types"`
}

// FilterDishes applies f to dishes and returns the requested page.
func FilterDishes(dishes []Dish, f DishFilter) Menu {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	kind := strings.TrimSpace(f.Type)
	course := strings.ToLower(strings.TrimSpace(f.Course))
	category := strings.ToLower(strings.TrimSpace(f.Category))

	matched := make([]Dish, 0, len(dishes))
	for _, dish := range dishes {
		if kind != "" && dish.Type != kind {
			continue
		}
		if course != "" && (dish.Course == nil || strings.ToLower(dish.Course.Name) != course) {
			continue
		}
		if category != "" && !hasCategory(dish.Categories, category) {
			continue
		}
		if search != "" && !matchesSearch(dish, search) {
			continue
		}
		matched = append(matched, dish)
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return Menu{
		Dishes: NewPage(len(matched), page, append([]Dish(nil), matched[start:end]...)),
		Types:  DishTypes(dishes),
	}
}

// DishTypes lists the distinct dish types, sorted.
func DishTypes(dishes []Dish) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, dish := range dishes {
		if dish.Type == "" {
			continue
		}
		if _, ok := seen[dish.Type]; ok {
			continue
		}
		seen[dish.Type] = struct{}{}
		types = append(types, dish.Type)
	}
	sort.Strings(types)
	return types
}

func hasCategory(categories []Named, name string) bool {
	for _, category := range categories {
		if strings.ToLower(category.Name) == name {
			return true
		}
	}
	return false
}

func matchesSearch(dish Dish, term string) bool {
	if strings.Contains(strings.ToLower(dish.Name), term) || strings.Contains(strings.ToLower(dish.Description), term) {
		return true
	}
	if dish.Course != nil && strings.Contains(strings.ToLower(dish.Course.Name), term) {
		return true
	}
	for _, category := range dish.Categories {
		if strings.Contains(strings.ToLower(category.Name), term) {
			return true
		}
	}
	return false
}
