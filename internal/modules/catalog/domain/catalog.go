package domain

import (
	interactions "meishiClient/internal/modules/interactions/domain"
	"meishiClient/internal/shared/normalization"
)

type ID = normalization.ID

// Named is a small lookup entity such as a cuisine, course or category.
type Named struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Restaurant struct {
	ID            ID                 `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Country       string             `json:"country,omitempty"`
	State         string             `json:"state,omitempty"`
	City          string             `json:"city,omitempty"`
	Postal        string             `json:"postal,omitempty"`
	Street        string             `json:"street,omitempty"`
	ContactNumber string             `json:"contactNumber,omitempty"`
	ContactEmail  string             `json:"contactEmail,omitempty"`
	Website       string             `json:"website,omitempty"`
	Cuisine       *Named             `json:"cuisine,omitempty"`
	Currency      string             `json:"currency,omitempty"`
	Timezone      string             `json:"timezone,omitempty"`
	Interaction   interactions.State `json:"interaction"`
}

func (r Restaurant) Ref() interactions.EntityRef {
	return interactions.EntityRef{Kind: interactions.KindRestaurant, ID: r.ID}
}

type Dish struct {
	ID             ID                 `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Price          string             `json:"price,omitempty"`
	Currency       string             `json:"currency,omitempty"`
	RestaurantID   ID                 `json:"restaurantId"`
	RestaurantName string             `json:"restaurantName,omitempty"`
	City           string             `json:"city,omitempty"`
	Country        string             `json:"country,omitempty"`
	Type           string             `json:"type,omitempty"`
	Course         *Named             `json:"course,omitempty"`
	Categories     []Named            `json:"categories,omitempty"`
	Interaction    interactions.State `json:"interaction"`
}

func (d Dish) Ref() interactions.EntityRef {
	return interactions.EntityRef{Kind: interactions.KindDish, ID: d.ID}
}

// Page is one page of a listing. Stale is set when the page was served from cache
// because the backend could not be reached.
type Page[T any] struct {
	Count      int  `json:"count"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	Results    []T  `json:"results"`
	Stale      bool `json:"stale,omitempty"`
}

// NewPage fills in the derived page count.
func NewPage[T any](count, page int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Page: page, TotalPages: TotalPages(count), Results: results}
}

func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}
