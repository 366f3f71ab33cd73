package domain

import (
	"errors"
	"strings"

	"meishiClient/internal/shared/normalization"
)

type ID = normalization.ID

var (
	ErrUnknownEntity = errors.New("interactions are only supported for dishes and restaurants")
	ErrUnknownAction = errors.New("action must be like, dislike or favorite")
	ErrMissingEntity = errors.New("entity id is required")
	// ErrMissingRecord is returned when an update or delete is planned but the id of
	// the record to change was never learned.
	ErrMissingRecord = errors.New("interaction record id is unknown")
	// ErrBusy is returned while another request for the same entity is in flight.
	ErrBusy = errors.New("an interaction for this entity is already in progress")
	// ErrMissingCreatedID is returned when a create succeeds without naming the new record.
	ErrMissingCreatedID = errors.New("created interaction has no id")
)

// EntityKind is the plural resource name used in interaction endpoints.
type EntityKind string

const (
	KindDish       EntityKind = "dishes"
	KindRestaurant EntityKind = "restaurants"
)

func ParseEntityKind(raw string) (EntityKind, error) {
	switch kind := EntityKind(normalization.NormalizeEntity(raw)); kind {
	case KindDish, KindRestaurant:
		return kind, nil
	default:
		return "", ErrUnknownEntity
	}
}

// Field is the request body field naming the entity, e.g. "dish".
func (k EntityKind) Field() string {
	return normalization.SingularField(string(k))
}

// EntityRef identifies one dish or restaurant.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   ID         `json:"id"`
}

func NewEntityRef(kind string, id any) (EntityRef, error) {
	parsed, err := ParseEntityKind(kind)
	if err != nil {
		return EntityRef{}, err
	}
	ref := EntityRef{Kind: parsed, ID: normalization.AsID(id)}
	if ref.ID.IsZero() {
		return EntityRef{}, ErrMissingEntity
	}
	return ref, nil
}

// Key is the store key, e.g. "dishes:5".
func (r EntityRef) Key() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// State is the viewer's relationship with one entity plus its public counters.
type State struct {
	IsLiked      bool `json:"isLiked"`
	IsDisliked   bool `json:"isDisliked"`
	LikeCount    int  `json:"likeCount"`
	DislikeCount int  `json:"dislikeCount"`
	IsFavorite   bool `json:"isFavorite"`
	ReactionID   ID   `json:"likeDislikeId,omitempty"`
	FavoriteID   ID   `json:"favoriteId,omitempty"`
}

type Action string

const (
	ActionLike     Action = "like"
	ActionDislike  Action = "dislike"
	ActionFavorite Action = "favorite"
)

func ParseAction(raw string) (Action, error) {
	switch action := Action(strings.ToLower(strings.TrimSpace(raw))); action {
	case ActionLike, ActionDislike, ActionFavorite:
		return action, nil
	default:
		return "", ErrUnknownAction
	}
}
