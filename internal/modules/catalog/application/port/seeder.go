package port

import interactions "meishiClient/internal/modules/interactions/domain"

// InteractionSeeder is the part of the shared interaction store listings write into.
type InteractionSeeder interface {
	Seed(ref interactions.EntityRef, state interactions.State) bool
	Get(ref interactions.EntityRef) (interactions.State, bool)
}
