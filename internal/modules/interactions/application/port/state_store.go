package port

import "meishiClient/internal/modules/interactions/domain"

// Listener observes state changes of one entity.
type Listener func(ref domain.EntityRef, state domain.State)

// StateStore is the shared, entity-keyed interaction state every view reads from.
type StateStore interface {
	Get(ref domain.EntityRef) (domain.State, bool)
	// Seed installs server state unless a toggle for ref is in flight.
	Seed(ref domain.EntityRef, state domain.State) bool
	// Acquire marks ref busy and returns its current state, or domain.ErrBusy.
	Acquire(ref domain.EntityRef) (domain.State, error)
	// Set replaces the state of an acquired entry.
	Set(ref domain.EntityRef, state domain.State)
	Release(ref domain.EntityRef)
	Subscribe(ref domain.EntityRef, fn Listener) (cancel func())
	SubscribeAll(fn Listener) (cancel func())
}
