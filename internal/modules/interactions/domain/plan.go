package domain

// Target is the backend record family an operation touches.
type Target string

const (
	TargetReaction Target = "likes-dislikes"
	TargetFavorite Target = "favorites"
)

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Operation is the network call that makes an optimistic change durable.
type Operation struct {
	Target Target
	Kind   OpKind
	// RecordID is set for updates and deletes.
	RecordID ID
	// ReactionType is "like" or "dislike" for reaction creates and updates.
	ReactionType Action
}

// Plan computes the optimistic next state for action along with the call that
// persists it. Like and dislike are mutually exclusive; favorite is independent.
func Plan(current State, action Action) (State, Operation, error) {
	switch action {
	case ActionLike:
		return planReaction(current, true)
	case ActionDislike:
		return planReaction(current, false)
	case ActionFavorite:
		return planFavorite(current)
	default:
		return current, Operation{}, ErrUnknownAction
	}
}

func planReaction(current State, like bool) (State, Operation, error) {
	next := current
	op := Operation{Target: TargetReaction}
	reaction := ActionDislike
	if like {
		reaction = ActionLike
	}
	active, opposite := current.IsLiked, current.IsDisliked
	if !like {
		active, opposite = current.IsDisliked, current.IsLiked
	}

	switch {
	case active:
		if current.ReactionID.IsZero() {
			return current, Operation{}, ErrMissingRecord
		}
		op.Kind, op.RecordID = OpDelete, current.ReactionID
		next.ReactionID = ""
		next.adjust(like, -1)
		next.setReaction(like, false)
	case opposite:
		if current.ReactionID.IsZero() {
			return current, Operation{}, ErrMissingRecord
		}
		op.Kind, op.RecordID, op.ReactionType = OpUpdate, current.ReactionID, reaction
		next.adjust(like, +1)
		next.adjust(!like, -1)
		next.setReaction(like, true)
		next.setReaction(!like, false)
	default:
		op.Kind, op.ReactionType = OpCreate, reaction
		next.adjust(like, +1)
		next.setReaction(like, true)
	}
	return next, op, nil
}

func planFavorite(current State) (State, Operation, error) {
	next := current
	op := Operation{Target: TargetFavorite}
	if current.IsFavorite {
		if current.FavoriteID.IsZero() {
			return current, Operation{}, ErrMissingRecord
		}
		op.Kind, op.RecordID = OpDelete, current.FavoriteID
		next.IsFavorite = false
		next.FavoriteID = ""
		return next, op, nil
	}
	op.Kind = OpCreate
	next.IsFavorite = true
	return next, op, nil
}

func (s *State) adjust(like bool, delta int) {
	if like {
		s.LikeCount += delta
	} else {
		s.DislikeCount += delta
	}
}

func (s *State) setReaction(like, value bool) {
	if like {
		s.IsLiked = value
	} else {
		s.IsDisliked = value
	}
}

// Commit folds the id of a freshly created record into the optimistic state.
func (s *State) Commit(op Operation, createdID ID) {
	if op.Kind != OpCreate {
		return
	}
	switch op.Target {
	case TargetReaction:
		s.ReactionID = createdID
	case TargetFavorite:
		s.FavoriteID = createdID
	}
}
