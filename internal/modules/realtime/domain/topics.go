package domain

import "strings"

const (
	SystemEntity       = "system"
	InteractionsEntity = "interactions"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"
	TopicSystemNotice    = SystemEntity + ".notice"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionNotice    = "notice"
	ActionUpdated   = "updated"
	ActionToggled   = "toggled"

	MetadataSessionID = "sessionId"
	MetadataUserID    = "userId"
)

// InteractionTopic is the per-entity topic, e.g. "interactions.dishes:5".
func InteractionTopic(key string) string {
	return buildEntityTopic(InteractionsEntity, key)
}

// IsInteractionTopic reports whether topic names one entity's interaction feed.
func IsInteractionTopic(topic string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(topic), InteractionsEntity+".")
	if !ok {
		return false
	}
	kind, id, found := strings.Cut(rest, ":")
	return found && kind != "" && id != ""
}

// Subscribable reports whether clients may subscribe to topic.
func Subscribable(topic string) bool {
	return topic == TopicSystemNotice || IsInteractionTopic(topic)
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	return buildEntityTopic(entity, action)
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
