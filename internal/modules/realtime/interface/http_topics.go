package transport

import (
	"strings"

	domain "meishiClient/internal/modules/realtime/domain"
)

// parseTopics splits a comma separated topic list. system.notice is always
// included; unknown topics are returned separately.
func parseTopics(raw string) (topics, rejected []string) {
	topics = []string{domain.TopicSystemNotice}
	seen := map[string]struct{}{domain.TopicSystemNotice: {}}
	for _, part := range strings.Split(raw, ",") {
		topic := strings.TrimSpace(part)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		if !domain.Subscribable(topic) {
			rejected = append(rejected, topic)
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics, rejected
}
