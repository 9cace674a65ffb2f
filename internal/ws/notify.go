package ws

import (
	"encoding/json"
	"fmt"
)

func UserTopic(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func AnonTopic(anonID string) string {
	return "anon:" + anonID
}

// PublishJSON encodes v and publishes it to topic.
func (h *Hub) PublishJSON(topic string, v any) error {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode ws event: %w", err)
	}
	h.Publish(topic, b)
	return nil
}
