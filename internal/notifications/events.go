package notifications

import (
	"encoding/json"
	"fmt"
)

// BlogEventsChannel is the Redis channel blog events are fanned out on.
const BlogEventsChannel = "blogs:events"

// Blog event types.
const (
	BlogCreated   = "blog_created"
	BlogUpdated   = "blog_updated"
	BlogDeleted   = "blog_deleted"
	BlogLiked     = "blog_liked"
	BlogCommented = "blog_commented"
)

// Event is the envelope pushed to WebSocket subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode renders the event as JSON.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return data, nil
}
