// Package events defines the domain events Shortify emits.
package events

import "time"

// TopicLinkCreated is the stream link-created events are published on.
const TopicLinkCreated = "link.created"

// LinkCreated is emitted once for every short link that is stored.
type LinkCreated struct {
	Slug      string    `json:"slug"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
	ClientID  string    `json:"clientId"`
	RequestID string    `json:"requestId,omitempty"`
}
