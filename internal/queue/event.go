// Package queue defines message payloads exchanged over the message broker.
package queue

// PostCreatedEvent is published when a post is successfully created.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type PostCreatedEvent struct {
	PostID     uint64 `json:"post_id"`
	BoardID    uint64 `json:"board_id"`
	BoardName  string `json:"board_name"`
	AuthorID   uint64 `json:"author_id"`
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
}
