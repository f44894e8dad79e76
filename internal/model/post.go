package model

import "time"

// Post is a forum thread (`posts` table).  Score is not a column; it
// is the sum of vote values computed at query time.
type Post struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   uint64    `json:"owner_id"`
	BoardID   uint64    `json:"board_id"`
	IsSticky  bool      `json:"is_sticky"`
	IsElite   bool      `json:"is_elite"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a reply on a post (`comments` table).
type Comment struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	OwnerID   uint64    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote records a single user's up/down vote on a post (`votes` table).
// Value is +1 or -1; the (post_id, user_id) primary key means casting
// again replaces the previous vote.
type Vote struct {
	PostID    uint64    `json:"post_id"`
	UserID    uint64    `json:"user_id"`
	Value     int8      `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
