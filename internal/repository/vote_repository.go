package repository

import (
	"context"
	"database/sql"
	"strings"
)

type VoteRepo struct{ DB *sql.DB }

func NewVoteRepo(db *sql.DB) *VoteRepo { return &VoteRepo{DB: db} }

// Cast records or replaces a user's vote on a post.  The upsert runs
// entirely inside MySQL via the (post_id, user_id) primary key, so two
// concurrent casts by the same user serialize at the storage layer —
// the same strategy the account resolver relies on for emails.
func (r *VoteRepo) Cast(ctx context.Context, postID, userID uint64, value int8) error {
	if value != 1 && value != -1 {
		return ErrInvalidVote
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO votes (post_id, user_id, value) VALUES (?,?,?) ON DUPLICATE KEY UPDATE value=VALUES(value)",
		postID, userID, value)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1452") {
		return ErrNotFound
	}
	return err
}

// ScoreByPost sums the vote values for a post.
func (r *VoteRepo) ScoreByPost(ctx context.Context, postID uint64) (int64, error) {
	var score int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(value),0) FROM votes WHERE post_id=?",
		postID).Scan(&score)
	return score, err
}
