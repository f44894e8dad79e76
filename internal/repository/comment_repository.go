package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kuohsuan/acg-forum/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and returns its ID.  Commenting on a
// nonexistent post trips the foreign key (1452) and maps to ErrNotFound.
func (r *CommentRepo) Create(ctx context.Context, postID, ownerID uint64, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, owner_id, content) VALUES (?,?,?)",
		postID, ownerID, content)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			return 0, ErrNotFound
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByPost returns a post's comments oldest-first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,post_id,owner_id,content,created_at FROM comments WHERE post_id=? ORDER BY created_at, id",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.OwnerID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
