package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kuohsuan/acg-forum/internal/model"
)

type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postScoreExpr = "(SELECT COALESCE(SUM(v.value),0) FROM votes v WHERE v.post_id = p.id)"

// Create inserts a post and returns its ID.  A foreign-key failure on
// board_id (MySQL 1452) maps to ErrNotFound so handlers can answer 404
// instead of 500 when the client names a board that does not exist.
func (r *PostRepo) Create(ctx context.Context, title, content string, ownerID, boardID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, content, owner_id, board_id) VALUES (?,?,?,?)",
		title, content, ownerID, boardID)
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

// GetByID fetches a post with its current vote score.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT p.id,p.title,p.content,p.owner_id,p.board_id,p.is_sticky,p.is_elite,"+postScoreExpr+",p.created_at,p.updated_at "+
			"FROM posts p WHERE p.id=? LIMIT 1",
		id).Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID, &p.BoardID, &p.IsSticky, &p.IsElite, &p.Score, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// List returns posts newest-first with their vote scores.  boardID 0
// means all boards.  offset/limit are passed through as-is; the
// handler clamps them.
func (r *PostRepo) List(ctx context.Context, boardID uint64, offset, limit int) ([]model.Post, error) {
	q := "SELECT p.id,p.title,p.content,p.owner_id,p.board_id,p.is_sticky,p.is_elite," + postScoreExpr + ",p.created_at,p.updated_at FROM posts p"
	args := []any{}
	if boardID != 0 {
		q += " WHERE p.board_id=?"
		args = append(args, boardID)
	}
	q += " ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID, &p.BoardID, &p.IsSticky, &p.IsElite, &p.Score, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
