package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kuohsuan/acg-forum/internal/model"
)

type BoardRepo struct{ DB *sql.DB }

func NewBoardRepo(db *sql.DB) *BoardRepo { return &BoardRepo{DB: db} }

// List returns all boards ordered by id.
func (r *BoardRepo) List(ctx context.Context) ([]model.Board, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,COALESCE(description,''),COALESCE(manager_id,0) FROM boards ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Board, 0)
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.ManagerID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches a single board; ErrNotFound when it does not exist.
func (r *BoardRepo) GetByID(ctx context.Context, id uint64) (model.Board, error) {
	var b model.Board
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,COALESCE(description,''),COALESCE(manager_id,0) FROM boards WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.Name, &b.Description, &b.ManagerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, ErrNotFound
	}
	return b, err
}

// EnsureDefaults seeds the stock boards on first boot.  INSERT IGNORE
// keeps it idempotent across restarts and across multiple processes
// starting at once (the unique name key absorbs the race).
func (r *BoardRepo) EnsureDefaults(ctx context.Context) error {
	defaults := []model.Board{
		{ID: 1, Name: "綜合討論", Description: "動漫遊戲相關話題皆可在此討論"},
		{ID: 2, Name: "Fate 系列", Description: "聖杯戰爭、FGO 與型月世界觀討論"},
		{ID: 3, Name: "原神 Genshin", Description: "提瓦特大陸冒險指南"},
		{ID: 4, Name: "任天堂", Description: "Switch、薩爾達、瑪利歐"},
	}
	for _, b := range defaults {
		if _, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO boards (id,name,description) VALUES (?,?,?)",
			b.ID, b.Name, b.Description); err != nil {
			return err
		}
	}
	return nil
}
