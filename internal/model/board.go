package model

// Board is a discussion board (`boards` table).  ManagerID references
// the optional moderating user and may be zero when unassigned.
type Board struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   uint64 `json:"manager_id,omitempty"`
}
