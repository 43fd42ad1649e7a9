package models

// Todo is a single to-do item. OwnerID ties it to exactly one user; every
// read or write goes through the owner's identity.
type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
	OwnerID     int64  `json:"owner_id"`
}
