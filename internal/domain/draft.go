package domain

// DraftRecord is the persisted form of an in-progress listing. Payload is the
// draft serialized as JSON; Step is the wizard step the owner last saw.
type DraftRecord struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Step      int    `db:"step"`
	Payload   string `db:"payload"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}
