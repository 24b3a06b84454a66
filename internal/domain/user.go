package domain

// User is a dashboard operator. Phone feeds the wizard's contact prefill.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}
