package models

// Category is a user-defined label for transactions.
type Category struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt int64
}
