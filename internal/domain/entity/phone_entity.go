package entity

// Phone is owned by a User via UserID and is removed with it.
type Phone struct {
	ID       int64
	Number   string
	AreaCode string
	UserID   int64
}
