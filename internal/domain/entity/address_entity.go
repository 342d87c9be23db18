package entity

// Address is owned by a User via UserID and is removed with it.
type Address struct {
	ID         int64
	Street     string
	Number     int64
	City       string
	Complement string
	PostalCode string
	State      string
	UserID     int64
}
