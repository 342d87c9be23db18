package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password always holds a bcrypt hash once the user is persisted.
//
// Addresses and Phones are owned collections. A nil slice means the
// collection was absent on input or not loaded, which is distinct from
// an empty one.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Addresses []Address
	Phones    []Phone
	CreatedAt time.Time
	UpdatedAt time.Time
}
