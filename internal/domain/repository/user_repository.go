package repository

import (
	"errors"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
)

// Sentinel errors implementations must return so callers can translate
// store conditions without knowing the engine.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository defines the persistence operations for users.
// GetByEmail loads the owned address and phone collections with the user.
type UserRepository interface {
	Create(u *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	DeleteByEmail(email string) error
	Update(u *entity.User) error
}

// AddressRepository persists addresses independently of their owner.
type AddressRepository interface {
	Create(a *entity.Address) error
	GetByID(id int64) (*entity.Address, error)
	Update(a *entity.Address) error
}

// PhoneRepository persists phones independently of their owner.
type PhoneRepository interface {
	Create(p *entity.Phone) error
	GetByID(id int64) (*entity.Phone, error)
	Update(p *entity.Phone) error
}
