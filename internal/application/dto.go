package application

// Wire-facing transfer shapes. Every field is a pointer (or nil-able
// slice) so that an absent field can be told apart from a zero value;
// absent means "leave unchanged" on partial updates.

type UserDTO struct {
	Name      *string      `json:"name,omitempty"`
	Email     *string      `json:"email,omitempty" binding:"omitempty,email"`
	Password  *string      `json:"password,omitempty"`
	Addresses []AddressDTO `json:"addresses,omitempty" binding:"omitempty,dive"`
	Phones    []PhoneDTO   `json:"phones,omitempty" binding:"omitempty,dive"`
}

type AddressDTO struct {
	ID         *int64  `json:"id,omitempty"`
	Street     *string `json:"street,omitempty"`
	Number     *int64  `json:"number,omitempty"`
	City       *string `json:"city,omitempty"`
	Complement *string `json:"complement,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	State      *string `json:"state,omitempty" binding:"omitempty,max=2"`
}

type PhoneDTO struct {
	ID       *int64  `json:"id,omitempty"`
	Number   *string `json:"number,omitempty"`
	AreaCode *string `json:"area_code,omitempty" binding:"omitempty,max=3"`
}
