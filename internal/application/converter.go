package application

import (
	"github.com/paulorsp2021/usuario/internal/domain/entity"
)

// Pure DTO <-> entity mapping. The merge functions implement
// null-means-unchanged partial updates: a nil DTO field keeps the stored
// value, identifiers always come from the stored entity, and on a user
// merge the owned collections come from the stored entity too (they have
// their own update flows).

func strVal(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func int64Val(p *int64) int64 {
	if p != nil {
		return *p
	}
	return 0
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func ToUserEntity(dto UserDTO) *entity.User {
	u := &entity.User{
		Name:     strVal(dto.Name),
		Email:    strVal(dto.Email),
		Password: strVal(dto.Password),
	}
	// nil collections stay nil; an absent list is not an empty one
	if dto.Addresses != nil {
		u.Addresses = make([]entity.Address, 0, len(dto.Addresses))
		for _, a := range dto.Addresses {
			u.Addresses = append(u.Addresses, *ToAddressEntity(a))
		}
	}
	if dto.Phones != nil {
		u.Phones = make([]entity.Phone, 0, len(dto.Phones))
		for _, p := range dto.Phones {
			u.Phones = append(u.Phones, *ToPhoneEntity(p))
		}
	}
	return u
}

func ToUserDTO(u *entity.User) UserDTO {
	dto := UserDTO{
		Name:     strPtr(u.Name),
		Email:    strPtr(u.Email),
		Password: strPtr(u.Password),
	}
	if u.Addresses != nil {
		dto.Addresses = make([]AddressDTO, 0, len(u.Addresses))
		for i := range u.Addresses {
			dto.Addresses = append(dto.Addresses, ToAddressDTO(&u.Addresses[i]))
		}
	}
	if u.Phones != nil {
		dto.Phones = make([]PhoneDTO, 0, len(u.Phones))
		for i := range u.Phones {
			dto.Phones = append(dto.Phones, ToPhoneDTO(&u.Phones[i]))
		}
	}
	return dto
}

func ToAddressEntity(dto AddressDTO) *entity.Address {
	return &entity.Address{
		Street:     strVal(dto.Street),
		Number:     int64Val(dto.Number),
		City:       strVal(dto.City),
		Complement: strVal(dto.Complement),
		PostalCode: strVal(dto.PostalCode),
		State:      strVal(dto.State),
	}
}

// ToAddressEntityForUser binds a new address to its owning user.
func ToAddressEntityForUser(dto AddressDTO, userID int64) *entity.Address {
	a := ToAddressEntity(dto)
	a.UserID = userID
	return a
}

func ToAddressDTO(a *entity.Address) AddressDTO {
	return AddressDTO{
		ID:         int64Ptr(a.ID),
		Street:     strPtr(a.Street),
		Number:     int64Ptr(a.Number),
		City:       strPtr(a.City),
		Complement: strPtr(a.Complement),
		PostalCode: strPtr(a.PostalCode),
		State:      strPtr(a.State),
	}
}

func ToPhoneEntity(dto PhoneDTO) *entity.Phone {
	return &entity.Phone{
		Number:   strVal(dto.Number),
		AreaCode: strVal(dto.AreaCode),
	}
}

// ToPhoneEntityForUser binds a new phone to its owning user.
func ToPhoneEntityForUser(dto PhoneDTO, userID int64) *entity.Phone {
	p := ToPhoneEntity(dto)
	p.UserID = userID
	return p
}

func ToPhoneDTO(p *entity.Phone) PhoneDTO {
	return PhoneDTO{
		ID:       int64Ptr(p.ID),
		Number:   strPtr(p.Number),
		AreaCode: strPtr(p.AreaCode),
	}
}

// MergeUser overlays the non-nil DTO fields on the stored user. The id
// is never taken from the caller, and the owned collections always come
// from the stored entity.
func MergeUser(dto UserDTO, existing *entity.User) *entity.User {
	merged := &entity.User{
		ID:        existing.ID,
		Name:      existing.Name,
		Email:     existing.Email,
		Password:  existing.Password,
		Addresses: existing.Addresses,
		Phones:    existing.Phones,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: existing.UpdatedAt,
	}
	if dto.Name != nil {
		merged.Name = *dto.Name
	}
	if dto.Email != nil {
		merged.Email = *dto.Email
	}
	if dto.Password != nil {
		merged.Password = *dto.Password
	}
	return merged
}

// MergeAddress overlays the non-nil DTO fields on the stored address;
// id and owning user are always retained.
func MergeAddress(dto AddressDTO, existing *entity.Address) *entity.Address {
	merged := &entity.Address{
		ID:         existing.ID,
		Street:     existing.Street,
		Number:     existing.Number,
		City:       existing.City,
		Complement: existing.Complement,
		PostalCode: existing.PostalCode,
		State:      existing.State,
		UserID:     existing.UserID,
	}
	if dto.Street != nil {
		merged.Street = *dto.Street
	}
	if dto.Number != nil {
		merged.Number = *dto.Number
	}
	if dto.City != nil {
		merged.City = *dto.City
	}
	if dto.Complement != nil {
		merged.Complement = *dto.Complement
	}
	if dto.PostalCode != nil {
		merged.PostalCode = *dto.PostalCode
	}
	if dto.State != nil {
		merged.State = *dto.State
	}
	return merged
}

// MergePhone overlays the non-nil DTO fields on the stored phone; id
// and owning user are always retained.
func MergePhone(dto PhoneDTO, existing *entity.Phone) *entity.Phone {
	merged := &entity.Phone{
		ID:       existing.ID,
		Number:   existing.Number,
		AreaCode: existing.AreaCode,
		UserID:   existing.UserID,
	}
	if dto.Number != nil {
		merged.Number = *dto.Number
	}
	if dto.AreaCode != nil {
		merged.AreaCode = *dto.AreaCode
	}
	return merged
}
