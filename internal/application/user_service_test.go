package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
	"github.com/paulorsp2021/usuario/internal/domain/repository"
	"github.com/paulorsp2021/usuario/pkg/helpers"
)

type stubUserRepo struct {
	users  map[string]*entity.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*entity.User{}}
}

func (s *stubUserRepo) Create(u *entity.User) error {
	if _, ok := s.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

func (s *stubUserRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) ExistsByEmail(email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

func (s *stubUserRepo) DeleteByEmail(email string) error {
	delete(s.users, email)
	return nil
}

func (s *stubUserRepo) Update(u *entity.User) error {
	for email, stored := range s.users {
		if stored.ID == u.ID {
			if email != u.Email {
				delete(s.users, email)
			}
			cp := *u
			s.users[u.Email] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubAddressRepo struct {
	addresses map[int64]*entity.Address
	nextID    int64
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{addresses: map[int64]*entity.Address{}}
}

func (s *stubAddressRepo) Create(a *entity.Address) error {
	s.nextID++
	a.ID = s.nextID
	cp := *a
	s.addresses[a.ID] = &cp
	return nil
}

func (s *stubAddressRepo) GetByID(id int64) (*entity.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *stubAddressRepo) Update(a *entity.Address) error {
	if _, ok := s.addresses[a.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *a
	s.addresses[a.ID] = &cp
	return nil
}

type stubPhoneRepo struct {
	phones map[int64]*entity.Phone
	nextID int64
}

func newStubPhoneRepo() *stubPhoneRepo {
	return &stubPhoneRepo{phones: map[int64]*entity.Phone{}}
}

func (s *stubPhoneRepo) Create(p *entity.Phone) error {
	s.nextID++
	p.ID = s.nextID
	cp := *p
	s.phones[p.ID] = &cp
	return nil
}

func (s *stubPhoneRepo) GetByID(id int64) (*entity.Phone, error) {
	p, ok := s.phones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubPhoneRepo) Update(p *entity.Phone) error {
	if _, ok := s.phones[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	s.phones[p.ID] = &cp
	return nil
}

func newTestService(t *testing.T) (*Service, *stubUserRepo, *stubAddressRepo, *stubPhoneRepo) {
	t.Helper()
	users := newStubUserRepo()
	addresses := newStubAddressRepo()
	phones := newStubPhoneRepo()
	jwt := helpers.NewJWTManager("testsecret", time.Hour)
	svc := NewService(users, addresses, phones, jwt, nil, nil)
	return svc, users, addresses, phones
}

func registerAna(t *testing.T, svc *Service) UserDTO {
	t.Helper()
	name := "Ana"
	email := "ana@x.com"
	password := "pw123"
	out, err := svc.Register(context.Background(), UserDTO{Name: &name, Email: &email, Password: &password})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return out
}

func bearerFor(t *testing.T, svc *Service, email string) string {
	t.Helper()
	token, _, err := svc.JWT.GenerateToken(email)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func TestService_RegisterHashesPassword(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	out := registerAna(t, svc)

	if *out.Email != "ana@x.com" {
		t.Fatalf("unexpected email %q", *out.Email)
	}
	if *out.Password == "pw123" {
		t.Fatal("plaintext password leaked into the response")
	}
	stored := users.users["ana@x.com"]
	if stored.Password == "pw123" {
		t.Fatal("plaintext password persisted")
	}
	if !helpers.CompareHashAndPassword(stored.Password, "pw123") {
		t.Fatal("stored password is not a hash of the original")
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	registerAna(t, svc)

	name := "Other"
	email := "ana@x.com"
	password := "different"
	_, err := svc.Register(context.Background(), UserDTO{Name: &name, Email: &email, Password: &password})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

// raceyUserRepo simulates a writer that committed between the exists
// check and the insert: the check never sees the row, the unique index
// still rejects it.
type raceyUserRepo struct {
	*stubUserRepo
}

func (r *raceyUserRepo) ExistsByEmail(string) (bool, error) { return false, nil }

func TestService_RegisterDuplicateFromStoreRace(t *testing.T) {
	users := &raceyUserRepo{newStubUserRepo()}
	jwt := helpers.NewJWTManager("testsecret", time.Hour)
	svc := NewService(users, newStubAddressRepo(), newStubPhoneRepo(), jwt, nil, nil)

	name := "Ana"
	email := "ana@x.com"
	password := "pw123"
	dto := UserDTO{Name: &name, Email: &email, Password: &password}

	if _, err := svc.Register(context.Background(), dto); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := svc.Register(context.Background(), dto)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists from the store constraint, got %v", err)
	}
}

func TestService_FindByEmailNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.FindByEmail(context.Background(), "missing@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_UpdateProfileMergesFields(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	registerAna(t, svc)
	before := users.users["ana@x.com"]

	name := "Ana Maria"
	out, err := svc.UpdateProfile(context.Background(), bearerFor(t, svc, "ana@x.com"), UserDTO{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if *out.Name != "Ana Maria" {
		t.Fatalf("name not updated: %q", *out.Name)
	}

	after := users.users["ana@x.com"]
	if after.Name != "Ana Maria" {
		t.Errorf("stored name not updated: %q", after.Name)
	}
	if after.Email != before.Email {
		t.Errorf("email changed: %q", after.Email)
	}
	if after.Password != before.Password {
		t.Errorf("password hash changed without a new password")
	}
}

func TestService_UpdateProfileRehashesNewPassword(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	registerAna(t, svc)
	before := users.users["ana@x.com"].Password

	password := "newpass456"
	_, err := svc.UpdateProfile(context.Background(), bearerFor(t, svc, "ana@x.com"), UserDTO{Password: &password})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	after := users.users["ana@x.com"].Password
	if after == before {
		t.Fatal("password hash not replaced")
	}
	if after == "newpass456" {
		t.Fatal("plaintext password persisted")
	}
	if !helpers.CompareHashAndPassword(after, "newpass456") {
		t.Fatal("stored password is not a hash of the new password")
	}
}

func TestService_UpdateProfileInvalidToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	registerAna(t, svc)

	for _, header := range []string{"", "short", "Bearer ", "Bearer not-a-jwt", "Basic abcdef"} {
		_, err := svc.UpdateProfile(context.Background(), header, UserDTO{})
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("header %q: expected ErrInvalidToken, got %v", header, err)
		}
	}
}

func TestService_UpdateProfileUnknownSubject(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.UpdateProfile(context.Background(), bearerFor(t, svc, "ghost@x.com"), UserDTO{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_DeleteThenFind(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	registerAna(t, svc)

	if err := svc.DeleteByEmail(context.Background(), "ana@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := svc.FindByEmail(context.Background(), "ana@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	// idempotent: deleting again is not an error
	if err := svc.DeleteByEmail(context.Background(), "ana@x.com"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestService_LoginIssuesTokenForEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	registerAna(t, svc)

	token, exp, err := svc.Login(context.Background(), "ana@x.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Errorf("token already expired: %v", exp)
	}
	email, err := svc.JWT.ExtractEmail(token)
	if err != nil {
		t.Fatalf("extract email: %v", err)
	}
	if email != "ana@x.com" {
		t.Errorf("token subject %q", email)
	}

	if _, _, err := svc.Login(context.Background(), "ana@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "pw123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_CreateAddressBindsOwner(t *testing.T) {
	svc, users, addresses, _ := newTestService(t)
	registerAna(t, svc)
	owner := users.users["ana@x.com"]

	street := "Rua Nova"
	out, err := svc.CreateAddress(context.Background(), bearerFor(t, svc, "ana@x.com"), AddressDTO{Street: &street})
	if err != nil {
		t.Fatalf("create address: %v", err)
	}
	stored := addresses.addresses[*out.ID]
	if stored.UserID != owner.ID {
		t.Fatalf("address bound to user %d, want %d", stored.UserID, owner.ID)
	}
	if stored.Street != "Rua Nova" {
		t.Errorf("street not stored: %q", stored.Street)
	}
}

func TestService_CreatePhoneBindsOwner(t *testing.T) {
	svc, users, _, phones := newTestService(t)
	registerAna(t, svc)
	owner := users.users["ana@x.com"]

	num := "98888-7777"
	out, err := svc.CreatePhone(context.Background(), bearerFor(t, svc, "ana@x.com"), PhoneDTO{Number: &num})
	if err != nil {
		t.Fatalf("create phone: %v", err)
	}
	if phones.phones[*out.ID].UserID != owner.ID {
		t.Fatalf("phone not bound to owner")
	}
}

func TestService_UpdateAddress(t *testing.T) {
	svc, _, addresses, _ := newTestService(t)
	addresses.addresses[1] = &entity.Address{ID: 1, Street: "Rua A", Number: 10, City: "Sao Paulo", UserID: 42}
	addresses.nextID = 1

	city := "Campinas"
	out, err := svc.UpdateAddress(context.Background(), 1, AddressDTO{City: &city})
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if *out.City != "Campinas" || *out.Street != "Rua A" {
		t.Fatalf("merge wrong: %+v", out)
	}
	if addresses.addresses[1].UserID != 42 {
		t.Errorf("owning user changed")
	}

	_, err = svc.UpdateAddress(context.Background(), 99, AddressDTO{City: &city})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestService_UpdatePhone(t *testing.T) {
	svc, _, _, phones := newTestService(t)
	phones.phones[1] = &entity.Phone{ID: 1, Number: "99999-0000", AreaCode: "11", UserID: 42}
	phones.nextID = 1

	ddd := "21"
	out, err := svc.UpdatePhone(context.Background(), 1, PhoneDTO{AreaCode: &ddd})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if *out.AreaCode != "21" || *out.Number != "99999-0000" {
		t.Fatalf("merge wrong: %+v", out)
	}

	_, err = svc.UpdatePhone(context.Background(), 99, PhoneDTO{AreaCode: &ddd})
	if !errors.Is(err, ErrPhoneNotFound) {
		t.Fatalf("expected ErrPhoneNotFound, got %v", err)
	}
}

func TestService_RegisterKeepsSuppliedCollections(t *testing.T) {
	svc, users, _, _ := newTestService(t)

	name := "Ana"
	email := "ana@x.com"
	password := "pw123"
	street := "Rua A"
	num := "99999-0000"
	out, err := svc.Register(context.Background(), UserDTO{
		Name:     &name,
		Email:    &email,
		Password: &password,
		Addresses: []AddressDTO{
			{Street: &street},
		},
		Phones: []PhoneDTO{
			{Number: &num},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(out.Addresses) != 1 || len(out.Phones) != 1 {
		t.Fatalf("collections lost: %+v", out)
	}
	stored := users.users["ana@x.com"]
	if len(stored.Addresses) != 1 || stored.Addresses[0].Street != "Rua A" {
		t.Errorf("addresses not persisted with the user: %+v", stored.Addresses)
	}
}
