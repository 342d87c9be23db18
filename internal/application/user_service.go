package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
	repo "github.com/paulorsp2021/usuario/internal/domain/repository"
	"github.com/paulorsp2021/usuario/pkg/helpers"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrPhoneNotFound      = errors.New("phone not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	Users     repo.UserRepository
	Addresses repo.AddressRepository
	Phones    repo.PhoneRepository
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
}

func NewService(users repo.UserRepository, addresses repo.AddressRepository, phones repo.PhoneRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *Service {
	return &Service{
		Users:     users,
		Addresses: addresses,
		Phones:    phones,
		JWT:       jwt,
		Redis:     rdb,
		Logger:    logger,
	}
}

func sessionKey(email string) string {
	return "user:session:" + email
}

func profileKey(email string) string {
	return "user:profile:" + email
}

const profileCacheTTL = 10 * time.Minute

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates a new account. The email must be unused and the
// password is bcrypt-hashed before the user is converted and persisted.
// The unique index on email backs up the exists check, so a racing
// duplicate insert still comes back as ErrEmailExists.
func (s *Service) Register(ctx context.Context, dto UserDTO) (UserDTO, error) {
	if dto.Email == nil || dto.Password == nil {
		return UserDTO{}, ErrInvalidCredentials
	}
	exists, err := s.Users.ExistsByEmail(*dto.Email)
	if err != nil {
		return UserDTO{}, err
	}
	if exists {
		return UserDTO{}, ErrEmailExists
	}

	hash, err := helpers.HashPassword(*dto.Password)
	if err != nil {
		return UserDTO{}, err
	}
	dto.Password = &hash

	u := ToUserEntity(dto)
	if err := s.Users.Create(u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return UserDTO{}, ErrEmailExists
		}
		return UserDTO{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", u.Email).Info("user registered")
	}
	return ToUserDTO(u), nil
}

// Login validates the credentials, issues a token whose subject is the
// email, and records a session hash in Redis when it is configured.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil || u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.GenerateToken(u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Error("generate token failed")
		}
		return "", time.Time{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.Email)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"email":      u.Email,
			"name":       u.Name,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return token, exp, nil
}

// FindByEmail returns the user with its addresses and phones. Results
// are cached in Redis for a short window; writes invalidate the entry.
func (s *Service) FindByEmail(ctx context.Context, email string) (UserDTO, error) {
	if s.Redis != nil {
		var cached UserDTO
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(email), &cached); err == nil && ok {
			return cached, nil
		}
	}

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, err
	}

	dto := ToUserDTO(u)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(email), dto, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("profile cache write failed")
		}
	}
	return dto, nil
}

// DeleteByEmail is idempotent; deleting an unknown email succeeds.
func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	if err := s.Users.DeleteByEmail(email); err != nil {
		return err
	}
	if s.Redis != nil {
		for _, key := range []string{sessionKey(email), profileKey(email)} {
			if err := helpers.RedisDel(ctx, s.Redis, key); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("key", key).Warn("redis cleanup failed")
			}
		}
	}
	return nil
}

// UpdateProfile resolves the caller from the bearer header, merges the
// non-nil DTO fields over the stored user and persists the result. A
// password is only re-hashed when one was supplied; leaving it nil keeps
// the stored hash. Addresses and phones are never touched here.
func (s *Service) UpdateProfile(ctx context.Context, authHeader string, dto UserDTO) (UserDTO, error) {
	email, err := s.emailFromHeader(authHeader)
	if err != nil {
		return UserDTO{}, err
	}
	if dto.Password != nil {
		hash, err := helpers.HashPassword(*dto.Password)
		if err != nil {
			return UserDTO{}, err
		}
		dto.Password = &hash
	}

	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, err
	}

	merged := MergeUser(dto, existing)
	if err := s.Users.Update(merged); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return UserDTO{}, ErrEmailExists
		}
		return UserDTO{}, err
	}

	if s.Redis != nil {
		key := sessionKey(email)
		if err := s.Redis.HSet(ctx, key, map[string]any{
			"name":       merged.Name,
			"updated_at": nowRFC3339(),
		}).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("session refresh failed")
		}
		// drop cached profiles under both the old and any new email
		_ = helpers.RedisDel(ctx, s.Redis, profileKey(email))
		if merged.Email != email {
			_ = helpers.RedisDel(ctx, s.Redis, profileKey(merged.Email))
		}
	}
	return ToUserDTO(merged), nil
}

// CreateAddress stores a new address owned by the authenticated user.
func (s *Service) CreateAddress(ctx context.Context, authHeader string, dto AddressDTO) (AddressDTO, error) {
	owner, err := s.callerFromHeader(authHeader)
	if err != nil {
		return AddressDTO{}, err
	}
	a := ToAddressEntityForUser(dto, owner.ID)
	if err := s.Addresses.Create(a); err != nil {
		return AddressDTO{}, err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, profileKey(owner.Email))
	}
	return ToAddressDTO(a), nil
}

// CreatePhone stores a new phone owned by the authenticated user.
func (s *Service) CreatePhone(ctx context.Context, authHeader string, dto PhoneDTO) (PhoneDTO, error) {
	owner, err := s.callerFromHeader(authHeader)
	if err != nil {
		return PhoneDTO{}, err
	}
	p := ToPhoneEntityForUser(dto, owner.ID)
	if err := s.Phones.Create(p); err != nil {
		return PhoneDTO{}, err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, profileKey(owner.Email))
	}
	return ToPhoneDTO(p), nil
}

// UpdateAddress merges the non-nil DTO fields over the stored address.
// The lookup is by the address id alone; the owning user is retained
// from the stored row.
func (s *Service) UpdateAddress(ctx context.Context, id int64, dto AddressDTO) (AddressDTO, error) {
	existing, err := s.Addresses.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return AddressDTO{}, ErrAddressNotFound
		}
		return AddressDTO{}, err
	}
	merged := MergeAddress(dto, existing)
	if err := s.Addresses.Update(merged); err != nil {
		return AddressDTO{}, err
	}
	return ToAddressDTO(merged), nil
}

// UpdatePhone merges the non-nil DTO fields over the stored phone.
func (s *Service) UpdatePhone(ctx context.Context, id int64, dto PhoneDTO) (PhoneDTO, error) {
	existing, err := s.Phones.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return PhoneDTO{}, ErrPhoneNotFound
		}
		return PhoneDTO{}, err
	}
	merged := MergePhone(dto, existing)
	if err := s.Phones.Update(merged); err != nil {
		return PhoneDTO{}, err
	}
	return ToPhoneDTO(merged), nil
}

func (s *Service) emailFromHeader(authHeader string) (string, error) {
	token, err := helpers.BearerToken(authHeader)
	if err != nil {
		return "", ErrInvalidToken
	}
	email, err := s.JWT.ExtractEmail(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return email, nil
}

func (s *Service) callerFromHeader(authHeader string) (*entity.User, error) {
	email, err := s.emailFromHeader(authHeader)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
