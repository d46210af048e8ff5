package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"moviecatalog/internal/logger"
	"moviecatalog/internal/model"
	"moviecatalog/internal/repository"
	"moviecatalog/internal/utils"
)

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password. One error on purpose: the login response must not
// reveal whether an email is registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the account directory the auth service
// needs. *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// AuthService composes password hashing, the account directory and
// token issuance into the register/login flows.
type AuthService struct {
	users      UserStore
	jwtSecret  string
	ttlMin     int
	bcryptCost int
	log        *logrus.Logger
}

func NewAuthService(users UserStore, jwtSecret string, ttlMin, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  jwtSecret,
		ttlMin:     ttlMin,
		bcryptCost: bcryptCost,
		log:        logger.Get(),
	}
}

// Register creates an account and returns a signed access token bound
// to the new user id and email. A duplicate email surfaces as
// repository.ErrEmailExists; no token is issued in that case.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	u, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.log.WithField("email", email).Warn("registration with existing email")
		}
		return "", err
	}
	s.log.WithField("user_id", u.ID).Info("user registered")

	access, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Email, s.ttlMin)
	if err != nil {
		return "", err
	}
	return access.Token, nil
}

// Login verifies the email/password pair and returns a fresh access
// token. Unknown email and wrong password both fail with
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithField("email", email).Warn("login with unknown email")
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.log.WithField("user_id", u.ID).Warn("login with wrong password")
		return "", ErrInvalidCredentials
	}

	access, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Email, s.ttlMin)
	if err != nil {
		return "", err
	}
	return access.Token, nil
}
