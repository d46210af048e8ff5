package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"moviecatalog/internal/model"
	"moviecatalog/internal/repository"
	"moviecatalog/internal/utils"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	nextID  uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.byEmail[email]; ok {
		return nil, repository.ErrEmailExists
	}
	u := &model.User{ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	f.nextID++
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newAuthService(users UserStore) *AuthService {
	return NewAuthService(users, "test-secret", 15, bcrypt.MinCost)
}

func TestRegisterIssuesTokenBoundToUser(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	token, err := svc.Register(context.Background(), "Ana", "ana@example.com", "pw123456")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	claims, err := utils.ParseAccessToken("test-secret", token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != 1 || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v, want sub=1 email=ana@example.com", claims)
	}

	u := users.byEmail["ana@example.com"]
	if u.PasswordHash == "pw123456" {
		t.Error("password stored in plaintext")
	}
	if !utils.VerifyPassword(u.PasswordHash, "pw123456") {
		t.Error("stored hash does not verify original password")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "pw123456"); err != nil {
		t.Fatal(err)
	}
	token, err := svc.Register(context.Background(), "Impostor", "ana@example.com", "other")
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("Register() = %v, want ErrEmailExists", err)
	}
	if token != "" {
		t.Error("token issued for conflicting registration")
	}
	if len(users.byEmail) != 1 {
		t.Errorf("accounts = %d, want 1", len(users.byEmail))
	}
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "pw123456"); err != nil {
		t.Fatal(err)
	}
	token, err := svc.Login(context.Background(), "ana@example.com", "pw123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ParseAccessToken("test-secret", token)
	if err != nil {
		t.Fatalf("login token does not parse: %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("sub = %d, want 1", claims.UserID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "pw123456"); err != nil {
		t.Fatal(err)
	}

	_, wrongPw := svc.Login(context.Background(), "ana@example.com", "nope")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "nope")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", wrongPw)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Errorf("unknown email = %v, want ErrInvalidCredentials", unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Error("error messages differ; login must not reveal whether the email exists")
	}
}
