package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/db"
)

// memoryUserStore is an in-memory UserStore for tests.
type memoryUserStore struct {
	users map[string]*db.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*db.User)}
}

func (m *memoryUserStore) CreateUser(_ context.Context, email, name, passwordHash string) (*db.User, error) {
	user := &db.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	m.users[email] = user
	return user, nil
}

func (m *memoryUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return m.users[email], nil
}

func (m *memoryUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestUserService() *UserService {
	return NewUserService(newMemoryUserStore(), &config.PasswordConfig{BcryptCost: 10})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &CreateUserRequest{
		Email:    "dana@example.com",
		Name:     "Dana",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash, "password must be hashed")

	logged, err := svc.Login(ctx, &LoginRequest{
		Email:    "dana@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &CreateUserRequest{Email: "dup@example.com", Password: "password-one"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &CreateUserRequest{Email: "dup@example.com", Password: "password-two"})
	var dup *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestUserService_WrongPassword(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &CreateUserRequest{Email: "dana@example.com", Password: "real-password"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "wrong-password"})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestUserService_UnknownEmailSameError(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid, "unknown email and wrong password must be indistinguishable")
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "different-secret", ExpirationHours: 1})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsEmptyToken(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	_, err := svc.ValidateToken("")
	assert.Error(t, err)
}
