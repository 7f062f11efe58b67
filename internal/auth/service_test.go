package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepo struct {
	users map[string]*User
}

func (m *mockRepo) CreateUser(ctx context.Context, user User) error {
	if m.users == nil {
		m.users = make(map[string]*User)
	}
	m.users[user.Email] = &user
	return nil
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func TestSignUpHashesPassword(t *testing.T) {
	repo := &mockRepo{}
	service := NewService(repo)

	err := service.SignUp(context.Background(), SignUpRequest{
		Name:     "Maria Oliveira",
		Email:    "maria@vitrine.app",
		Password: "correct horse",
	})
	require.NoError(t, err)

	stored := repo.users["maria@vitrine.app"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestAuthenticate(t *testing.T) {
	repo := &mockRepo{}
	service := NewService(repo)
	require.NoError(t, service.SignUp(context.Background(), SignUpRequest{
		Name:     "Maria",
		Email:    "maria@vitrine.app",
		Password: "correct horse",
	}))

	user, err := service.Authenticate(context.Background(), "maria@vitrine.app", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)

	_, err = service.Authenticate(context.Background(), "maria@vitrine.app", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Authenticate(context.Background(), "nobody@vitrine.app", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
