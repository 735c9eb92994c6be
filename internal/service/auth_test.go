package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := NewAuthService(newTestDB(t))

	u, err := s.Register(ctx, " Sales@Example.com ", "secret123", "Sato")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "sales@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password)

	got, err := s.Login(ctx, "sales@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Sato", got.Name)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewAuthService(newTestDB(t))

	_, err := s.Register(ctx, "a@example.com", "secret123", "A")
	require.NoError(t, err)
	_, err = s.Register(ctx, "A@example.com", "other123", "B")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_BadCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewAuthService(newTestDB(t))
	_, err := s.Register(ctx, "a@example.com", "secret123", "A")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
