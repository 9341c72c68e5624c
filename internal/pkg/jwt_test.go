package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSignAndParse(t *testing.T) {
	s := NewStateSigner("state-secret-for-tests-0123456789", time.Minute)

	state, nonce, err := s.Sign("http://localhost:3000/after", true)
	require.NoError(t, err)
	require.NotEmpty(t, nonce)

	claims, err := s.Parse(state)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/after", claims.RedirectURI)
	assert.True(t, claims.AutoLogin)
	assert.Equal(t, nonce, claims.ID)
}

func TestStateRejectsTamperingAndForeignKeys(t *testing.T) {
	s := NewStateSigner("state-secret-for-tests-0123456789", time.Minute)
	other := NewStateSigner("another-secret-for-tests-98765432", time.Minute)

	state, _, err := other.Sign("http://localhost:3000", false)
	require.NoError(t, err)
	_, err = s.Parse(state)
	assert.ErrorIs(t, err, ErrStateInvalid)

	_, err = s.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestStateExpires(t *testing.T) {
	s := NewStateSigner("state-secret-for-tests-0123456789", time.Nanosecond)
	state, _, err := s.Sign("http://localhost:3000", false)
	require.NoError(t, err)
	// exp 按秒截断，1ns 的有效期签发即过期
	_, err = s.Parse(state)
	assert.ErrorIs(t, err, ErrStateExpired)
}
