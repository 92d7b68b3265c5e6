package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	signed, err := svc.IssueToken(context.Background(), "user-1")
	require.NoError(t, err)

	uid, err := svc.VerifyToken(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestJWTServiceRejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	foreign, err := other.IssueToken(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = svc.VerifyToken(context.Background(), foreign)
	assert.Error(t, err)

	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	old, err := svc.IssueToken(context.Background(), "user-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.VerifyToken(context.Background(), old)
	assert.Error(t, err)

	_, err = svc.VerifyToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
