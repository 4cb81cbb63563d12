package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokens(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", "HS256", 30*time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(t, clock)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	username, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenService_Expiry(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	svc := newTestTokens(t, clock)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.now = start.Add(29*time.Minute + 59*time.Second)
	username, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	clock.now = start.Add(30 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	clock.now = start.Add(2 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestTokens(t, clock)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	// flip one bit of the first signature byte; the first char carries 6 full bits
	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	sig[0] ^= 0x01
	tampered := token[:dot+1] + string(sig)
	require.NotEqual(t, token, tampered)

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_TamperedClaims(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestTokens(t, clock)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	other, err := svc.Issue("mallory")
	require.NoError(t, err)

	// splice mallory's payload onto alice's signature
	a := strings.Split(token, ".")
	m := strings.Split(other, ".")
	_, err = svc.Verify(a[0] + "." + m[1] + "." + a[2])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestTokens(t, clock)

	otherSecret, err := NewTokenService("another-secret", "HS256", time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := otherSecret.Issue("alice")
	require.NoError(t, err)

	otherAlg, err := NewTokenService("test-secret", "HS512", time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	wrongAlg, err := otherAlg.Issue("alice")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "different secret", token: foreign},
		{name: "different algorithm", token: wrongAlg},
		{name: "alg none", token: unsigned},
		{name: "missing exp", token: noExpiry},
		{name: "missing sub", token: noSubject},
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "two segments", token: "abc.def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		ttl       time.Duration
		wantError bool
	}{
		{name: "hs256", secret: "s", algorithm: "HS256", ttl: time.Minute},
		{name: "hs384", secret: "s", algorithm: "HS384", ttl: time.Minute},
		{name: "hs512", secret: "s", algorithm: "HS512", ttl: time.Minute},
		{name: "empty secret", secret: "", algorithm: "HS256", ttl: time.Minute, wantError: true},
		{name: "rsa algorithm", secret: "s", algorithm: "RS256", ttl: time.Minute, wantError: true},
		{name: "none algorithm", secret: "s", algorithm: "none", ttl: time.Minute, wantError: true},
		{name: "unknown algorithm", secret: "s", algorithm: "XX1", ttl: time.Minute, wantError: true},
		{name: "zero ttl", secret: "s", algorithm: "HS256", ttl: 0, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewTokenService(tt.secret, tt.algorithm, tt.ttl)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ttl, svc.TTL())
		})
	}
}
