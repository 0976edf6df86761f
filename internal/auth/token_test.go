package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const testSecret = "test_secret_key_1234567890"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	tests := []struct {
		name   string
		userID string
		role   domain.Role
	}{
		{name: "regular user", userID: "0d5bd2f4-1111-4c8e-a3a5-3f1c7a1d9b01", role: domain.RoleUser},
		{name: "admin", userID: "0d5bd2f4-2222-4c8e-a3a5-3f1c7a1d9b02", role: domain.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, exp, err := tm.Issue(tt.userID, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

			claims, err := tm.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
			assert.NotEmpty(t, claims.ID)

			meta := claims.Token()
			assert.Equal(t, tt.userID, meta.UserID)
			assert.WithinDuration(t, exp, meta.ExpiresAt, time.Second)
		})
	}
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)
	assert.Equal(t, time.Hour, tm.TTL())
}

func TestTokenManager_IssueWithoutSecret(t *testing.T) {
	tm := NewTokenManager("", time.Hour)

	_, _, err := tm.Issue("user-1", domain.RoleUser)
	assert.ErrorIs(t, err, ErrSigningKeyMissing)
}

func TestTokenManager_VerifyRejects(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	valid, _, err := tm.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "two segments", token: "abc.def"},
		{name: "expired token", token: expiredToken(t)},
		{name: "wrong secret", token: foreignToken(t)},
		{name: "tampered payload", token: tamperPayload(t, valid)},
		{name: "tampered signature", token: valid + "x"},
		{name: "missing role", token: signRaw(t, jwt.MapClaims{"userId": "user-1", "exp": time.Now().Add(time.Hour).Unix()})},
		{name: "unknown role", token: signRaw(t, jwt.MapClaims{"userId": "user-1", "role": "root", "exp": time.Now().Add(time.Hour).Unix()})},
		{name: "missing userId", token: signRaw(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})},
		{name: "missing exp", token: signRaw(t, jwt.MapClaims{"userId": "user-1", "role": "user"})},
		{name: "none algorithm", token: noneToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func expiredToken(t *testing.T) string {
	t.Helper()
	tm := NewTokenManager(testSecret, time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	return token
}

func foreignToken(t *testing.T) string {
	t.Helper()
	token, _, err := NewTokenManager("wrong_secret_key", time.Hour).Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	return token
}

// tamperPayload swaps the payload for one claiming admin while keeping the
// original signature.
func tamperPayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	forged := signRaw(t, jwt.MapClaims{"userId": "user-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	forgedParts := strings.Split(forged, ".")
	return parts[0] + "." + forgedParts[1] + "." + parts[2]
}

func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func noneToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{"userId": "user-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}
