package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace/internal/domain"
)

const testSecret = "test-secret"

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.Issue("user-123", domain.RoleSeller)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.SubjectID)
	assert.Equal(t, domain.RoleSeller, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenManager_Parse_TamperedClaims(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Issue("user-123", domain.RoleUser)
	require.NoError(t, err)

	// swap the payload for one claiming a different role, keep the signature
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"role":"user"`, `"role":"seller"`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = tm.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_Parse_TamperedSignature(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Issue("user-123", domain.RoleUser)
	require.NoError(t, err)

	mutated := []byte(token)
	last := len(mutated) - 1
	if mutated[last] == 'A' {
		mutated[last] = 'B'
	} else {
		mutated[last] = 'A'
	}

	_, err = tm.Parse(string(mutated))
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_Parse_ForeignSecret(t *testing.T) {
	issuer := NewTokenManager("other-secret", time.Hour)
	verifier := NewTokenManager(testSecret, time.Hour)

	token, _, err := issuer.Issue("user-123", domain.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_Parse_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	// craft an already-expired token with a valid signature
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Parse_Malformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "only.two"} {
		_, err := tm.Parse(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenManager_Parse_RejectsUnexpectedMethod(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	other := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := other.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)
	assert.Equal(t, 7*24*time.Hour, tm.TTL())
}
