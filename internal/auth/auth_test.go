package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	v := NewValidator(testSecret)

	token, err := v.Issue(42, time.Hour)
	require.NoError(t, err)

	accountID, err := v.AccountID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accountID)
}

func TestExpiredToken(t *testing.T) {
	v := NewValidator(testSecret)

	token, err := v.Issue(42, -time.Minute)
	require.NoError(t, err)

	_, err = v.AccountID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecret(t *testing.T) {
	other := NewValidator("a-different-secret")
	token, err := other.Issue(42, time.Hour)
	require.NoError(t, err)

	v := NewValidator(testSecret)
	_, err = v.AccountID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedToken(t *testing.T) {
	v := NewValidator(testSecret)

	for _, tok := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := v.AccountID(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	v := NewValidator(testSecret)
	_, err = v.AccountID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	v := NewValidator(testSecret)
	_, err = v.AccountID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnsignedAlgorithmRejected(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(42, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v := NewValidator(testSecret)
	_, err = v.AccountID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
