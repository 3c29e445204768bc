package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken covers every verification failure: malformed token, bad
// signature, expiry, missing or non-numeric subject. Callers must not be
// able to tell which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Validator verifies bearer tokens against the shared signing secret and
// extracts the account id they authorize. It keeps no per-request state.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// AccountID verifies the token and returns the account id from its subject
// claim. Any failure is reported as ErrInvalidToken.
func (v *Validator) AccountID(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	// jwt.ParseWithClaims already rejected expired tokens; the subject still
	// has to be present and numeric.
	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return 0, ErrInvalidToken
	}
	return accountID, nil
}

// Issue signs a token for the given account, valid for ttl. Used by the
// tokengen tool and tests; the production issuer lives in the chat bot.
func (v *Validator) Issue(accountID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(accountID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
