// Package auth implements the session core: a token codec that mints and
// verifies self-contained signed session tokens, and the account resolver
// that turns a verified external profile into a local user row.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token decode failures.  The HTTP layer collapses all three into one
// opaque 401 so clients cannot probe which check failed; they stay
// distinct here for internal logging.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claim is the decoded payload of a session token: which account it
// belongs to and until when it is good.  Claims are never persisted;
// they are rebuilt from the token string on every request.
type Claim struct {
	Subject   uint64    // account id the token was issued for
	ExpiresAt time.Time // instant the token stops being valid
}

// Codec signs and verifies session tokens with a process-wide symmetric
// secret.  The secret and algorithm are fixed at startup and shared
// between issuance (login callback) and verification (middleware).
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec resolves the configured algorithm identifier (e.g. "HS256")
// and returns a ready codec.  Only HMAC methods are accepted: the same
// secret signs and verifies, so an asymmetric identifier here is a
// configuration mistake.
func NewCodec(secret, alg string) (*Codec, error) {
	m := jwt.GetSigningMethod(alg)
	if m == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", alg)
	}
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", alg)
	}
	return &Codec{secret: []byte(secret), method: m}, nil
}

// Issue builds and signs a token for the given account id, valid from
// now for ttl.  The subject is serialized as a string, matching what
// Decode expects back.
func (c *Codec) Issue(accountID uint64, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(accountID, 10),
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(c.method, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies the signature and freshness of a token relative to
// the supplied instant and returns its claim.  Failure is always one of
// ErrMalformed, ErrInvalidSignature or ErrExpired.
func (c *Codec) Decode(token string, now time.Time) (Claim, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claim{}, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claim{}, ErrExpired
		default:
			return Claim{}, ErrMalformed
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claim{}, ErrMalformed
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Claim{}, ErrMalformed
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claim{}, ErrMalformed
	}
	return Claim{Subject: id, ExpiresAt: exp.Time}, nil
}
