package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	c, err := NewCodec(secret, "HS256")
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return c
}

func TestIssueDecode_Roundtrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "super-secret")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tok, err := c.Issue(42, now, time.Hour)
	require.NoError(t, err)

	claim, err := c.Decode(tok, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, uint64(42), claim.Subject)
	require.Equal(t, now.Add(time.Hour).Unix(), claim.ExpiresAt.Unix())
}

func TestDecode_ExpiredAtAndAfterExpiry(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "super-secret")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tok, err := c.Issue(7, now, time.Hour)
	require.NoError(t, err)

	// Valid strictly before expiry.
	_, err = c.Decode(tok, now.Add(time.Hour-time.Second))
	require.NoError(t, err)

	// now == expiry is already expired.
	_, err = c.Decode(tok, now.Add(time.Hour))
	require.ErrorIs(t, err, ErrExpired)

	_, err = c.Decode(tok, now.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrExpired)
}

func TestDecode_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	tok, err := newTestCodec(t, "right-secret").Issue(1, now, time.Hour)
	require.NoError(t, err)

	_, err = newTestCodec(t, "wrong-secret").Decode(tok, now)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "k")
	for _, tok := range []string{"", "garbage", "not.a.jwt"} {
		_, err := c.Decode(tok, time.Now().UTC())
		require.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}

func TestDecode_NonNumericSubject(t *testing.T) {
	t.Parallel()

	secret := "shared"
	now := time.Now().UTC()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": now.Add(time.Hour).Unix(),
	})
	tok, err := raw.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = newTestCodec(t, secret).Decode(tok, now)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_MissingExpiry(t *testing.T) {
	t.Parallel()

	secret := "shared"
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "5"})
	tok, err := raw.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = newTestCodec(t, secret).Decode(tok, time.Now().UTC())
	require.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodec_RejectsUnknownAndAsymmetricAlgs(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("secret", "HS512")
	require.NoError(t, err)

	_, err = NewCodec("secret", "NOPE")
	require.Error(t, err)

	_, err = NewCodec("secret", "RS256")
	require.Error(t, err)
}
