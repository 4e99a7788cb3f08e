// Package token encodes and decodes the signed bearer tokens exchanged with
// clients. Tokens are HMAC-SHA256 JWTs carrying the subject username and an
// expiry; nothing else in the payload is load-bearing.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dromero/jsonkeep/internal/apperr"
)

// Codec signs and verifies bearer tokens with a fixed secret loaded once at
// startup. There is no clock skew tolerance.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint produces a signed bearer token for username, issued at now and
// expiring after the configured TTL.
func (c *Codec) Mint(username string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", apperr.Wrap(err, apperr.TokenProcessing, "signing bearer token failed")
	}
	return signed, nil
}

// Subject extracts the subject username from a token. Any failure, a bad
// signature, a malformed token or an expired one, is reported as the same
// token-processing error; callers never learn which.
func (c *Codec) Subject(raw string) (string, error) {
	tok, err := c.parse(raw, time.Now())
	if err != nil {
		return "", err
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.New(apperr.TokenProcessing, "bearer token has no subject")
	}
	return sub, nil
}

// Valid reports whether the token's signature verifies, its subject equals
// username and it has not expired as of now.
func (c *Codec) Valid(raw, username string, now time.Time) bool {
	tok, err := c.parse(raw, now)
	if err != nil {
		return false
	}
	sub, err := tok.Claims.GetSubject()
	return err == nil && sub == username
}

func (c *Codec) parse(raw string, now time.Time) (*jwt.Token, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.TokenProcessing, "unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperr.Wrap(err, apperr.TokenProcessing, "bearer token rejected")
	}
	if !tok.Valid {
		return nil, apperr.New(apperr.TokenProcessing, "bearer token rejected")
	}
	return tok, nil
}
