package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the
// Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the validated payload of an access token: the subject user
// id and the email it was issued for. No roles or scopes are modeled.
type Claims struct {
	UserID uint64
	Email  string
}

var errInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's email, and a TTL in minutes.
// The JWT carries the standard claims subject (sub), expiration (exp) and
// issued at (iat) plus the email.
func NewAccessToken(secret string, userID uint64, email string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry of a raw token string
// and returns its claims. Only HMAC-signed tokens are accepted; anything
// else fails as invalid.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, errInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidToken
	}
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return Claims{}, errInvalidToken
	}
	email, _ := mc["email"].(string)
	return Claims{UserID: uint64(sub), Email: email}, nil
}
