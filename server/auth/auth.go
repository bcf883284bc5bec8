// Package auth issues and verifies the bearer tokens that identify users on
// authenticated routes.
package auth

import (
	"os"
	"time"

	"newsdeck/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// fallbackSecret keeps development setups working without a configured
	// secret. Production deployments must set JWT_SECRET.
	fallbackSecret = "news-aggregator-secret"

	tokenTTL = time.Hour
)

// ErrTokenExpired distinguishes an expired token from a malformed or
// tampered one so the middleware can report it precisely.
var ErrTokenExpired = errors.New("token expired")

// Claims carried in every issued token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with a one hour lifetime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService reads the signing secret from JWT_SECRET, falling back to
// the development secret when unset.
func NewTokenService() *TokenService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = fallbackSecret
	}
	return NewTokenServiceWithSecret(secret)
}

func NewTokenServiceWithSecret(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    tokenTTL,
		now:    time.Now,
	}
}

// Sign issues a token identifying the user.
func (t *TokenService) Sign(user model.User) (string, error) {
	now := t.now()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Expiry is
// reported as ErrTokenExpired; every other failure is a generic invalid
// token error.
func (t *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, "invalid token")
	}
	return claims, nil
}
