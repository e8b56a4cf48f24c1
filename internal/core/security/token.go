package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

const (
	// DefaultTokenTTL is the lifetime of an access token when none is given.
	DefaultTokenTTL = 30 * time.Minute

	minSecretLength = 32
)

// weakSecrets are placeholder values that must never sign production tokens.
var weakSecrets = []string{
	"your-secret-key-change-this-in-production",
	"your-secret-key",
	"change-this",
	"changeme",
	"secret",
	"password",
}

// Claims is the payload of an access token. Role is advisory: authorization
// always re-reads the role from the user store.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims builds claims for subject with an advisory role.
func NewClaims(subject string, role domain.Role) Claims {
	return Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

// TokenOption configures a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCodec issues and verifies HS256 signed access tokens.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// ValidateSecret rejects signing secrets that are short or contain a known
// placeholder value.
func ValidateSecret(secret string) error {
	if len(secret) < minSecretLength {
		return &domain.ConfigurationError{
			Field:  "SECRET_KEY",
			Reason: fmt.Sprintf("must be at least %d characters", minSecretLength),
		}
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Contains(lower, weak) {
			return &domain.ConfigurationError{
				Field:  "SECRET_KEY",
				Reason: "appears to be a weak or default value",
			}
		}
	}
	return nil
}

// NewTokenCodec validates secret and returns a codec whose tokens live for
// defaultTTL unless Issue is given an explicit ttl.
func NewTokenCodec(secret string, defaultTTL time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	if defaultTTL <= 0 {
		return nil, &domain.ConfigurationError{Field: "ACCESS_TOKEN_EXPIRE_MINUTES", Reason: "must be positive"}
	}

	c := &TokenCodec{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)
	return c, nil
}

// DefaultTTL returns the configured token lifetime.
func (c *TokenCodec) DefaultTTL() time.Duration { return c.defaultTTL }

// Issue signs claims with an expiry of now+ttl. A zero ttl selects the
// default lifetime; negative values produce an already expired token.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	claims.ExpiresAt = jwt.NewNumericDate(c.now().Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded claims. Every
// failure is reported as domain.ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
