package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token timestamps are written in milliseconds. NumericDate decodes through
// a float64, so decoded values keep microseconds and are rounded back to
// timeResolution before they are compared.
const timeResolution = time.Millisecond

func init() {
	jwt.TimePrecision = time.Microsecond
}

const (
	// DefaultIssuer is the iss claim written on every token.
	DefaultIssuer = "self"
	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 30 * time.Minute
)

var (
	// ErrTokenExpired is returned for a token at or past its exp claim.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken covers every other validation failure.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload of a gateway token.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Roles splits the scope claim into role names.
func (c *Claims) Roles() []string {
	return strings.Fields(c.Scope)
}

// Service issues and validates tokens with a single process-local key.
type Service struct {
	key    *Key
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithKey uses an existing key instead of generating one.
func WithKey(key *Key) Option {
	return func(s *Service) { s.key = key }
}

// New creates a Service. Unless WithKey is given a fresh key is generated.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		issuer: DefaultIssuer,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.key == nil {
		key, err := GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
		s.key = key
	}
	return s, nil
}

// Issue signs a token for subject carrying roles as its scope.
func (s *Service) Issue(subject string, roles []string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	issuedAt := s.now().Truncate(timeResolution)
	claims := Claims{
		Scope: strings.Join(roles, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.key.Fingerprint()
	return tok.SignedString(s.key.privateKey)
}

// Validate checks the signature, issuer and expiry of raw and returns its
// claims. A token is accepted from its issue time up to, not including, its
// exp claim.
func (s *Service) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.key.Public(), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	if !s.now().Before(claims.ExpiresAt.Time.Round(timeResolution)) {
		return nil, ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// PublicKeyPEM returns the verification key in PEM form.
func (s *Service) PublicKeyPEM() []byte {
	return s.key.PublicPem()
}

// Fingerprint identifies the signing key; it is also the kid header.
func (s *Service) Fingerprint() string {
	return s.key.Fingerprint()
}
