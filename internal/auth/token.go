package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType is the OAuth2 token type reported to clients.
const TokenType = "bearer"

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256-signed access tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a token for subject that expires exactly ttl from now.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", &ValidationError{Field: "subject", Reason: "must not be empty"}
	}
	if ttl <= 0 {
		return "", &ValidationError{Field: "ttl", Reason: "must be positive"}
	}

	now := s.now()
	exp := numericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims{
		Subject:   subject,
		IssuedAt:  numericDate(now),
		ExpiresAt: &exp,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// It fails with ErrTokenExpired once now >= exp and with ErrTokenMalformed
// for anything else wrong with the token.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &accessClaims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	return &Claims{
		Subject:   claims.Subject,
		IssuedAt:  time.Time(claims.IssuedAt),
		ExpiresAt: time.Time(*claims.ExpiresAt),
	}, nil
}

// accessClaims is the {sub, iat, exp} payload. jwt.NumericDate truncates to
// jwt.TimePrecision, so times are carried as numericDate instead.
type accessClaims struct {
	Subject   string       `json:"sub"`
	IssuedAt  numericDate  `json:"iat,omitzero"`
	ExpiresAt *numericDate `json:"exp,omitempty"`
}

func (c *accessClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: time.Time(*c.ExpiresAt)}, nil
}

func (c *accessClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt.IsZero() {
		return nil, nil
	}
	return &jwt.NumericDate{Time: time.Time(c.IssuedAt)}, nil
}

func (c *accessClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c *accessClaims) GetIssuer() (string, error)              { return "", nil }
func (c *accessClaims) GetSubject() (string, error)             { return c.Subject, nil }
func (c *accessClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// numericDate is seconds since the epoch with up to nine fractional
// digits. Whole seconds encode as plain integers.
type numericDate time.Time

func (d numericDate) IsZero() bool { return time.Time(d).IsZero() }

func (d numericDate) MarshalJSON() ([]byte, error) {
	ns := time.Time(d).UnixNano()
	sec, frac := ns/int64(time.Second), ns%int64(time.Second)
	if frac == 0 {
		return strconv.AppendInt(nil, sec, 10), nil
	}
	return []byte(strings.TrimRight(fmt.Sprintf("%d.%09d", sec, frac), "0")), nil
}

func (d *numericDate) UnmarshalJSON(b []byte) error {
	s := string(b)

	whole, frac, _ := strings.Cut(s, ".")
	if sec, err := strconv.ParseUint(whole, 10, 63); err == nil && len(frac) <= 9 {
		var ns uint64
		if frac != "" {
			ns, err = strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 63)
		}
		if err == nil {
			*d = numericDate(time.Unix(int64(sec), int64(ns)).UTC())
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("numeric date %q: %w", s, err)
	}
	*d = numericDate(time.Unix(0, int64(f*float64(time.Second))).UTC())
	return nil
}
