package jwt

import (
	"time"

	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// Staff roles. Only admins may complete reservations by hand.
const (
	RoleAdmin     = "admin"
	RoleFrontDesk = "frontdesk"
)

var (
	ErrInvalidToken = errs.New("invalid token")
	ErrExpiredToken = errs.New("token expired")
)

// Claims mirrors what the auth service puts into staff tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Verifier checks staff bearer tokens. Signing exists for tooling and tests.
type Verifier struct {
	key    []byte
	issuer string
	parser *jwt.Parser
}

func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		key:    []byte(cfg.Secret),
		issuer: cfg.Issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithLeeway(cfg.Leeway),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *Verifier) Sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}

func (v *Verifier) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	switch {
	case errs.Is(err, jwt.ErrTokenExpired):
		return nil, errs.Mark(err, ErrExpiredToken)
	case err != nil:
		return nil, errs.Mark(err, ErrInvalidToken)
	case !token.Valid || claims.Subject == "" || claims.Role == "":
		return nil, ErrInvalidToken
	}
	return claims, nil
}
