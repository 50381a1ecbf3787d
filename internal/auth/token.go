package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/questforge/quest-board/internal/domain"
)

// Token verification failures, split so the orchestrator can log the real
// reason while clients only ever see a generic rejection.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenSignature    = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token is expired")
	ErrTokenRoleMismatch = errors.New("token role does not match expected role")
)

// Claims is the signed payload carried by access and refresh tokens.
// The wire fields are sub, role, iat and exp.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewClaims builds a claims set for the given principal, valid from issuedAt
// until expiresAt.
func NewClaims(principalID int64, role domain.Role, issuedAt, expiresAt time.Time) *Claims {
	return &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// PrincipalID parses the subject back into a numeric principal identifier.
func (c *Claims) PrincipalID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateToken signs the claims with HS256 under the given secret.
func GenerateToken(secret []byte, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a token against the given secret and expected role and
// returns its claims. Verification is always parameterized by the role the
// secret belongs to: a structurally valid token whose role claim does not
// match expectedRole is rejected even when the signature verifies.
func ParseToken(secret []byte, expectedRole domain.Role, tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Role != expectedRole {
		return nil, ErrTokenRoleMismatch
	}
	return claims, nil
}
