package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles recognized by the service. Receptionists and managers are staff.
const (
	RoleGuest        = "guest"
	RoleReceptionist = "receptionist"
	RoleManager      = "manager"
)

// ErrUnauthenticated is returned when a token is missing, malformed or expired.
var ErrUnauthenticated = errors.New("unauthenticated")

// Principal is the verified caller identity passed explicitly into every
// operation that needs ownership or role checks.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// IsStaff reports whether the principal holds a staff role.
func (p Principal) IsStaff() bool {
	return p.Role == RoleReceptionist || p.Role == RoleManager
}

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager verifies access tokens and extracts the principal. It does not
// manage credentials; token issuance belongs to the identity service.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager creates a JWTManager with the given signing secret.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// Generate signs a new access token for the given user. Used by tests and
// local tooling; production tokens come from the identity service signed with
// the shared secret.
func (m *JWTManager) Generate(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns the embedded principal.
func (m *JWTManager) Verify(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}

	return Principal{UserID: userID, Role: claims.Role}, nil
}
