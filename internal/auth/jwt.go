package auth

import (
	"fmt"
	"time"

	"github.com/geoguard/platform/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the custom JWT claims for both roles. The token replaces the
// browser-local-storage session of the original dashboard: presence and
// validity of a token gate every non-public route.
type Claims struct {
	jwt.RegisteredClaims
	Username       string      `json:"username"`
	Role           domain.Role `json:"role"`
	AssignedUnitID string      `json:"assigned_unit_id,omitempty"`
	CanSeeAllUnits bool        `json:"can_see_all_units,omitempty"`
}

// Scope derives the view scope carried by the token.
func (c *Claims) Scope() domain.ViewScope {
	if c.Role == domain.RoleCommander || c.CanSeeAllUnits {
		return domain.ScopeAll()
	}
	if c.AssignedUnitID != "" {
		if id, err := uuid.Parse(c.AssignedUnitID); err == nil {
			return domain.ScopeUnit(id)
		}
	}
	return domain.ViewScope{}
}

// JWTManager handles token generation and validation.
type JWTManager struct {
	secret             []byte
	commanderExpiry    time.Duration
	subCommanderExpiry time.Duration
}

// NewJWTManager creates a JWT manager with role-specific expiry durations.
func NewJWTManager(secret string, commanderExpiry, subCommanderExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		commanderExpiry:    commanderExpiry,
		subCommanderExpiry: subCommanderExpiry,
	}
}

// GenerateToken creates a signed JWT for the given user profile.
func (m *JWTManager) GenerateToken(user *domain.UserProfile) (string, error) {
	var expiry time.Duration
	switch user.Role {
	case domain.RoleCommander:
		expiry = m.commanderExpiry
	case domain.RoleSubCommander:
		expiry = m.subCommanderExpiry
	default:
		return "", fmt.Errorf("unknown role: %s", user.Role)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
		Username:       user.Username,
		Role:           user.Role,
		CanSeeAllUnits: user.CanSeeAllUnits,
	}
	if user.AssignedUnitID != nil {
		claims.AssignedUnitID = user.AssignedUnitID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT, returning claims if valid.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
