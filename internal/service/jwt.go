package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RolePlayer   = "player"
	RoleOperator = "operator"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
)

var jwtSecret []byte

// InitJWT sets the HMAC secret used to sign and verify tokens.
func InitJWT(secret string) error {
	if secret == "" {
		return errors.New("JWT secret is empty")
	}
	jwtSecret = []byte(secret)
	return nil
}

// Claims is what a verified token says about its bearer.
type Claims struct {
	PlayerID int64
	Role     string
}

func validRole(role string) bool {
	return role == RolePlayer || role == RoleOperator
}

func GenerateJWT(playerID int64, role string, ttl time.Duration) (string, error) {
	if !validRole(role) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"player_id": playerID,
		"role":      role,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT verifies the signature and the exp/nbf claims.
func ParseJWT(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}

	id, ok := mc["player_id"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%w: player_id not found", ErrInvalidToken)
	}
	role, _ := mc["role"].(string)
	if !validRole(role) {
		return Claims{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	return Claims{PlayerID: int64(id), Role: role}, nil
}
