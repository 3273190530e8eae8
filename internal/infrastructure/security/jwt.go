package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role names carried in dashboard tokens.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// GenerateRoleToken creates an HS256 JWT asserting a dashboard role.
func GenerateRoleToken(role, jwtSecret string, lifetime time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateRoleToken validates a token and returns its role claim.
func ValidateRoleToken(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", errors.New("token missing role claim")
	}
	return role, nil
}
