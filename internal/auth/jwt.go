package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

// GenerateSessionToken mints the bearer token for a session row. The token
// carries the session id so the row can be checked on every request.
func GenerateSessionToken(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid":     sessionID,
		"user_id": userID,
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifySessionToken(tokenString string) (string, uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return "", 0, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return "", 0, fmt.Errorf("Invalid token claims")
	}

	sessionID, ok := claims["sid"].(string)

	if !ok || sessionID == "" {
		return "", 0, fmt.Errorf("Invalid session ID in token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return "", 0, fmt.Errorf("Invalid user ID in token claims")
	}

	return sessionID, uint(userIDFloat), nil
}
