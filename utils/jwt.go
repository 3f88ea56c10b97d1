package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"salonify/config"

	"github.com/golang-jwt/jwt"
)

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// SetJWTSecret overrides the signing secret. main calls it once after LoadConfig.
func SetJWTSecret(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = []byte(secret)
}

func getSecret() []byte {
	secretMu.RLock()
	key := secretKey
	secretMu.RUnlock()
	if len(key) > 0 {
		return key
	}
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte("salonify-dev-secret")
}

// TokenClaims are the identity fields carried in a session token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// GenerateToken creates a signed JWT for the given user that expires after duration.
func GenerateToken(userID, email, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return getSecret(), nil
	})
}

// ExtractClaims validates tokenString and returns its identity claims.
func ExtractClaims(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &TokenClaims{UserID: sub, Email: email, Role: role}, nil
}
