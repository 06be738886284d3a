// Package auth implements token based authentication.
//
// Authentication is optional. It is active as soon as JWT_SECRET is set
// in the environment, without the variable every request is let through.
package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	accessTokenLifetime  = 15 * time.Minute
	refreshTokenLifetime = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken     = errors.New("the token is invalid or expired")
	ErrNotARefreshToken = errors.New("the token is not a refresh token")
)

// Claims are the JWT claims carried by both token types.
type Claims struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// Enabled reports whether authentication is configured.
func Enabled() bool {
	return os.Getenv("JWT_SECRET") != ""
}

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func generateToken(userID uint, email, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// GenerateAccessToken returns a short lived token for API requests.
func GenerateAccessToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, TokenTypeAccess, accessTokenLifetime)
}

// GenerateRefreshToken returns a long lived token that can only be
// exchanged for a new token pair.
func GenerateRefreshToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, TokenTypeRefresh, refreshTokenLifetime)
}

func parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessToken checks an access token and returns its claims.
func ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateRefreshToken checks a refresh token and returns its claims.
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrNotARefreshToken
	}

	return claims, nil
}

// Keys used by Middleware to store the authenticated user in the gin
// context.
const (
	ContextUserID = "auth-user-id"
	ContextEmail  = "auth-email"
)

// Middleware enforces a valid access token on every request when
// authentication is configured.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "the Authorization header must be set to 'Bearer <token>'",
			})
			return
		}

		claims, err := ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
