package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "paneltop"

// DefaultTokenExpiry is used when a token is minted without an explicit TTL.
const DefaultTokenExpiry = 90 * 24 * time.Hour

// Claims are carried by action tokens.
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// Auth signs and checks the bearer tokens required by the action endpoints.
// A nil *Auth disables the check.
type Auth struct {
	secret []byte
}

// NewAuth returns nil when secret is empty, which leaves actions open.
func NewAuth(secret string) *Auth {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil
	}
	return &Auth{secret: []byte(secret)}
}

// GenerateToken mints a token for operator valid for ttl.
func (a *Auth) GenerateToken(operator string, ttl time.Duration) (string, error) {
	if a == nil {
		return "", errors.New("no auth secret configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenExpiry
	}

	now := time.Now()
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token.
func (a *Auth) Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			logger.Warn("Rejected action without token", "ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("Rejected action with invalid token", "ip", c.ClientIP(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("operator", claims.Operator)
		c.Next()
	}
}
