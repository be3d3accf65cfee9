// Package httpapi exposes the advisor over HTTP: a bearer-authenticated
// RAG endpoint plus health and metrics routes.
package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
)

// userIDKey is the gin context key carrying the verified caller identity.
const userIDKey = "user_id"

// AuthMiddleware verifies the HS256 bearer token and stores its subject
// claim as the caller identity. Missing or invalid tokens fail closed with
// 401 and no side effects.
func AuthMiddleware(secret string, log *logger.Logger) gin.HandlerFunc {
	key := []byte(secret)
	log = log.WithModule("auth")
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			unauthorized(c)
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			log.WithError(err).Debug("token verification failed")
			unauthorized(c)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			log.Debug("token carries no subject claim")
			unauthorized(c)
			return
		}

		c.Set(userIDKey, sub)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
