package sandbox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/handlers"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

const issuerName = "xbe-sandbox"

// Issuer signs and verifies HS256 bearer tokens for the sandbox.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer uses secret, or a random one when secret is empty.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: secret, ttl: ttl}, nil
}

func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token.
func (i *Issuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// authMiddleware rejects requests without a valid bearer token with 401.
func authMiddleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			handlers.AbortWithError(c, srvErrors.NewUnauthorizedError())
			return
		}
		subject, err := issuer.Verify(token)
		if err != nil {
			zap.S().Named("sandbox").Debugw("token rejected", "expired", errors.Is(err, jwt.ErrTokenExpired), "error", err)
			handlers.AbortWithError(c, srvErrors.NewUnauthorizedError())
			return
		}
		c.Set("subject", subject)
		c.Next()
	}
}
