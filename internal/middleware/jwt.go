package middleware

import (
	"net/http"
	"strings"
	"time"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxUserName  = "user_name"

	refreshWindow = 24 * time.Hour
)

// Claims is the token payload.
type Claims struct {
	UID   int    `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with one secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(u model.UserInfo) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:   u.ID,
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
		},
	}).SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTAuth rejects requests without a bearer token (401) or with one that does
// not verify (403).
func JWTAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(CtxUserID, claims.UID)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserName, claims.Name)
		c.Request = c.Request.WithContext(logger.WithAttrs(c.Request.Context(), "uid", claims.UID))

		// 残り1日を切ったら再発行
		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < refreshWindow {
			if fresh, err := tokens.Issue(model.UserInfo{ID: claims.UID, Email: claims.Email, Name: claims.Name}); err == nil {
				c.Header("X-New-Token", fresh)
			}
		}

		c.Next()
	}
}
