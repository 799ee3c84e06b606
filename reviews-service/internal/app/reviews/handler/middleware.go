package handler

import (
	"errors"
	"net/http"
	"strings"

	"reviewdeck/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DeviceIDHeader = "X-Device-ID"
	voterIDKey     = "voter_id"
)

// JWTClaims - claims токена, выданного auth сервисом
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IdentityMiddleware определяет голосующего: user_id из JWT или X-Device-ID.
// Без JWT секрета Authorization игнорируется.
type IdentityMiddleware struct {
	jwtSecret string
}

func NewIdentityMiddleware(jwtSecret string) *IdentityMiddleware {
	return &IdentityMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Identify кладет voter_id в контекст, если он передан; анонимный запрос пропускается
func (m *IdentityMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		voterID, err := m.resolve(c)
		if err != nil {
			if ve, ok := entity.AsValidationError(err); ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, entity.ErrorResponse{Error: "invalid voter id", Fields: ve.Fields})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{Error: err.Error()})
			return
		}

		if voterID != "" {
			c.Set(voterIDKey, voterID)
		}
		c.Next()
	}
}

// RequireIdentity ставится после Identify на маршруты, которым нужен голосующий
func (m *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if voterID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error: "Authorization bearer token or " + DeviceIDHeader + " header required",
			})
			return
		}
		c.Next()
	}
}

func (m *IdentityMiddleware) resolve(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" && m.jwtSecret != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return "", errors.New("invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok {
			return "", errors.New("invalid token claims")
		}
		if err := entity.ValidateVoterID(claims.UserID); err != nil {
			return "", err
		}
		return claims.UserID, nil
	}

	deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
	if deviceID == "" {
		return "", nil
	}
	if err := entity.ValidateVoterID(deviceID); err != nil {
		return "", err
	}
	return deviceID, nil
}

func voterID(c *gin.Context) string {
	return c.GetString(voterIDKey)
}
