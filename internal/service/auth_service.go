package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

// AuthConfig defines configuration for token validation.
type AuthConfig struct {
	AccessTokenSecret string
}

// AuthService validates access tokens issued by the platform's identity
// service. Token issuance, sessions, and password flows live elsewhere; this
// service only consumes the claims.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, logger: logger}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.NetworkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.NetworkClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.NetworkClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.ClassroomID == "" && claims.Role != models.RolePlatformAdmin {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no acting classroom")
	}

	return claims, nil
}
