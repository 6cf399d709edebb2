package service

import (
	"errors"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// UserJWTClaims 用户 JWT 声明（绑定设备命名空间）
type UserJWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// TokenService 用户令牌签发与校验
type TokenService struct {
	cfg config.JWTConfig
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// GenerateUserJWT 为当前会话签发令牌
func (s *TokenService) GenerateUserJWT(session *models.Session, deviceID string) (string, time.Time, error) {
	if session == nil || !session.Valid() {
		return "", time.Time{}, ErrAuthRequired
	}
	secret := strings.TrimSpace(s.cfg.SecretKey)
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolveUserJWTExpireHours(s.cfg)) * time.Hour)
	claims := UserJWTClaims{
		UserID:   session.ID,
		Email:    session.Email,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户令牌
func (s *TokenService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

// Configured 是否已配置签名密钥
func (s *TokenService) Configured() bool {
	return s != nil && strings.TrimSpace(s.cfg.SecretKey) != ""
}
