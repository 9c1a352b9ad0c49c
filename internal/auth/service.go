// internal/auth/service.go
// Service layer for Telegram sign in and token validation

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
)

// Service interface
type Service interface {
	SignIn(ctx context.Context, req *TelegramAuthRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BotToken          string
	InitDataMaxAge    time.Duration
	// AllowDevLogin accepts a bare telegram id when BotToken is empty
	AllowDevLogin bool
}

type service struct {
	config *Config
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(config *Config, log *logger.Logger) Service {
	return &service{config: config, log: log, now: time.Now}
}

// SignIn verifies the Telegram init data and issues an access token
func (s *service) SignIn(ctx context.Context, req *TelegramAuthRequest) (*AuthResponse, error) {
	now := s.now()

	var user *TelegramUser
	switch {
	case strings.TrimSpace(req.InitData) != "" && s.config.BotToken != "":
		u, err := VerifyInitData(req.InitData, s.config.BotToken, s.config.InitDataMaxAge, now)
		if err != nil {
			s.log.Warn("telegram init data rejected", "error", err)
			return nil, err
		}
		user = u

	case s.config.BotToken == "" && s.config.AllowDevLogin:
		if req.TelegramID == 0 {
			return nil, ErrInvalidInitData
		}
		user = &TelegramUser{ID: req.TelegramID, Username: req.Username}
		s.log.Debug("dev login", "telegram_id", req.TelegramID)

	case s.config.BotToken == "":
		return nil, ErrDevLoginDisabled

	default:
		return nil, ErrInvalidInitData
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Username, s.config.JWTSecret, s.config.AccessTokenExpiry, now)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		TelegramID:  user.ID,
		User:        user,
	}, nil
}

// ValidateToken validates an access token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != "access" {
		return nil, utils.ErrInvalidToken
	}
	return claims, nil
}
