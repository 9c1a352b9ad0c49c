// internal/auth/models.go

package auth

import "errors"

var (
	ErrInvalidInitData  = errors.New("invalid telegram init data")
	ErrInitDataExpired  = errors.New("telegram init data expired")
	ErrDevLoginDisabled = errors.New("login without init data is disabled")
)

// TelegramAuthRequest is the body of POST /auth/telegram.
// TelegramID is only honoured when no bot token is configured outside production.
type TelegramAuthRequest struct {
	InitData   string `json:"init_data"`
	TelegramID int64  `json:"telegram_id" validate:"omitempty,gt=0"`
	Username   string `json:"username" validate:"omitempty,max=100"`
}

// AuthResponse is returned after a successful sign in
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	TelegramID  int64         `json:"telegram_id"`
	User        *TelegramUser `json:"user,omitempty"`
}
