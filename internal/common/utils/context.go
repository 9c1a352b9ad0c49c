package utils

import "context"

type contextKey string

const telegramIDKey contextKey = "telegramID"

// WithTelegramID stores the authenticated Telegram user id in ctx
func WithTelegramID(ctx context.Context, telegramID int64) context.Context {
	return context.WithValue(ctx, telegramIDKey, telegramID)
}

// TelegramIDFromContext returns the authenticated Telegram user id
func TelegramIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(telegramIDKey).(int64)
	return id, ok && id != 0
}
