package auth

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
)

const testBotToken = "123456:test-bot-token"

func signedInitData(t *testing.T, botToken string, authDate time.Time, userID int64) string {
	t.Helper()
	user, err := json.Marshal(TelegramUser{ID: userID, FirstName: "Anna", Username: "anna"})
	require.NoError(t, err)

	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("user", string(user))
	values.Set("hash", hex.EncodeToString(signInitData(values, botToken)))
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	user, err := VerifyInitData(signedInitData(t, testBotToken, now.Add(-time.Minute), 42), testBotToken, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "anna", user.Username)

	_, err = VerifyInitData(signedInitData(t, "other:token", now, 42), testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)

	_, err = VerifyInitData(signedInitData(t, testBotToken, now.Add(-2*time.Hour), 42), testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInitDataExpired)

	_, err = VerifyInitData("auth_date=1&user=%7B%7D", testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)

	tampered, err := url.ParseQuery(signedInitData(t, testBotToken, now, 42))
	require.NoError(t, err)
	tampered.Set("user", `{"id":7}`)
	_, err = VerifyInitData(tampered.Encode(), testBotToken, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidInitData)
}

func TestService_SignInAndValidate(t *testing.T) {
	svc := NewService(&Config{
		JWTSecret:         "secret",
		AccessTokenExpiry: time.Hour,
		BotToken:          testBotToken,
		InitDataMaxAge:    time.Hour,
	}, logger.Nop())

	resp, err := svc.SignIn(context.Background(), &TelegramAuthRequest{InitData: signedInitData(t, testBotToken, time.Now(), 42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.TelegramID)
	assert.Equal(t, "Bearer", resp.TokenType)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.TelegramID)

	// a bare telegram id is refused once a bot token is configured
	_, err = svc.SignIn(context.Background(), &TelegramAuthRequest{TelegramID: 42})
	assert.ErrorIs(t, err, ErrInvalidInitData)

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestService_DevLogin(t *testing.T) {
	cfg := &Config{JWTSecret: "secret", AccessTokenExpiry: time.Hour, InitDataMaxAge: time.Hour, AllowDevLogin: true}

	resp, err := NewService(cfg, logger.Nop()).SignIn(context.Background(), &TelegramAuthRequest{TelegramID: 7, Username: "dev"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.TelegramID)

	cfg.AllowDevLogin = false
	_, err = NewService(cfg, logger.Nop()).SignIn(context.Background(), &TelegramAuthRequest{TelegramID: 7})
	assert.ErrorIs(t, err, ErrDevLoginDisabled)
}

func TestMiddleware_Authenticate(t *testing.T) {
	svc := NewService(&Config{JWTSecret: "secret", AccessTokenExpiry: time.Hour, InitDataMaxAge: time.Hour, AllowDevLogin: true}, logger.Nop())
	resp, err := svc.SignIn(context.Background(), &TelegramAuthRequest{TelegramID: 99})
	require.NoError(t, err)

	var seen int64
	protected := NewMiddleware(svc).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.TelegramIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(99), seen)

	seen = 0
	req = httptest.NewRequest(http.MethodGet, "/ws?token="+url.QueryEscape(resp.AccessToken), nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(99), seen)
}

func TestHandler_TelegramAuth(t *testing.T) {
	svc := NewService(&Config{
		JWTSecret:         "secret",
		AccessTokenExpiry: time.Hour,
		BotToken:          testBotToken,
		InitDataMaxAge:    time.Hour,
	}, logger.Nop())
	router := mux.NewRouter()
	NewHandler(svc, logger.Nop()).RegisterRoutes(router)

	post := func(body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/telegram", &buf))
		return rec
	}

	rec := post(TelegramAuthRequest{InitData: signedInitData(t, testBotToken, time.Now(), 5)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post(TelegramAuthRequest{InitData: signedInitData(t, "wrong:token", time.Now(), 5)})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
