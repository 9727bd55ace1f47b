package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// In-memory fakes（handler→usecaseを実体で通す）
// =====================

type memUserRepo struct {
	seq   int64
	users map[int64]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.seq++
	user.ID = r.seq
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

type memSessionRepo struct {
	sessions map[int64]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[int64]*model.Session{}}
}

func (r *memSessionRepo) Upsert(ctx context.Context, s *model.Session) error {
	cp := *s
	r.sessions[s.UserID] = &cp
	return nil
}

func (r *memSessionRepo) Rotate(ctx context.Context, userID int64, oldHash, newHash string, expiresAt time.Time) error {
	s, ok := r.sessions[userID]
	if !ok || s.RefreshTokenHash != oldHash {
		return repository.ErrSessionNotFound
	}
	s.RefreshTokenHash = newHash
	s.ExpiresAt = expiresAt
	return nil
}

func (r *memSessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	delete(r.sessions, userID)
	return nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type passValidator struct{}

func (passValidator) ValidateRegister(ctx context.Context, username, email, password string) error {
	return nil
}
func (passValidator) ValidateLogin(ctx context.Context, identifier, password string) error {
	return nil
}
func (passValidator) ValidateChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return nil
}

type noLimiter struct{}

func (noLimiter) Enforce(ctx context.Context, identifier string) error { return nil }
func (noLimiter) Reset(ctx context.Context, identifier string) error   { return nil }

// =====================
// Helper
// =====================

func newTestHandler(t *testing.T) (*handler.AuthHandler, *memUserRepo, *memSessionRepo) {
	t.Helper()

	cfg := config.Config{
		JWT: config.JWT{
			AccessSecret:  "access-test-secret",
			RefreshSecret: "refresh-test-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    24 * time.Hour,
		},
	}

	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	uc := usecase.NewAuthUsecase(cfg, users, sessions, passValidator{}, noLimiter{})

	return handler.NewAuthHandler(uc, cfg), users, sessions
}

func seedUser(t *testing.T, users *memUserRepo, username, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	u := &model.User{Username: username, Email: email, PasswordHash: string(hash)}
	assert.NoError(t, users.Create(context.Background(), u))
	return u
}

func doJSON(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newEcho(h *handler.AuthHandler) *echo.Echo {
	e := echo.New()
	h.RegisterPublicRoutes(e.Group(""))
	return e
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// =====================
// Tests
// =====================

func TestAuthHandler_Register(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := newEcho(h)

	rec := doJSON(e, http.MethodPost, "/users/register",
		`{"username":"alice","email":"alice@test.com","password":"password1","full_name":"Alice"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var out usecase.AuthRegisterResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "alice", out.User.Username)
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h, users, _ := newTestHandler(t)
	seedUser(t, users, "alice", "alice@test.com", "password1")
	e := newEcho(h)

	rec := doJSON(e, http.MethodPost, "/users/register",
		`{"username":"alice","email":"other@test.com","password":"password1"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	h, users, _ := newTestHandler(t)
	seedUser(t, users, "alice", "alice@test.com", "password1")
	e := newEcho(h)

	rec := doJSON(e, http.MethodPost, "/users/login",
		`{"identifier":"alice@test.com","password":"password1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	access := findCookie(rec, middleware.AccessCookieName)
	refresh := findCookie(rec, middleware.RefreshCookieName)
	if assert.NotNil(t, access) && assert.NotNil(t, refresh) {
		assert.NotEmpty(t, access.Value)
		assert.NotEmpty(t, refresh.Value)
		assert.True(t, access.HttpOnly)
		assert.True(t, refresh.HttpOnly)
	}

	var out usecase.AuthLoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.NotEmpty(t, out.Token.RefreshToken)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, users, _ := newTestHandler(t)
	seedUser(t, users, "alice", "alice@test.com", "password1")
	e := newEcho(h)

	rec := doJSON(e, http.MethodPost, "/users/login",
		`{"identifier":"alice@test.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec, middleware.AccessCookieName))
}

func TestAuthHandler_Refresh_FromCookie(t *testing.T) {
	h, users, _ := newTestHandler(t)
	seedUser(t, users, "alice", "alice@test.com", "password1")
	e := newEcho(h)

	login := doJSON(e, http.MethodPost, "/users/login",
		`{"identifier":"alice@test.com","password":"password1"}`)
	refreshCookie := findCookie(login, middleware.RefreshCookieName)
	assert.NotNil(t, refreshCookie)

	rec := doJSON(e, http.MethodPost, "/users/refresh-token", ``,
		&http.Cookie{Name: middleware.RefreshCookieName, Value: refreshCookie.Value})

	assert.Equal(t, http.StatusOK, rec.Code)

	var out usecase.TokenPairDTO
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEqual(t, refreshCookie.Value, out.RefreshToken)

	//同じrefresh cookieをもう一度使うと401
	reused := doJSON(e, http.MethodPost, "/users/refresh-token", ``,
		&http.Cookie{Name: middleware.RefreshCookieName, Value: refreshCookie.Value})
	assert.Equal(t, http.StatusUnauthorized, reused.Code)

	var errOut handler.ErrorResponse
	assert.NoError(t, json.Unmarshal(reused.Body.Bytes(), &errOut))
	assert.Equal(t, "refresh token is expired or used", errOut.Error)
}

func TestAuthHandler_Refresh_FromBody(t *testing.T) {
	h, users, _ := newTestHandler(t)
	seedUser(t, users, "alice", "alice@test.com", "password1")
	e := newEcho(h)

	login := doJSON(e, http.MethodPost, "/users/login",
		`{"identifier":"alice@test.com","password":"password1"}`)
	var loginOut usecase.AuthLoginResponse
	assert.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginOut))

	rec := doJSON(e, http.MethodPost, "/users/refresh-token",
		`{"refresh_token":"`+loginOut.Token.RefreshToken+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h, _, _ := newTestHandler(t)
	e := newEcho(h)

	rec := doJSON(e, http.MethodPost, "/users/refresh-token", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
