package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Helper
// =====================

const testAccessSecret = "access-test-secret"

func testCfg() config.Config {
	return config.Config{JWT: config.JWT{AccessSecret: testAccessSecret}}
}

func signAccessToken(t *testing.T, secret string, userID int64, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// ミドルウェアを通した結果のstatusとcontextのユーザーを返す
func runAuthJWT(t *testing.T, users *MockUserRepository, setup func(req *http.Request)) (int, *model.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *model.User
	next := func(c echo.Context) error {
		got, _ = middleware.UserFrom(c)
		return c.NoContent(http.StatusOK)
	}

	err := middleware.AuthJWT(testCfg(), users)(next)(c)
	assert.NoError(t, err)
	return rec.Code, got
}

// =====================
// Tests
// =====================

func TestAuthJWT_ValidBearerToken(t *testing.T) {
	users := new(MockUserRepository)
	user := &model.User{ID: 1, Username: "alice", Email: "alice@test.com"}
	users.On("FindByID", mock.Anything, int64(1)).Return(user, nil)

	token := signAccessToken(t, testAccessSecret, 1, 15*time.Minute)

	code, got := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestAuthJWT_ValidCookieToken(t *testing.T) {
	users := new(MockUserRepository)
	user := &model.User{ID: 2, Username: "bob"}
	users.On("FindByID", mock.Anything, int64(2)).Return(user, nil)

	token := signAccessToken(t, testAccessSecret, 2, 15*time.Minute)

	code, got := runAuthJWT(t, users, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: token})
	})

	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestAuthJWT_MissingToken(t *testing.T) {
	users := new(MockUserRepository)

	code, got := runAuthJWT(t, users, func(req *http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Nil(t, got)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthJWT_MalformedHeader(t *testing.T) {
	users := new(MockUserRepository)

	code, _ := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Token abc.def.ghi")
	})

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthJWT_GarbageToken(t *testing.T) {
	users := new(MockUserRepository)

	code, _ := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not-a-jwt")
	})

	assert.Equal(t, http.StatusUnauthorized, code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	users := new(MockUserRepository)

	token := signAccessToken(t, testAccessSecret, 1, -time.Minute)

	code, _ := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthJWT_WrongSignature(t *testing.T) {
	users := new(MockUserRepository)

	//別のsecretで署名されたtoken
	token := signAccessToken(t, "other-secret", 1, 15*time.Minute)

	code, _ := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthJWT_NoExpiryClaim(t *testing.T) {
	users := new(MockUserRepository)

	//expなしは受け付けない
	claims := jwt.MapClaims{"sub": int64(1), "iat": time.Now().Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	assert.NoError(t, err)

	code, _ := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthJWT_DeletedUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, int64(99)).Return(nil, nil)

	token := signAccessToken(t, testAccessSecret, 99, 15*time.Minute)

	code, got := runAuthJWT(t, users, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Nil(t, got)
	users.AssertExpectations(t)
}

func TestAuthJWT_CookiePreferredOverHeader(t *testing.T) {
	users := new(MockUserRepository)
	user := &model.User{ID: 3, Username: "carol"}
	users.On("FindByID", mock.Anything, int64(3)).Return(user, nil)

	cookieToken := signAccessToken(t, testAccessSecret, 3, 15*time.Minute)

	code, got := runAuthJWT(t, users, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: cookieToken})
		req.Header.Set("Authorization", "Bearer garbage")
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), got.ID)
}
