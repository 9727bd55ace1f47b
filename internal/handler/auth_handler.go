package handler

import (
	"errors"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		accessTTL:    cfg.JWT.AccessTTL,
		refreshTTL:   cfg.JWT.RefreshTTL,
		cookieSecure: cfg.Cookie.Secure,
	}
}

// 認証が要らないルート
func (h *AuthHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/users/register", h.register)
	g.POST("/users/login", h.login)
	g.POST("/users/refresh-token", h.refresh)
}

// 認証必須のルート
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/users/logout", h.logout)
	g.GET("/users/current-user", h.me)
	g.POST("/users/change-password", h.changePassword)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	//tokenはJSONとcookieの両方で返す
	h.setTokenCookies(c, out.Token.AccessToken, out.Token.RefreshToken)

	return c.JSON(http.StatusOK, out)
}

// refresh tokenはcookie優先、無ければbody
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) refresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(middleware.RefreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	out, err := h.uc.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	h.setTokenCookies(c, out.AccessToken, out.RefreshToken)

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Logout(c.Request().Context(), user.ID)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	//cookieも両方消す
	h.clearTokenCookies(c)

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	return c.JSON(http.StatusOK, h.uc.Me(c.Request().Context(), user))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ChangePassword(c.Request().Context(), user, req.OldPassword, req.NewPassword)
	if err != nil {
		return h.writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// auth系sentinel errorをHTTPステータスに変換
func (h *AuthHandler) writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrRefreshReused):
		//再ログインが必要なことはclientに伝える
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "refresh token is expired or used"})
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	case errors.Is(err, usecase.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many attempts"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// access/refreshの2本をCookieにセット。
func (h *AuthHandler) setTokenCookies(c echo.Context, accessToken string, refreshToken string) {
	c.SetCookie(h.tokenCookie(middleware.AccessCookieName, accessToken, h.accessTTL))
	c.SetCookie(h.tokenCookie(middleware.RefreshCookieName, refreshToken, h.refreshTTL))
}

func (h *AuthHandler) clearTokenCookies(c echo.Context) {
	c.SetCookie(h.tokenCookie(middleware.AccessCookieName, "", -time.Hour))
	c.SetCookie(h.tokenCookie(middleware.RefreshCookieName, "", -time.Hour))
}

func (h *AuthHandler) tokenCookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	}
}
