package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// ハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Tweet        *handler.TweetHandler
	Like         *handler.LikeHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, authMW echo.MiddlewareFunc) {
	api := e.Group("/api/v1")

	//公開ルート
	h.Health.RegisterPublicRoutes(api)
	h.Auth.RegisterPublicRoutes(api)

	//認証必須のルート
	protected := api.Group("", authMW)
	h.Auth.RegisterProtectedRoutes(protected)
	h.User.RegisterProtectedRoutes(protected)
	h.Video.RegisterProtectedRoutes(protected)
	h.Comment.RegisterProtectedRoutes(protected)
	h.Tweet.RegisterProtectedRoutes(protected)
	h.Like.RegisterProtectedRoutes(protected)
	h.Playlist.RegisterProtectedRoutes(protected)
	h.Subscription.RegisterProtectedRoutes(protected)
	h.Dashboard.RegisterProtectedRoutes(protected)
}
