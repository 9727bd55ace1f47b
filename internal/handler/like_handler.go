package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type LikeHandler struct {
	uc *usecase.LikeUsecase
}

// DI
func NewLikeHandler(uc *usecase.LikeUsecase) *LikeHandler {
	return &LikeHandler{uc: uc}
}

func (h *LikeHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/likes/toggle/v/:videoId", h.toggleVideo)
	g.POST("/likes/toggle/c/:commentId", h.toggleComment)
	g.POST("/likes/toggle/t/:tweetId", h.toggleTweet)
	g.GET("/likes/videos", h.likedVideos)
}

func (h *LikeHandler) toggleVideo(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := paramID(c, "videoId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid video id"})
	}

	out, err := h.uc.ToggleVideoLike(c.Request().Context(), user.ID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LikeHandler) toggleComment(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := paramID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid comment id"})
	}

	out, err := h.uc.ToggleCommentLike(c.Request().Context(), user.ID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LikeHandler) toggleTweet(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := paramID(c, "tweetId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tweet id"})
	}

	out, err := h.uc.ToggleTweetLike(c.Request().Context(), user.ID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LikeHandler) likedVideos(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListLikedVideos(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
