package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type LikeUsecase struct {
	likes    repo.LikeRepository
	videos   repo.VideoRepository
	comments repo.CommentRepository
	tweets   repo.TweetRepository
}

// DI
func NewLikeUsecase(
	likes repo.LikeRepository,
	videos repo.VideoRepository,
	comments repo.CommentRepository,
	tweets repo.TweetRepository,
) *LikeUsecase {
	return &LikeUsecase{
		likes:    likes,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
	}
}

type ToggleLikeOutput struct {
	Liked bool `json:"liked"`
}

func (u *LikeUsecase) ToggleVideoLike(ctx context.Context, userID int64, videoID int64) (ToggleLikeOutput, error) {
	if videoID <= 0 {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil || !v.IsPublished {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusNotFound, "video not found")
	}

	existing, err := u.likes.FindVideoLike(ctx, userID, videoID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toggle(ctx, existing, &model.Like{UserID: userID, VideoID: &videoID})
}

func (u *LikeUsecase) ToggleCommentLike(ctx context.Context, userID int64, commentID int64) (ToggleLikeOutput, error) {
	if commentID <= 0 {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if c == nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusNotFound, "comment not found")
	}

	existing, err := u.likes.FindCommentLike(ctx, userID, commentID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toggle(ctx, existing, &model.Like{UserID: userID, CommentID: &commentID})
}

func (u *LikeUsecase) ToggleTweetLike(ctx context.Context, userID int64, tweetID int64) (ToggleLikeOutput, error) {
	if tweetID <= 0 {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid tweet id")
	}

	t, err := u.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if t == nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusNotFound, "tweet not found")
	}

	existing, err := u.likes.FindTweetLike(ctx, userID, tweetID)
	if err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toggle(ctx, existing, &model.Like{UserID: userID, TweetID: &tweetID})
}

// あれば消す、無ければ作る
func (u *LikeUsecase) toggle(ctx context.Context, existing *model.Like, like *model.Like) (ToggleLikeOutput, error) {
	if existing != nil {
		if err := u.likes.DeleteByID(ctx, existing.ID); err != nil {
			return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return ToggleLikeOutput{Liked: false}, nil
	}

	if err := u.likes.Create(ctx, like); err != nil {
		return ToggleLikeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ToggleLikeOutput{Liked: true}, nil
}

func (u *LikeUsecase) ListLikedVideos(ctx context.Context, userID int64) ([]repo.VideoWithOwner, error) {
	items, err := u.likes.ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
