package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const maxTweetLength = 280

type TweetUsecase struct {
	tweets repo.TweetRepository
	users  repo.UserRepository
	likes  repo.LikeRepository
}

// DI
func NewTweetUsecase(
	tweets repo.TweetRepository,
	users repo.UserRepository,
	likes repo.LikeRepository,
) *TweetUsecase {
	return &TweetUsecase{
		tweets: tweets,
		users:  users,
		likes:  likes,
	}
}

func (u *TweetUsecase) Create(ctx context.Context, userID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if len(content) > maxTweetLength {
		return nil, NewHTTPError(http.StatusBadRequest, "content too long")
	}

	t := &model.Tweet{
		OwnerID: userID,
		Content: content,
	}

	if err := u.tweets.Create(ctx, t); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return t, nil
}

func (u *TweetUsecase) ListByUser(ctx context.Context, userID int64) ([]model.Tweet, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}

	tweets, err := u.tweets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return tweets, nil
}

func (u *TweetUsecase) Update(ctx context.Context, userID int64, tweetID int64, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if len(content) > maxTweetLength {
		return nil, NewHTTPError(http.StatusBadRequest, "content too long")
	}

	t, err := u.findOwned(ctx, userID, tweetID)
	if err != nil {
		return nil, err
	}

	t.Content = content
	if err := u.tweets.Update(ctx, t); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return t, nil
}

func (u *TweetUsecase) Delete(ctx context.Context, userID int64, tweetID int64) error {
	if _, err := u.findOwned(ctx, userID, tweetID); err != nil {
		return err
	}

	if err := u.likes.DeleteByTweet(ctx, tweetID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.tweets.Delete(ctx, tweetID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *TweetUsecase) findOwned(ctx context.Context, userID int64, tweetID int64) (*model.Tweet, error) {
	if tweetID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid tweet id")
	}

	t, err := u.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if t == nil {
		return nil, NewHTTPError(http.StatusNotFound, "tweet not found")
	}
	if t.OwnerID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "not the owner")
	}

	return t, nil
}
