package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const maxCommentLength = 1000

type CommentUsecase struct {
	comments repo.CommentRepository
	videos   repo.VideoRepository
	likes    repo.LikeRepository
}

// DI
func NewCommentUsecase(
	comments repo.CommentRepository,
	videos repo.VideoRepository,
	likes repo.LikeRepository,
) *CommentUsecase {
	return &CommentUsecase{
		comments: comments,
		videos:   videos,
		likes:    likes,
	}
}

type CommentListOutput struct {
	Items []repo.CommentWithMeta `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

func (u *CommentUsecase) ListByVideo(ctx context.Context, videoID int64, page int, limit int) (CommentListOutput, error) {
	if videoID <= 0 {
		return CommentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	if page < 1 {
		return CommentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CommentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	//動画が存在して公開されていること
	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return CommentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil || !v.IsPublished {
		return CommentListOutput{}, NewHTTPError(http.StatusNotFound, "video not found")
	}

	items, total, err := u.comments.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return CommentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CommentListOutput{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (u *CommentUsecase) Add(ctx context.Context, userID int64, videoID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if len(content) > maxCommentLength {
		return nil, NewHTTPError(http.StatusBadRequest, "content too long")
	}

	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil || !v.IsPublished {
		return nil, NewHTTPError(http.StatusNotFound, "video not found")
	}

	c := &model.Comment{
		VideoID: videoID,
		OwnerID: userID,
		Content: content,
	}

	if err := u.comments.Create(ctx, c); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return c, nil
}

func (u *CommentUsecase) Update(ctx context.Context, userID int64, commentID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if len(content) > maxCommentLength {
		return nil, NewHTTPError(http.StatusBadRequest, "content too long")
	}

	c, err := u.findOwned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	c.Content = content
	if err := u.comments.Update(ctx, c); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return c, nil
}

func (u *CommentUsecase) Delete(ctx context.Context, userID int64, commentID int64) error {
	if _, err := u.findOwned(ctx, userID, commentID); err != nil {
		return err
	}

	//コメントへのいいねも消す
	if err := u.likes.DeleteByComment(ctx, commentID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.comments.Delete(ctx, commentID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CommentUsecase) findOwned(ctx context.Context, userID int64, commentID int64) (*model.Comment, error) {
	if commentID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if c == nil {
		return nil, NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if c.OwnerID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "not the owner")
	}

	return c, nil
}
