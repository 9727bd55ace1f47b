package repository

import (
	"app/internal/domain/model"
	"context"
)

// 一覧用（投稿者＋いいね数をJOIN済み）
type CommentWithMeta struct {
	model.Comment
	Owner     OwnerInfo `json:"owner"`
	LikeCount int64     `json:"like_count"`
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id int64) error
	DeleteByVideo(ctx context.Context, videoID int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
	// 指定ユーザー所有の動画に付いたコメントを消す（退会時）
	DeleteByVideoOwner(ctx context.Context, ownerID int64) error
	// 新しい順
	ListByVideo(ctx context.Context, videoID int64, page int, limit int) ([]CommentWithMeta, int64, error)
}
