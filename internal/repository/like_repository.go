package repository

import (
	"app/internal/domain/model"
	"context"
)

// いいねのトグル用。見つからなければnil, nil
type LikeRepository interface {
	FindVideoLike(ctx context.Context, userID int64, videoID int64) (*model.Like, error)
	FindCommentLike(ctx context.Context, userID int64, commentID int64) (*model.Like, error)
	FindTweetLike(ctx context.Context, userID int64, tweetID int64) (*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	// 動画へのいいねと、その動画のコメントへのいいねを消す
	DeleteByVideo(ctx context.Context, videoID int64) error
	// 指定ユーザー所有の動画（とそのコメント）へのいいねを消す（退会時）
	DeleteByVideoOwner(ctx context.Context, ownerID int64) error
	DeleteByComment(ctx context.Context, commentID int64) error
	DeleteByTweet(ctx context.Context, tweetID int64) error
	// 自分がいいねした公開動画（新しい順）
	ListLikedVideos(ctx context.Context, userID int64) ([]VideoWithOwner, error)
	// チャンネルの動画が受け取ったいいね合計（ダッシュボード用）
	CountVideoLikesByOwner(ctx context.Context, ownerID int64) (int64, error)
}
