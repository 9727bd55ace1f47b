package repository

import (
	"context"
	"time"
)

// 視聴履歴の1件（動画＋投稿者＋視聴時刻）
type WatchedVideo struct {
	VideoWithOwner
	WatchedAt time.Time `json:"watched_at"`
}

type WatchHistoryRepository interface {
	// 追記のみ
	Append(ctx context.Context, userID int64, videoID int64, watchedAt time.Time) error
	// 新しい順
	ListByUser(ctx context.Context, userID int64, page int, limit int) ([]WatchedVideo, int64, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByVideo(ctx context.Context, videoID int64) error
	// 指定ユーザー所有の動画の視聴履歴を消す（退会時、他ユーザー分も含む）
	DeleteByVideoOwner(ctx context.Context, ownerID int64) error
}
