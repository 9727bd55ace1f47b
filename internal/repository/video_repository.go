package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧に埋め込む投稿者情報
type OwnerInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

type VideoWithOwner struct {
	model.Video
	Owner OwnerInfo `json:"owner"`
}

// ダッシュボード用（非公開も含む自分の動画）
type VideoWithStats struct {
	model.Video
	LikeCount int64 `json:"like_count"`
}

// 一覧検索
type VideoListQuery struct {
	Page    int
	Limit   int
	Q       string // title/descriptionの部分一致
	OwnerID *int64
	Sort    string // new / views / duration
}

type VideoRepository interface {
	Create(ctx context.Context, v *model.Video) error
	FindByID(ctx context.Context, id int64) (*model.Video, error)
	Update(ctx context.Context, v *model.Video) error
	// 動画本体のみ削除。コメント・いいね等の後始末はTxManagerでまとめる
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
	// 公開済みのみ。ownerをJOINして返す
	List(ctx context.Context, q VideoListQuery) ([]VideoWithOwner, int64, error)
	// 自分のチャンネル用。非公開も含む
	ListByOwner(ctx context.Context, ownerID int64) ([]VideoWithStats, error)
	// 再生数+1（read-modify-writeにしない）
	IncrementViews(ctx context.Context, id int64) error
	// チャンネル合計再生数
	SumViewsByOwner(ctx context.Context, ownerID int64) (int64, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}
