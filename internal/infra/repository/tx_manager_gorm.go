package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users         repo.UserRepository
	sessions      repo.SessionRepository
	videos        repo.VideoRepository
	comments      repo.CommentRepository
	tweets        repo.TweetRepository
	likes         repo.LikeRepository
	playlists     repo.PlaylistRepository
	subscriptions repo.SubscriptionRepository
	watchHistory  repo.WatchHistoryRepository
}

func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) Sessions() repo.SessionRepository           { return r.sessions }
func (r *txReposGorm) Videos() repo.VideoRepository               { return r.videos }
func (r *txReposGorm) Comments() repo.CommentRepository           { return r.comments }
func (r *txReposGorm) Tweets() repo.TweetRepository               { return r.tweets }
func (r *txReposGorm) Likes() repo.LikeRepository                 { return r.likes }
func (r *txReposGorm) Playlists() repo.PlaylistRepository         { return r.playlists }
func (r *txReposGorm) Subscriptions() repo.SubscriptionRepository { return r.subscriptions }
func (r *txReposGorm) WatchHistory() repo.WatchHistoryRepository  { return r.watchHistory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:         NewUserGormRepository(tx),
			sessions:      NewSessionGormRepository(tx),
			videos:        NewVideoGormRepository(tx),
			comments:      NewCommentGormRepository(tx),
			tweets:        NewTweetGormRepository(tx),
			likes:         NewLikeGormRepository(tx),
			playlists:     NewPlaylistGormRepository(tx),
			subscriptions: NewSubscriptionGormRepository(tx),
			watchHistory:  NewWatchHistoryGormRepository(tx),
		}
		return fn(r)
	})
}
