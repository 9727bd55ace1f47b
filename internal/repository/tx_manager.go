package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Users() UserRepository
	Sessions() SessionRepository
	Videos() VideoRepository
	Comments() CommentRepository
	Tweets() TweetRepository
	Likes() LikeRepository
	Playlists() PlaylistRepository
	Subscriptions() SubscriptionRepository
	WatchHistory() WatchHistoryRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
