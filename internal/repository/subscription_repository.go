package repository

import (
	"app/internal/domain/model"
	"context"
)

type SubscriptionRepository interface {
	// 見つからなければnil, nil
	Find(ctx context.Context, subscriberID int64, channelID int64) (*model.Subscription, error)
	Create(ctx context.Context, s *model.Subscription) error
	DeleteByID(ctx context.Context, id int64) error
	// 退会時に両方向（購読・被購読）を消す
	DeleteByUser(ctx context.Context, userID int64) error
	CountByChannel(ctx context.Context, channelID int64) (int64, error)
	CountBySubscriber(ctx context.Context, subscriberID int64) (int64, error)
	// チャンネルを購読しているユーザー
	ListSubscribers(ctx context.Context, channelID int64) ([]OwnerInfo, error)
	// 自分が購読しているチャンネル
	ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]OwnerInfo, error)
}
