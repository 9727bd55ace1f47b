package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type subscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) repo.SubscriptionRepository {
	return &subscriptionGormRepository{db: db}
}

func (r *subscriptionGormRepository) Find(ctx context.Context, subscriberID int64, channelID int64) (*model.Subscription, error) {
	var s model.Subscription

	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&s).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &s, nil
}

func (r *subscriptionGormRepository) Create(ctx context.Context, s *model.Subscription) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return err
	}
	return nil
}

func (r *subscriptionGormRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Subscription{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 購読・被購読の両方向を削除（退会時）
func (r *subscriptionGormRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).
		Where("subscriber_id = ? OR channel_id = ?", userID, userID).
		Delete(&model.Subscription{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *subscriptionGormRepository) CountByChannel(ctx context.Context, channelID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *subscriptionGormRepository) CountBySubscriber(ctx context.Context, subscriberID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *subscriptionGormRepository) ListSubscribers(ctx context.Context, channelID int64) ([]repo.OwnerInfo, error) {
	return r.listUsers(ctx, "subscriber_id", "channel_id", channelID)
}

func (r *subscriptionGormRepository) ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]repo.OwnerInfo, error) {
	return r.listUsers(ctx, "channel_id", "subscriber_id", subscriberID)
}

// subscriptionsの片側のユーザー一覧を引く
func (r *subscriptionGormRepository) listUsers(ctx context.Context, selectCol string, whereCol string, id int64) ([]repo.OwnerInfo, error) {
	var ids []int64

	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where(whereCol+" = ?", id).
		Pluck(selectCol, &ids).Error
	if err != nil {
		return nil, err
	}

	items := make([]repo.OwnerInfo, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	owners, err := loadOwners(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for _, uid := range ids {
		if o, ok := owners[uid]; ok {
			items = append(items, o)
		}
	}

	return items, nil
}
