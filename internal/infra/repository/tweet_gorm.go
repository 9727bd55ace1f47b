package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type tweetGormRepository struct {
	db *gorm.DB
}

func NewTweetGormRepository(db *gorm.DB) repo.TweetRepository {
	return &tweetGormRepository{db: db}
}

func (r *tweetGormRepository) Create(ctx context.Context, t *model.Tweet) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return err
	}
	return nil
}

func (r *tweetGormRepository) FindByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var t model.Tweet

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&t).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &t, nil
}

func (r *tweetGormRepository) Update(ctx context.Context, t *model.Tweet) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return err
	}
	return nil
}

func (r *tweetGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Tweet{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *tweetGormRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Tweet{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *tweetGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Tweet, error) {
	var tweets []model.Tweet

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}

	return tweets, nil
}
