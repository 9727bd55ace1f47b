package repository

import (
	"app/internal/domain/model"
	"context"
)

type TweetRepository interface {
	Create(ctx context.Context, t *model.Tweet) error
	FindByID(ctx context.Context, id int64) (*model.Tweet, error)
	Update(ctx context.Context, t *model.Tweet) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
	// 新しい順
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Tweet, error)
}
