package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type watchHistoryGormRepository struct {
	db *gorm.DB
}

func NewWatchHistoryGormRepository(db *gorm.DB) repo.WatchHistoryRepository {
	return &watchHistoryGormRepository{db: db}
}

func (r *watchHistoryGormRepository) Append(ctx context.Context, userID int64, videoID int64, watchedAt time.Time) error {
	h := model.WatchHistory{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: watchedAt,
	}

	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

// 視聴履歴を新しい順でページ取得して動画情報を付ける
func (r *watchHistoryGormRepository) ListByUser(ctx context.Context, userID int64, page int, limit int) ([]repo.WatchedVideo, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.WatchHistory{}).
		Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.WatchHistory
	err := base.
		Order("watched_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]repo.WatchedVideo, 0, len(entries))
	if len(entries) == 0 {
		return items, total, nil
	}

	videoIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		videoIDs = append(videoIDs, e.VideoID)
	}

	var videos []model.Video
	err = r.db.WithContext(ctx).
		Where("id IN ?", videoIDs).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}

	videoByID := make(map[int64]model.Video, len(videos))
	ownerIDs := make([]int64, 0, len(videos))
	for _, v := range videos {
		videoByID[v.ID] = v
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := loadOwners(ctx, r.db, ownerIDs)
	if err != nil {
		return nil, 0, err
	}

	for _, e := range entries {
		v, ok := videoByID[e.VideoID]
		if !ok {
			continue
		}
		items = append(items, repo.WatchedVideo{
			VideoWithOwner: repo.VideoWithOwner{
				Video: v,
				Owner: owners[v.OwnerID],
			},
			WatchedAt: e.WatchedAt,
		})
	}

	return items, total, nil
}

func (r *watchHistoryGormRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.WatchHistory{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *watchHistoryGormRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.WatchHistory{}).Error; err != nil {
		return err
	}
	return nil
}

// 退会時の掃除。所有動画の視聴履歴を他ユーザー分も含めて消す
func (r *watchHistoryGormRepository) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id IN (?)",
			r.db.Model(&model.Video{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Delete(&model.WatchHistory{}).Error; err != nil {
		return err
	}
	return nil
}
