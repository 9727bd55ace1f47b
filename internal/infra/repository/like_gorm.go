package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type likeGormRepository struct {
	db *gorm.DB
}

func NewLikeGormRepository(db *gorm.DB) repo.LikeRepository {
	return &likeGormRepository{db: db}
}

func (r *likeGormRepository) findOne(ctx context.Context, column string, userID int64, targetID int64) (*model.Like, error) {
	var like model.Like

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, targetID).
		First(&like).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &like, nil
}

func (r *likeGormRepository) FindVideoLike(ctx context.Context, userID int64, videoID int64) (*model.Like, error) {
	return r.findOne(ctx, "video_id", userID, videoID)
}

func (r *likeGormRepository) FindCommentLike(ctx context.Context, userID int64, commentID int64) (*model.Like, error) {
	return r.findOne(ctx, "comment_id", userID, commentID)
}

func (r *likeGormRepository) FindTweetLike(ctx context.Context, userID int64, tweetID int64) (*model.Like, error) {
	return r.findOne(ctx, "tweet_id", userID, tweetID)
}

func (r *likeGormRepository) Create(ctx context.Context, like *model.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return err
	}
	return nil
}

func (r *likeGormRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Like{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *likeGormRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Like{}).Error; err != nil {
		return err
	}
	return nil
}

// 動画本体へのいいねと、動画のコメントへのいいねを消す。
// コメント行を参照するのでコメント削除より先に呼ぶ
func (r *likeGormRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	err := r.db.WithContext(ctx).
		Where("comment_id IN (?)",
			r.db.Model(&model.Comment{}).Select("id").Where("video_id = ?", videoID),
		).
		Delete(&model.Like{}).Error
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.Like{}).Error; err != nil {
		return err
	}
	return nil
}

// 退会時の掃除。所有動画へのいいねと、その動画のコメントへのいいねを他ユーザー分も含めて消す
func (r *likeGormRepository) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	err := r.db.WithContext(ctx).
		Where("comment_id IN (?)",
			r.db.Model(&model.Comment{}).Select("id").Where("video_id IN (?)",
				r.db.Model(&model.Video{}).Select("id").Where("owner_id = ?", ownerID),
			),
		).
		Delete(&model.Like{}).Error
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("video_id IN (?)",
			r.db.Model(&model.Video{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Delete(&model.Like{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *likeGormRepository) DeleteByComment(ctx context.Context, commentID int64) error {
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Delete(&model.Like{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *likeGormRepository) DeleteByTweet(ctx context.Context, tweetID int64) error {
	if err := r.db.WithContext(ctx).
		Where("tweet_id = ?", tweetID).
		Delete(&model.Like{}).Error; err != nil {
		return err
	}
	return nil
}

// 自分がいいねした動画。非公開になったものは返さない
func (r *likeGormRepository) ListLikedVideos(ctx context.Context, userID int64) ([]repo.VideoWithOwner, error) {
	var likes []model.Like

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id IS NOT NULL", userID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}

	items := make([]repo.VideoWithOwner, 0, len(likes))
	if len(likes) == 0 {
		return items, nil
	}

	videoIDs := make([]int64, 0, len(likes))
	for _, l := range likes {
		videoIDs = append(videoIDs, *l.VideoID)
	}

	var videos []model.Video
	err = r.db.WithContext(ctx).
		Where("id IN ? AND is_published = ?", videoIDs, true).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}

	videoByID := make(map[int64]model.Video, len(videos))
	ownerIDs := make([]int64, 0, len(videos))
	for _, v := range videos {
		videoByID[v.ID] = v
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := loadOwners(ctx, r.db, ownerIDs)
	if err != nil {
		return nil, err
	}

	// いいねした順を保つ
	for _, l := range likes {
		v, ok := videoByID[*l.VideoID]
		if !ok {
			continue
		}
		items = append(items, repo.VideoWithOwner{
			Video: v,
			Owner: owners[v.OwnerID],
		})
	}

	return items, nil
}

// チャンネルの全動画が受け取ったいいね数
func (r *likeGormRepository) CountVideoLikesByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("videos.owner_id = ?", ownerID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}
