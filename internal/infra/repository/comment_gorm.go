package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type commentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) repo.CommentRepository {
	return &commentGormRepository{db: db}
}

func (r *commentGormRepository) Create(ctx context.Context, c *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	return nil
}

func (r *commentGormRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &c, nil
}

func (r *commentGormRepository) Update(ctx context.Context, c *model.Comment) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return err
	}
	return nil
}

func (r *commentGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Comment{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *commentGormRepository) DeleteByVideo(ctx context.Context, videoID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *commentGormRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return nil
}

// 退会時の掃除。所有動画に付いたコメントを他ユーザー分も含めて消す
func (r *commentGormRepository) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id IN (?)",
			r.db.Model(&model.Video{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return nil
}

// 動画のコメント一覧。投稿者といいね数を付けて新しい順で返す
func (r *commentGormRepository) ListByVideo(ctx context.Context, videoID int64, page int, limit int) ([]repo.CommentWithMeta, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("video_id = ?", videoID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := base.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]repo.CommentWithMeta, 0, len(comments))
	if len(comments) == 0 {
		return items, total, nil
	}

	ownerIDs := make([]int64, 0, len(comments))
	commentIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		ownerIDs = append(ownerIDs, c.OwnerID)
		commentIDs = append(commentIDs, c.ID)
	}

	owners, err := loadOwners(ctx, r.db, ownerIDs)
	if err != nil {
		return nil, 0, err
	}

	type likeCount struct {
		CommentID int64
		Count     int64
	}
	var counts []likeCount
	err = r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("comment_id, COUNT(*) AS count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, err
	}

	countByID := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByID[c.CommentID] = c.Count
	}

	for _, c := range comments {
		items = append(items, repo.CommentWithMeta{
			Comment:   c,
			Owner:     owners[c.OwnerID],
			LikeCount: countByID[c.ID],
		})
	}

	return items, total, nil
}
