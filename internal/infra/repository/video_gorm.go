package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type videoGormRepository struct {
	db *gorm.DB
}

func NewVideoGormRepository(db *gorm.DB) repo.VideoRepository {
	return &videoGormRepository{db: db}
}

func (r *videoGormRepository) Create(ctx context.Context, v *model.Video) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return err
	}
	return nil
}

func (r *videoGormRepository) FindByID(ctx context.Context, id int64) (*model.Video, error) {
	var v model.Video

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&v).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &v, nil
}

func (r *videoGormRepository) Update(ctx context.Context, v *model.Video) error {
	if err := r.db.WithContext(ctx).Save(v).Error; err != nil {
		return err
	}
	return nil
}

func (r *videoGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Video{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *videoGormRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Video{}).Error; err != nil {
		return err
	}
	return nil
}

// 公開済み動画の一覧。絞り込み→件数→ページ取得→投稿者を付けて返す
func (r *videoGormRepository) List(ctx context.Context, q repo.VideoListQuery) ([]repo.VideoWithOwner, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("is_published = ?", true)

	if q.Q != "" {
		like := "%" + q.Q + "%"
		base = base.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if q.OwnerID != nil {
		base = base.Where("owner_id = ?", *q.OwnerID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch q.Sort {
	case "views":
		order = "views DESC"
	case "duration":
		order = "duration DESC"
	}

	var videos []model.Video
	err := base.
		Order(order).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}

	items, err := r.attachOwners(ctx, videos)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *videoGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]repo.VideoWithStats, error) {
	var videos []model.Video

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}

	items := make([]repo.VideoWithStats, 0, len(videos))
	if len(videos) == 0 {
		return items, nil
	}

	// 動画ごとのいいね数をまとめて引く
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	type likeCount struct {
		VideoID int64
		Count   int64
	}
	var counts []likeCount
	err = r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("video_id, COUNT(*) AS count").
		Where("video_id IN ?", ids).
		Group("video_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	countByID := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByID[c.VideoID] = c.Count
	}

	for _, v := range videos {
		items = append(items, repo.VideoWithStats{
			Video:     v,
			LikeCount: countByID[v.ID],
		})
	}

	return items, nil
}

// viewsを+1（取得してから保存、はしない）
func (r *videoGormRepository) IncrementViews(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *videoGormRepository) SumViewsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Select("COALESCE(SUM(views), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *videoGormRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

// 投稿者情報をusersからまとめて引いて組み立てる
func (r *videoGormRepository) attachOwners(ctx context.Context, videos []model.Video) ([]repo.VideoWithOwner, error) {
	items := make([]repo.VideoWithOwner, 0, len(videos))
	if len(videos) == 0 {
		return items, nil
	}

	ownerIDs := make([]int64, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	owners, err := loadOwners(ctx, r.db, ownerIDs)
	if err != nil {
		return nil, err
	}

	for _, v := range videos {
		items = append(items, repo.VideoWithOwner{
			Video: v,
			Owner: owners[v.OwnerID],
		})
	}

	return items, nil
}

// loadOwnersはid→OwnerInfoのmapを返す（video/comment/likeで共用）
func loadOwners(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]repo.OwnerInfo, error) {
	var users []model.User

	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	owners := make(map[int64]repo.OwnerInfo, len(users))
	for _, u := range users {
		owners[u.ID] = repo.OwnerInfo{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Avatar:   u.Avatar,
		}
	}

	return owners, nil
}
