package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playlistGormRepository struct {
	db *gorm.DB
}

func NewPlaylistGormRepository(db *gorm.DB) repo.PlaylistRepository {
	return &playlistGormRepository{db: db}
}

func (r *playlistGormRepository) Create(ctx context.Context, p *model.Playlist) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	return nil
}

func (r *playlistGormRepository) FindByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var p model.Playlist

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *playlistGormRepository) Update(ctx context.Context, p *model.Playlist) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return err
	}
	return nil
}

// プレイリスト本体と中間テーブルをまとめて消す
func (r *playlistGormRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).
		Where("playlist_id = ?", id).
		Delete(&model.PlaylistVideo{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Playlist{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *playlistGormRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	// 中間テーブル→本体の順
	err := r.db.WithContext(ctx).
		Where("playlist_id IN (?)",
			r.db.Model(&model.Playlist{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Delete(&model.PlaylistVideo{}).Error
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Playlist{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *playlistGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]repo.PlaylistWithCount, error) {
	var playlists []model.Playlist

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}

	items := make([]repo.PlaylistWithCount, 0, len(playlists))
	if len(playlists) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(playlists))
	for _, p := range playlists {
		ids = append(ids, p.ID)
	}

	type videoCount struct {
		PlaylistID int64
		Count      int64
	}
	var counts []videoCount
	err = r.db.WithContext(ctx).
		Model(&model.PlaylistVideo{}).
		Select("playlist_id, COUNT(*) AS count").
		Where("playlist_id IN ?", ids).
		Group("playlist_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	countByID := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByID[c.PlaylistID] = c.Count
	}

	for _, p := range playlists {
		items = append(items, repo.PlaylistWithCount{
			Playlist:   p,
			VideoCount: countByID[p.ID],
		})
	}

	return items, nil
}

// 追加。二重追加はDO NOTHINGで0件になるのでErrAlreadyExists
func (r *playlistGormRepository) AddVideo(ctx context.Context, playlistID int64, videoID int64) error {
	pv := model.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&pv)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrAlreadyExists
	}
	return nil
}

func (r *playlistGormRepository) RemoveVideo(ctx context.Context, playlistID int64, videoID int64) error {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 動画削除時の掃除。0件でもエラーにしない（どのプレイリストにも入っていない動画はある）
func (r *playlistGormRepository) DeleteVideoRefs(ctx context.Context, videoID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&model.PlaylistVideo{}).Error; err != nil {
		return err
	}
	return nil
}

// 退会時の掃除。他ユーザーのプレイリストに入っている分も外す
func (r *playlistGormRepository) DeleteVideoRefsByVideoOwner(ctx context.Context, ownerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("video_id IN (?)",
			r.db.Model(&model.Video{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Delete(&model.PlaylistVideo{}).Error; err != nil {
		return err
	}
	return nil
}

// プレイリスト内の動画を追加順で返す
func (r *playlistGormRepository) ListVideos(ctx context.Context, playlistID int64) ([]repo.VideoWithOwner, error) {
	var pvs []model.PlaylistVideo

	err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("created_at ASC").
		Find(&pvs).Error
	if err != nil {
		return nil, err
	}

	items := make([]repo.VideoWithOwner, 0, len(pvs))
	if len(pvs) == 0 {
		return items, nil
	}

	videoIDs := make([]int64, 0, len(pvs))
	for _, pv := range pvs {
		videoIDs = append(videoIDs, pv.VideoID)
	}

	var videos []model.Video
	err = r.db.WithContext(ctx).
		Where("id IN ?", videoIDs).
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

	for _, pv := range pvs {
		v, ok := videoByID[pv.VideoID]
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
