package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type VideoUsecase struct {
	videos  repo.VideoRepository
	history repo.WatchHistoryRepository
	txm     repo.TransactionManager
}

// DI
func NewVideoUsecase(
	videos repo.VideoRepository,
	history repo.WatchHistoryRepository,
	txm repo.TransactionManager,
) *VideoUsecase {
	return &VideoUsecase{
		videos:  videos,
		history: history,
		txm:     txm,
	}
}

type PublishVideoInput struct {
	VideoFile   string  `json:"video_file"`
	Thumbnail   string  `json:"thumbnail"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
}

func (u *VideoUsecase) Publish(ctx context.Context, ownerID int64, in PublishVideoInput) (*model.Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if strings.TrimSpace(in.VideoFile) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "video_file is required")
	}
	if strings.TrimSpace(in.Thumbnail) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "thumbnail is required")
	}
	if in.Duration < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid duration")
	}

	v := &model.Video{
		OwnerID:     ownerID,
		VideoFile:   in.VideoFile,
		Thumbnail:   in.Thumbnail,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Duration:    in.Duration,
		IsPublished: true,
	}

	if err := u.videos.Create(ctx, v); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return v, nil
}

// Getは1本取得。viewerがいれば再生数+1と視聴履歴を残す。
// 非公開動画は所有者にしか見せない
func (u *VideoUsecase) Get(ctx context.Context, videoID int64, viewerID *int64) (*model.Video, error) {
	if videoID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil {
		return nil, NewHTTPError(http.StatusNotFound, "video not found")
	}

	if !v.IsPublished {
		if viewerID == nil || *viewerID != v.OwnerID {
			return nil, NewHTTPError(http.StatusNotFound, "video not found")
		}
	}

	if viewerID != nil {
		//失敗しても本体は返す
		if err := u.videos.IncrementViews(ctx, v.ID); err == nil {
			v.Views++
		}
		_ = u.history.Append(ctx, *viewerID, v.ID, time.Now())
	}

	return v, nil
}

type UpdateVideoInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

func (u *VideoUsecase) Update(ctx context.Context, userID int64, videoID int64, in UpdateVideoInput) (*model.Video, error) {
	v, err := u.findOwned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, NewHTTPError(http.StatusBadRequest, "title is required")
		}
		v.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		v.Description = *in.Description
	}
	if in.Thumbnail != nil {
		if strings.TrimSpace(*in.Thumbnail) == "" {
			return nil, NewHTTPError(http.StatusBadRequest, "thumbnail is required")
		}
		v.Thumbnail = *in.Thumbnail
	}

	if err := u.videos.Update(ctx, v); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return v, nil
}

// 動画削除。コメント・いいね・履歴・プレイリスト内参照もまとめて消す
func (u *VideoUsecase) Delete(ctx context.Context, userID int64, videoID int64) error {
	if _, err := u.findOwned(ctx, userID, videoID); err != nil {
		return err
	}

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		//いいねはコメント行を参照するので先に消す
		if err := r.Likes().DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		if err := r.Comments().DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		if err := r.WatchHistory().DeleteByVideo(ctx, videoID); err != nil {
			return err
		}
		if err := r.Playlists().DeleteVideoRefs(ctx, videoID); err != nil {
			return err
		}
		return r.Videos().Delete(ctx, videoID)
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *VideoUsecase) TogglePublish(ctx context.Context, userID int64, videoID int64) (*model.Video, error) {
	v, err := u.findOwned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	v.IsPublished = !v.IsPublished
	if err := u.videos.Update(ctx, v); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return v, nil
}

type ListVideosInput struct {
	Page    int
	Limit   int
	Q       string
	OwnerID *int64
	Sort    string
}

type VideoListOutput struct {
	Items []repo.VideoWithOwner `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

func (u *VideoUsecase) List(ctx context.Context, in ListVideosInput) (VideoListOutput, error) {
	if in.Page < 1 {
		return VideoListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return VideoListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return VideoListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Sort {
	case "", "new", "views", "duration":
	default:
		return VideoListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.videos.List(ctx, repo.VideoListQuery{
		Page:    in.Page,
		Limit:   in.Limit,
		Q:       strings.TrimSpace(in.Q),
		OwnerID: in.OwnerID,
		Sort:    in.Sort,
	})
	if err != nil {
		return VideoListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return VideoListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 所有チェック共通部
func (u *VideoUsecase) findOwned(ctx context.Context, userID int64, videoID int64) (*model.Video, error) {
	if videoID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil {
		return nil, NewHTTPError(http.StatusNotFound, "video not found")
	}
	if v.OwnerID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "not the owner")
	}

	return v, nil
}
