package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type PlaylistUsecase struct {
	playlists repo.PlaylistRepository
	videos    repo.VideoRepository
	users     repo.UserRepository
}

// DI
func NewPlaylistUsecase(
	playlists repo.PlaylistRepository,
	videos repo.VideoRepository,
	users repo.UserRepository,
) *PlaylistUsecase {
	return &PlaylistUsecase{
		playlists: playlists,
		videos:    videos,
		users:     users,
	}
}

type PlaylistInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (u *PlaylistUsecase) Create(ctx context.Context, ownerID int64, in PlaylistInput) (*model.Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	p := &model.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: in.Description,
	}

	if err := u.playlists.Create(ctx, p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

// プレイリスト詳細（動画一覧つき）
type PlaylistDetailOutput struct {
	model.Playlist
	Videos []repo.VideoWithOwner `json:"videos"`
}

func (u *PlaylistUsecase) Get(ctx context.Context, playlistID int64) (PlaylistDetailOutput, error) {
	if playlistID <= 0 {
		return PlaylistDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid playlist id")
	}

	p, err := u.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return PlaylistDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p == nil {
		return PlaylistDetailOutput{}, NewHTTPError(http.StatusNotFound, "playlist not found")
	}

	videos, err := u.playlists.ListVideos(ctx, playlistID)
	if err != nil {
		return PlaylistDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PlaylistDetailOutput{
		Playlist: *p,
		Videos:   videos,
	}, nil
}

func (u *PlaylistUsecase) ListByUser(ctx context.Context, userID int64) ([]repo.PlaylistWithCount, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}

	items, err := u.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return items, nil
}

func (u *PlaylistUsecase) Update(ctx context.Context, userID int64, playlistID int64, in PlaylistInput) (*model.Playlist, error) {
	p, err := u.findOwned(ctx, userID, playlistID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	p.Name = name
	p.Description = in.Description

	if err := u.playlists.Update(ctx, p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

func (u *PlaylistUsecase) Delete(ctx context.Context, userID int64, playlistID int64) error {
	if _, err := u.findOwned(ctx, userID, playlistID); err != nil {
		return err
	}

	if err := u.playlists.Delete(ctx, playlistID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *PlaylistUsecase) AddVideo(ctx context.Context, userID int64, playlistID int64, videoID int64) error {
	if _, err := u.findOwned(ctx, userID, playlistID); err != nil {
		return err
	}

	v, err := u.videos.FindByID(ctx, videoID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v == nil || !v.IsPublished {
		return NewHTTPError(http.StatusNotFound, "video not found")
	}

	if err := u.playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return NewHTTPError(http.StatusConflict, "video already in playlist")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *PlaylistUsecase) RemoveVideo(ctx context.Context, userID int64, playlistID int64, videoID int64) error {
	if _, err := u.findOwned(ctx, userID, playlistID); err != nil {
		return err
	}

	if err := u.playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "video not in playlist")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *PlaylistUsecase) findOwned(ctx context.Context, userID int64, playlistID int64) (*model.Playlist, error) {
	if playlistID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid playlist id")
	}

	p, err := u.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p == nil {
		return nil, NewHTTPError(http.StatusNotFound, "playlist not found")
	}
	if p.OwnerID != userID {
		return nil, NewHTTPError(http.StatusForbidden, "not the owner")
	}

	return p, nil
}
