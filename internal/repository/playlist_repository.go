package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// すでに追加済み
var ErrAlreadyExists = errors.New("already exists")

type PlaylistWithCount struct {
	model.Playlist
	VideoCount int64 `json:"video_count"`
}

type PlaylistRepository interface {
	Create(ctx context.Context, p *model.Playlist) error
	FindByID(ctx context.Context, id int64) (*model.Playlist, error)
	Update(ctx context.Context, p *model.Playlist) error
	// プレイリストと中間テーブルを削除
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]PlaylistWithCount, error)
	// 二重追加はErrAlreadyExists
	AddVideo(ctx context.Context, playlistID int64, videoID int64) error
	// 入っていなければErrNotFound
	RemoveVideo(ctx context.Context, playlistID int64, videoID int64) error
	// 全プレイリストから該当動画の参照を外す（動画削除時）
	DeleteVideoRefs(ctx context.Context, videoID int64) error
	// 指定ユーザー所有の動画への参照を全プレイリストから外す（退会時）
	DeleteVideoRefsByVideoOwner(ctx context.Context, ownerID int64) error
	// プレイリスト内の動画（追加順）
	ListVideos(ctx context.Context, playlistID int64) ([]VideoWithOwner, error)
}
