package model

import "time"

type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `json:"owner_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistVideoは中間テーブル。同じ動画の二重追加はuniqueで弾く。
type PlaylistVideo struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"playlist_id" gorm:"not null;uniqueIndex:idx_playlist_video"`
	VideoID    int64     `json:"video_id" gorm:"not null;uniqueIndex:idx_playlist_video"`
	CreatedAt  time.Time `json:"created_at"`
}
