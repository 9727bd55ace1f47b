package model

import "time"

// WatchHistoryは視聴ログ（追記のみ）。
type WatchHistory struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	VideoID   int64     `json:"video_id" gorm:"not null;index"`
	WatchedAt time.Time `json:"watched_at" gorm:"not null;index"`
}
