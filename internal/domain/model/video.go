package model

import "time"

type Video struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `json:"owner_id" gorm:"not null;index"`
	VideoFile   string    `json:"video_file" gorm:"not null"` // 動画本体のURL
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration" gorm:"not null;default:0"` // 秒
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"is_published" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
