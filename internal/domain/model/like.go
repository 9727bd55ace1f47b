package model

import "time"

// Likeはvideo/comment/tweetのどれか1つだけを指す。
// (user_id, 対象)の組はアプリ側のトグルで一意に保つ。
type Like struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	VideoID   *int64    `json:"video_id,omitempty" gorm:"index"`
	CommentID *int64    `json:"comment_id,omitempty" gorm:"index"`
	TweetID   *int64    `json:"tweet_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
