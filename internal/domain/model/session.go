package model

import "time"

// Sessionはユーザーごとの「現在のrefresh token」を1行で持つ。
// user_idはuniqueなので同時に有効なセッションは1つだけ。
type Session struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           int64     `json:"user_id" gorm:"uniqueIndex;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"` // 平文は保存しない（sha256）
	ExpiresAt        time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
