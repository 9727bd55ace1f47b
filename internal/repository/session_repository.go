package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// refresh tokenのハッシュをuser_idごとに1件だけ持つストア。
// Rotateは「保存値が一致したときだけ」差し替える（CAS）。
// read-compare-writeにしないことでローテーションの競合窓を閉じる。
type SessionRepository interface {
	// ログイン時。既存セッションがあれば上書き（旧refresh tokenは失効）
	Upsert(ctx context.Context, session *model.Session) error
	// 保存値がoldHashと一致する場合のみnewHashへ差し替える。
	// 一致しなければErrSessionNotFound（superseded/revoked/未発行の区別はしない）
	Rotate(ctx context.Context, userID int64, oldHash string, newHash string, expiresAt time.Time) error
	// ログアウト。行ごと削除
	DeleteByUserID(ctx context.Context, userID int64) error
	// 期限切れセッションの掃除。削除件数を返す
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
