package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewSessionGormRepository(db *gorm.DB) repo.SessionRepository {
	return &sessionGormRepository{db: db}
}

// ログイン時のセッション保存。user_idが既にあればハッシュごと上書き
// （＝前のrefresh tokenはこの時点で失効する）。
func (r *sessionGormRepository) Upsert(ctx context.Context, session *model.Session) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"refresh_token_hash", "expires_at", "updated_at"}),
		}).
		Create(session).Error

	if err != nil {
		return err
	}
	return nil
}

// Rotateは保存ハッシュがoldHashのときだけnewHashへ更新する（CAS）。
// 0件更新は「古いtokenが提示された/ログアウト済み/未ログイン」のどれか。
func (r *sessionGormRepository) Rotate(ctx context.Context, userID int64, oldHash string, newHash string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("user_id = ? AND refresh_token_hash = ?", userID, oldHash).
		Updates(map[string]interface{}{
			"refresh_token_hash": newHash,
			"expires_at":         expiresAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrSessionNotFound
	}
	return nil
}

// ログアウト。行ごと削除する
func (r *sessionGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Session{}).Error; err != nil {
		return err
	}
	return nil
}

// 期限切れセッションをまとめて削除
func (r *sessionGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.Session{})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
