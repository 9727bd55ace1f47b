package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つからないを統一
var ErrUserNotFound = errors.New("user not found")

// ユーザーの保存・取得を約束
type UserRepository interface {
	// 新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDから1件取得。いなければnil, nil
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// emailから1件取得
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// username（小文字正規化済み）から1件取得
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// ユーザー情報の更新（プロフィール・パスワードハッシュなど）
	Update(ctx context.Context, user *model.User) error
	// 退会。関連データの削除はTxManager側でまとめる
	Delete(ctx context.Context, id int64) error
}
