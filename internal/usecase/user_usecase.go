package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserUsecase struct {
	users         repo.UserRepository
	subscriptions repo.SubscriptionRepository
	history       repo.WatchHistoryRepository
	txm           repo.TransactionManager
}

// DI
func NewUserUsecase(
	users repo.UserRepository,
	subscriptions repo.SubscriptionRepository,
	history repo.WatchHistoryRepository,
	txm repo.TransactionManager,
) *UserUsecase {
	return &UserUsecase{
		users:         users,
		subscriptions: subscriptions,
		history:       history,
		txm:           txm,
	}
}

type UpdateAccountInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (u *UserUsecase) UpdateAccount(ctx context.Context, user *model.User, in UpdateAccountInput) (UserDTO, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)

	if fullName == "" && email == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	if email != "" && email != user.Email {
		//email変更時は重複チェック
		existing, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if existing != nil {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already used")
		}
		user.Email = email
	}
	if fullName != "" {
		user.FullName = fullName
	}

	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// アバター/カバーはURL文字列の差し替えだけ（アップロードは外部サービス側）
func (u *UserUsecase) UpdateAvatar(ctx context.Context, user *model.User, avatarURL string) (UserDTO, error) {
	if strings.TrimSpace(avatarURL) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "avatar is required")
	}

	user.Avatar = avatarURL
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

func (u *UserUsecase) UpdateCoverImage(ctx context.Context, user *model.User, coverURL string) (UserDTO, error) {
	if strings.TrimSpace(coverURL) == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "cover_image is required")
	}

	user.CoverImage = coverURL
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// チャンネルページ用
type ChannelProfileOutput struct {
	UserDTO
	SubscriberCount   int64 `json:"subscriber_count"`
	SubscribedToCount int64 `json:"subscribed_to_count"`
	IsSubscribed      bool  `json:"is_subscribed"`
}

func (u *UserUsecase) ChannelProfile(ctx context.Context, username string, viewerID *int64) (ChannelProfileOutput, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return ChannelProfileOutput{}, NewHTTPError(http.StatusBadRequest, "username is required")
	}

	channel, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return ChannelProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if channel == nil {
		return ChannelProfileOutput{}, NewHTTPError(http.StatusNotFound, "channel not found")
	}

	subscriberCount, err := u.subscriptions.CountByChannel(ctx, channel.ID)
	if err != nil {
		return ChannelProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	subscribedToCount, err := u.subscriptions.CountBySubscriber(ctx, channel.ID)
	if err != nil {
		return ChannelProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	isSubscribed := false
	if viewerID != nil {
		s, err := u.subscriptions.Find(ctx, *viewerID, channel.ID)
		if err != nil {
			return ChannelProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		isSubscribed = s != nil
	}

	return ChannelProfileOutput{
		UserDTO:           toUserDTO(channel),
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

type WatchHistoryOutput struct {
	Items []repo.WatchedVideo `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

func (u *UserUsecase) WatchHistory(ctx context.Context, userID int64, page int, limit int) (WatchHistoryOutput, error) {
	if page < 1 {
		return WatchHistoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return WatchHistoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.history.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return WatchHistoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return WatchHistoryOutput{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// 退会。所有コンテンツごと1トランザクションで消す
func (u *UserUsecase) DeleteAccount(ctx context.Context, userID int64) error {
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Sessions().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		//所有動画に紐づく他ユーザーのデータを先に掃除する。
		//サブクエリがvideos行を参照するので動画本体の削除より前
		if err := r.Likes().DeleteByVideoOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Comments().DeleteByVideoOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.WatchHistory().DeleteByVideoOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Playlists().DeleteVideoRefsByVideoOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Likes().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Comments().DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Tweets().DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Playlists().DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		if err := r.Subscriptions().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.WatchHistory().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := r.Videos().DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		return r.Users().Delete(ctx, userID)
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
