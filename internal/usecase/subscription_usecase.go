package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SubscriptionUsecase struct {
	subscriptions repo.SubscriptionRepository
	users         repo.UserRepository
}

// DI
func NewSubscriptionUsecase(
	subscriptions repo.SubscriptionRepository,
	users repo.UserRepository,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptions: subscriptions,
		users:         users,
	}
}

type ToggleSubscriptionOutput struct {
	Subscribed bool `json:"subscribed"`
}

func (u *SubscriptionUsecase) Toggle(ctx context.Context, subscriberID int64, channelID int64) (ToggleSubscriptionOutput, error) {
	if channelID <= 0 {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid channel id")
	}

	//自分自身は購読できない
	if subscriberID == channelID {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusBadRequest, "cannot subscribe to yourself")
	}

	channel, err := u.users.FindByID(ctx, channelID)
	if err != nil {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if channel == nil {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusNotFound, "channel not found")
	}

	existing, err := u.subscriptions.Find(ctx, subscriberID, channelID)
	if err != nil {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existing != nil {
		if err := u.subscriptions.DeleteByID(ctx, existing.ID); err != nil {
			return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return ToggleSubscriptionOutput{Subscribed: false}, nil
	}

	s := &model.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	if err := u.subscriptions.Create(ctx, s); err != nil {
		return ToggleSubscriptionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ToggleSubscriptionOutput{Subscribed: true}, nil
}

func (u *SubscriptionUsecase) ListSubscribers(ctx context.Context, channelID int64) ([]repo.OwnerInfo, error) {
	if channelID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid channel id")
	}

	channel, err := u.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if channel == nil {
		return nil, NewHTTPError(http.StatusNotFound, "channel not found")
	}

	items, err := u.subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return items, nil
}

func (u *SubscriptionUsecase) ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]repo.OwnerInfo, error) {
	items, err := u.subscriptions.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
