package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

type DashboardUsecase struct {
	videos        repo.VideoRepository
	likes         repo.LikeRepository
	subscriptions repo.SubscriptionRepository
}

// DI
func NewDashboardUsecase(
	videos repo.VideoRepository,
	likes repo.LikeRepository,
	subscriptions repo.SubscriptionRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		videos:        videos,
		likes:         likes,
		subscriptions: subscriptions,
	}
}

// チャンネルの集計
type ChannelStatsOutput struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalLikes       int64 `json:"total_likes"`
}

func (u *DashboardUsecase) ChannelStats(ctx context.Context, ownerID int64) (ChannelStatsOutput, error) {
	totalVideos, err := u.videos.CountByOwner(ctx, ownerID)
	if err != nil {
		return ChannelStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalViews, err := u.videos.SumViewsByOwner(ctx, ownerID)
	if err != nil {
		return ChannelStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalSubscribers, err := u.subscriptions.CountByChannel(ctx, ownerID)
	if err != nil {
		return ChannelStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalLikes, err := u.likes.CountVideoLikesByOwner(ctx, ownerID)
	if err != nil {
		return ChannelStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ChannelStatsOutput{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalSubscribers: totalSubscribers,
		TotalLikes:       totalLikes,
	}, nil
}

// 自分の動画一覧（非公開も含む）
func (u *DashboardUsecase) ChannelVideos(ctx context.Context, ownerID int64) ([]repo.VideoWithStats, error) {
	items, err := u.videos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
