package usecase_test

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type VidVideoRepoMock struct{ mock.Mock }

func (m *VidVideoRepoMock) Create(ctx context.Context, v *model.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VidVideoRepoMock) FindByID(ctx context.Context, id int64) (*model.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Video)
	return v, args.Error(1)
}

func (m *VidVideoRepoMock) Update(ctx context.Context, v *model.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VidVideoRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VidVideoRepoMock) DeleteByOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidVideoRepoMock) List(ctx context.Context, q repo.VideoListQuery) ([]repo.VideoWithOwner, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]repo.VideoWithOwner)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *VidVideoRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]repo.VideoWithStats, error) {
	args := m.Called(ctx, ownerID)
	items, _ := args.Get(0).([]repo.VideoWithStats)
	return items, args.Error(1)
}

func (m *VidVideoRepoMock) IncrementViews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VidVideoRepoMock) SumViewsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *VidVideoRepoMock) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type VidHistoryRepoMock struct{ mock.Mock }

func (m *VidHistoryRepoMock) Append(ctx context.Context, userID int64, videoID int64, watchedAt time.Time) error {
	args := m.Called(ctx, userID, videoID, watchedAt)
	return args.Error(0)
}

func (m *VidHistoryRepoMock) ListByUser(ctx context.Context, userID int64, page int, limit int) ([]repo.WatchedVideo, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]repo.WatchedVideo)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *VidHistoryRepoMock) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *VidHistoryRepoMock) DeleteByVideo(ctx context.Context, videoID int64) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *VidHistoryRepoMock) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

type VidLikeRepoMock struct{ mock.Mock }

func (m *VidLikeRepoMock) FindVideoLike(ctx context.Context, userID, videoID int64) (*model.Like, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) FindCommentLike(ctx context.Context, userID, commentID int64) (*model.Like, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) FindTweetLike(ctx context.Context, userID, tweetID int64) (*model.Like, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) Create(ctx context.Context, like *model.Like) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) DeleteByID(ctx context.Context, id int64) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) DeleteByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *VidLikeRepoMock) DeleteByVideo(ctx context.Context, videoID int64) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *VidLikeRepoMock) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidLikeRepoMock) DeleteByComment(ctx context.Context, commentID int64) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) DeleteByTweet(ctx context.Context, tweetID int64) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) ListLikedVideos(ctx context.Context, userID int64) ([]repo.VideoWithOwner, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidLikeRepoMock) CountVideoLikesByOwner(ctx context.Context, ownerID int64) (int64, error) {
	panic("not used in VideoUsecase tests")
}

type VidCommentRepoMock struct{ mock.Mock }

func (m *VidCommentRepoMock) Create(ctx context.Context, c *model.Comment) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidCommentRepoMock) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidCommentRepoMock) Update(ctx context.Context, c *model.Comment) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidCommentRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in VideoUsecase tests")
}

func (m *VidCommentRepoMock) DeleteByVideo(ctx context.Context, videoID int64) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *VidCommentRepoMock) DeleteByOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidCommentRepoMock) DeleteByVideoOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidCommentRepoMock) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]repo.CommentWithMeta, int64, error) {
	panic("not used in VideoUsecase tests")
}

type VidPlaylistRepoMock struct{ mock.Mock }

func (m *VidPlaylistRepoMock) Create(ctx context.Context, p *model.Playlist) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidPlaylistRepoMock) FindByID(ctx context.Context, id int64) (*model.Playlist, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidPlaylistRepoMock) Update(ctx context.Context, p *model.Playlist) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidPlaylistRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in VideoUsecase tests")
}

func (m *VidPlaylistRepoMock) DeleteByOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidPlaylistRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]repo.PlaylistWithCount, error) {
	panic("not used in VideoUsecase tests")
}
func (m *VidPlaylistRepoMock) AddVideo(ctx context.Context, playlistID int64, videoID int64) error {
	panic("not used in VideoUsecase tests")
}
func (m *VidPlaylistRepoMock) RemoveVideo(ctx context.Context, playlistID int64, videoID int64) error {
	panic("not used in VideoUsecase tests")
}

func (m *VidPlaylistRepoMock) DeleteVideoRefs(ctx context.Context, videoID int64) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *VidPlaylistRepoMock) DeleteVideoRefsByVideoOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *VidPlaylistRepoMock) ListVideos(ctx context.Context, playlistID int64) ([]repo.VideoWithOwner, error) {
	panic("not used in VideoUsecase tests")
}

// Txを開かずそのままリポジトリを渡すTransactionManager
type fakeTxManager struct {
	repos fakeTxRepos
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f.repos)
}

type fakeTxRepos struct {
	users         repo.UserRepository
	sessions      repo.SessionRepository
	videos        repo.VideoRepository
	comments      repo.CommentRepository
	tweets        repo.TweetRepository
	likes         repo.LikeRepository
	playlists     repo.PlaylistRepository
	subscriptions repo.SubscriptionRepository
	history       repo.WatchHistoryRepository
}

func (r fakeTxRepos) Users() repo.UserRepository                 { return r.users }
func (r fakeTxRepos) Sessions() repo.SessionRepository           { return r.sessions }
func (r fakeTxRepos) Videos() repo.VideoRepository               { return r.videos }
func (r fakeTxRepos) Comments() repo.CommentRepository           { return r.comments }
func (r fakeTxRepos) Tweets() repo.TweetRepository               { return r.tweets }
func (r fakeTxRepos) Likes() repo.LikeRepository                 { return r.likes }
func (r fakeTxRepos) Playlists() repo.PlaylistRepository         { return r.playlists }
func (r fakeTxRepos) Subscriptions() repo.SubscriptionRepository { return r.subscriptions }
func (r fakeTxRepos) WatchHistory() repo.WatchHistoryRepository  { return r.history }

// =====================
// Helper
// =====================

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, status, he.Status)
}

func i64ptr(v int64) *int64 { return &v }

// =====================
// Publish
// =====================

func TestVideoUsecase_Publish_Success(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	videos.On("Create", mock.Anything, mock.MatchedBy(func(v *model.Video) bool {
		return v.OwnerID == 1 && v.Title == "My Video" && v.IsPublished
	})).Return(nil)

	u := usecase.NewVideoUsecase(videos, new(VidHistoryRepoMock), &fakeTxManager{})

	v, err := u.Publish(ctx, 1, usecase.PublishVideoInput{
		VideoFile: "https://cdn/video.mp4",
		Thumbnail: "https://cdn/thumb.jpg",
		Title:     "  My Video  ",
		Duration:  120,
	})
	assert.NoError(t, err)
	assert.NotNil(t, v)
	assert.Equal(t, "My Video", v.Title)

	videos.AssertExpectations(t)
}

func TestVideoUsecase_Publish_MissingTitle(t *testing.T) {
	u := usecase.NewVideoUsecase(new(VidVideoRepoMock), new(VidHistoryRepoMock), &fakeTxManager{})

	_, err := u.Publish(context.Background(), 1, usecase.PublishVideoInput{
		VideoFile: "https://cdn/video.mp4",
		Thumbnail: "https://cdn/thumb.jpg",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// Get
// =====================

func TestVideoUsecase_Get_IncrementsViewsAndHistory(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	history := new(VidHistoryRepoMock)

	videos.On("FindByID", mock.Anything, int64(10)).Return(&model.Video{
		ID: 10, OwnerID: 2, Title: "t", IsPublished: true, Views: 5,
	}, nil)
	videos.On("IncrementViews", mock.Anything, int64(10)).Return(nil)
	history.On("Append", mock.Anything, int64(1), int64(10), mock.AnythingOfType("time.Time")).Return(nil)

	u := usecase.NewVideoUsecase(videos, history, &fakeTxManager{})

	v, err := u.Get(ctx, 10, i64ptr(1))
	assert.NoError(t, err)
	assert.Equal(t, int64(6), v.Views)

	videos.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestVideoUsecase_Get_UnpublishedHiddenFromOthers(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	videos.On("FindByID", mock.Anything, int64(10)).Return(&model.Video{
		ID: 10, OwnerID: 2, IsPublished: false,
	}, nil)

	u := usecase.NewVideoUsecase(videos, new(VidHistoryRepoMock), &fakeTxManager{})

	//他人には404（非公開の存在自体を隠す）
	_, err := u.Get(ctx, 10, i64ptr(1))
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestVideoUsecase_Get_UnpublishedVisibleToOwner(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	history := new(VidHistoryRepoMock)
	videos.On("FindByID", mock.Anything, int64(10)).Return(&model.Video{
		ID: 10, OwnerID: 2, IsPublished: false,
	}, nil)
	videos.On("IncrementViews", mock.Anything, int64(10)).Return(nil)
	history.On("Append", mock.Anything, int64(2), int64(10), mock.AnythingOfType("time.Time")).Return(nil)

	u := usecase.NewVideoUsecase(videos, history, &fakeTxManager{})

	v, err := u.Get(ctx, 10, i64ptr(2))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), v.ID)
}

func TestVideoUsecase_Get_NotFound(t *testing.T) {
	videos := new(VidVideoRepoMock)
	videos.On("FindByID", mock.Anything, int64(99)).Return(nil, nil)

	u := usecase.NewVideoUsecase(videos, new(VidHistoryRepoMock), &fakeTxManager{})

	_, err := u.Get(context.Background(), 99, nil)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Update / Delete（所有チェック）
// =====================

func TestVideoUsecase_Update_NotOwner(t *testing.T) {
	videos := new(VidVideoRepoMock)
	videos.On("FindByID", mock.Anything, int64(10)).Return(&model.Video{
		ID: 10, OwnerID: 2, IsPublished: true,
	}, nil)

	u := usecase.NewVideoUsecase(videos, new(VidHistoryRepoMock), &fakeTxManager{})

	title := "new title"
	_, err := u.Update(context.Background(), 1, 10, usecase.UpdateVideoInput{Title: &title})
	assertHTTPStatus(t, err, http.StatusForbidden)

	videos.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVideoUsecase_Delete_CascadesRelations(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	likes := new(VidLikeRepoMock)
	comments := new(VidCommentRepoMock)
	history := new(VidHistoryRepoMock)
	playlists := new(VidPlaylistRepoMock)

	videos.On("FindByID", mock.Anything, int64(10)).Return(&model.Video{
		ID: 10, OwnerID: 1, IsPublished: true,
	}, nil)
	likes.On("DeleteByVideo", mock.Anything, int64(10)).Return(nil)
	comments.On("DeleteByVideo", mock.Anything, int64(10)).Return(nil)
	history.On("DeleteByVideo", mock.Anything, int64(10)).Return(nil)
	//プレイリストに残ると動画数が狂うので必ず外す
	playlists.On("DeleteVideoRefs", mock.Anything, int64(10)).Return(nil)
	videos.On("Delete", mock.Anything, int64(10)).Return(nil)

	txm := &fakeTxManager{repos: fakeTxRepos{
		videos:    videos,
		comments:  comments,
		likes:     likes,
		history:   history,
		playlists: playlists,
	}}

	u := usecase.NewVideoUsecase(videos, history, txm)

	err := u.Delete(ctx, 1, 10)
	assert.NoError(t, err)

	videos.AssertExpectations(t)
	likes.AssertExpectations(t)
	comments.AssertExpectations(t)
	history.AssertExpectations(t)
	playlists.AssertExpectations(t)
}

// =====================
// List
// =====================

func TestVideoUsecase_List_InvalidSort(t *testing.T) {
	u := usecase.NewVideoUsecase(new(VidVideoRepoMock), new(VidHistoryRepoMock), &fakeTxManager{})

	_, err := u.List(context.Background(), usecase.ListVideosInput{Page: 1, Limit: 20, Sort: "oldest"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestVideoUsecase_List_Success(t *testing.T) {
	ctx := context.Background()

	videos := new(VidVideoRepoMock)
	videos.On("List", mock.Anything, repo.VideoListQuery{Page: 1, Limit: 20, Q: "cats", Sort: "views"}).
		Return([]repo.VideoWithOwner{{Video: model.Video{ID: 1, Title: "cats"}}}, int64(1), nil)

	u := usecase.NewVideoUsecase(videos, new(VidHistoryRepoMock), &fakeTxManager{})

	out, err := u.List(ctx, usecase.ListVideosInput{Page: 1, Limit: 20, Q: " cats ", Sort: "views"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)

	videos.AssertExpectations(t)
}
