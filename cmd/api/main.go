package main

import (
	"context"
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/limiter"
	infraRepo "app/internal/infra/repository"
	"app/internal/middleware"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	//.envは無くても動く（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Video{},
		&model.Comment{},
		&model.Tweet{},
		&model.Like{},
		&model.Playlist{},
		&model.PlaylistVideo{},
		&model.Subscription{},
		&model.WatchHistory{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	videoRepo := infraRepo.NewVideoGormRepository(gormDB)
	commentRepo := infraRepo.NewCommentGormRepository(gormDB)
	tweetRepo := infraRepo.NewTweetGormRepository(gormDB)
	likeRepo := infraRepo.NewLikeGormRepository(gormDB)
	playlistRepo := infraRepo.NewPlaylistGormRepository(gormDB)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(gormDB)
	historyRepo := infraRepo.NewWatchHistoryGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//期限切れセッションを起動時に掃除
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if n, err := sessionRepo.DeleteExpired(ctx, time.Now()); err != nil {
		log.Printf("delete expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("deleted %d expired sessions", n)
	}
	cancel()

	//ログイン試行の流量制限（Redis未設定なら無効）
	var loginLimiter usecase.LoginLimiter = limiter.NoopLoginLimiter{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = limiter.NewRedisLoginLimiter(rdb, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, sessionRepo, validator.NewAuthValidator(), loginLimiter)
	userUC := usecase.NewUserUsecase(userRepo, subscriptionRepo, historyRepo, txm)
	videoUC := usecase.NewVideoUsecase(videoRepo, historyRepo, txm)
	commentUC := usecase.NewCommentUsecase(commentRepo, videoRepo, likeRepo)
	tweetUC := usecase.NewTweetUsecase(tweetRepo, userRepo, likeRepo)
	likeUC := usecase.NewLikeUsecase(likeRepo, videoRepo, commentRepo, tweetRepo)
	playlistUC := usecase.NewPlaylistUsecase(playlistRepo, videoRepo, userRepo)
	subscriptionUC := usecase.NewSubscriptionUsecase(subscriptionRepo, userRepo)
	dashboardUC := usecase.NewDashboardUsecase(videoRepo, likeRepo, subscriptionRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg),
		User:         handler.NewUserHandler(userUC),
		Video:        handler.NewVideoHandler(videoUC),
		Comment:      handler.NewCommentHandler(commentUC),
		Tweet:        handler.NewTweetHandler(tweetUC),
		Like:         handler.NewLikeHandler(likeUC),
		Playlist:     handler.NewPlaylistHandler(playlistUC),
		Subscription: handler.NewSubscriptionHandler(subscriptionUC),
		Dashboard:    handler.NewDashboardHandler(dashboardUC),
		Health:       handler.NewHealthHandler(gormDB),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, handlers, middleware.AuthJWT(cfg, userRepo))

	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
