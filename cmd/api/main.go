package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	v1 "tabangi/cmd/api/router/v1"
	cacheadapter "tabangi/internal/infrastructure/cache/adapter"
	"tabangi/internal/infrastructure/database"
	"tabangi/internal/infrastructure/media"
	queueadapter "tabangi/internal/infrastructure/queue/adapter"
	"tabangi/internal/infrastructure/realtime"
	"tabangi/internal/pkg/chat/application/task"
	chatusecase "tabangi/internal/pkg/chat/application/usecase"
	chatadapter "tabangi/internal/pkg/chat/persistence/repository/adapter"
	chatport "tabangi/internal/pkg/chat/persistence/repository/port"
	chathttp "tabangi/internal/pkg/chat/presentation/http"
	profileusecase "tabangi/internal/pkg/profile/application/usecase"
	profileadapter "tabangi/internal/pkg/profile/persistence/repository/adapter"
	profileport "tabangi/internal/pkg/profile/persistence/repository/port"
	profilehttp "tabangi/internal/pkg/profile/presentation/http"
)

func main() {
	log := newLogger()

	// Absence of a .env file is normal in deployed environments.
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer cancel()

	rdb, err := cacheadapter.NewRedisClientFromEnv(startCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	var (
		chatRepo    chatport.ChatRepository
		profileRepo profileport.ProfileRepository
	)

	// The store backend is swappable: Firestore mirrors the hosted
	// deployment, Postgres serves self-hosted installs with Redis pub/sub
	// as the change feed.
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "postgres":
		pool, err := database.NewPoolFromEnv(startCtx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		pgChat := chatadapter.NewPgChatRepository(pool, rdb)
		if err := pgChat.EnsureSchema(startCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare chat schema")
		}
		pgProfile := profileadapter.NewPgProfileRepository(pool)
		if err := pgProfile.EnsureSchema(startCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to prepare profile schema")
		}
		chatRepo, profileRepo = pgChat, pgProfile
		log.Info().Msg("store backend: postgres")

	case "", "firestore":
		fs, err := database.NewFirestoreClientFromEnv(startCtx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to firestore")
		}
		defer fs.Close()

		chatRepo = chatadapter.NewFirestoreChatRepository(fs)
		profileRepo = profileadapter.NewFirestoreProfileRepository(fs)
		log.Info().Msg("store backend: firestore")

	default:
		log.Fatal().Str("backend", backend).Msg("unknown STORE_BACKEND")
	}

	uploader, err := media.NewUploaderFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure media uploader")
	}

	// Profile summaries are read on every inbox projection, so they go
	// through a short-lived cache.
	summaries := profileusecase.NewSummaryCache(profileRepo, cacheadapter.NewRedisCache(rdb))

	rtRouter := realtime.NewRouter()

	openUC := chatusecase.NewOpenConversationUseCase(chatRepo)
	sendUC := chatusecase.NewSendMessageUseCase(chatRepo)
	// New messages ping the recipient's live socket even when no thread or
	// inbox watch is open.
	sendUC.Notifier = rtRouter
	getUC := chatusecase.NewGetMessageUseCase(chatRepo)
	streamUC := chatusecase.NewStreamMessagesUseCase(chatRepo)
	inboxUC := chatusecase.NewStreamInboxUseCase(chatRepo, summaries, log)

	queueClient, err := queueadapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterSendMessageTask(queueServer, sendUC, log)

	go func() {
		if err := queueServer.Run(rootCtx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, v1.Deps{
		JWTSecret: jwtSecret,
		Chat: chathttp.Deps{
			Open:   openUC,
			Send:   sendUC,
			Get:    getUC,
			Stream: streamUC,
			Inbox:  inboxUC,
			Queue:  queueClient,
			Router: rtRouter,
			Log:    log,
		},
		Profile: profilehttp.Deps{
			Get:     profileusecase.NewGetProfileUseCase(profileRepo),
			Role:    profileusecase.NewChooseRoleUseCase(profileRepo),
			Details: profileusecase.NewSaveDetailsUseCase(profileRepo),
			Vis:     profileusecase.NewSetVisibilityUseCase(profileRepo),
			List:    profileusecase.NewListCandidatesUseCase(profileRepo),
			Upload:  profileusecase.NewUploadPhotoUseCase(profileRepo, uploader, summaries),
		},
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	// The queue server drains on its own once rootCtx is canceled.
	rtRouter.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
