package main

import (
	"MyVault/internal/blob"
	"MyVault/internal/config"
	"MyVault/internal/docstore"
	"MyVault/internal/handlers"
	"MyVault/internal/middleware"
	"MyVault/internal/repo"
	"MyVault/internal/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStorage(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
	}
	defer closeStore()

	h, err := newRouter(ctx, cfg, st, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize blob store", "driver", cfg.BlobDriver, "error", err)
	}

	addr := cfg.BaseURL
	sugar.Infow("Starting MyVault server",
		"addr", addr,
		"env", cfg.Env,
		"https", cfg.EnableHTTPS,
		"storage", cfg.StorageBackend,
		"docstore", cfg.DocstoreDriver,
		"blob", cfg.BlobDriver,
		"max_upload_mb", cfg.BlobMaxSizeMB,
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

// blobConfig переносит настройки блоб-хранилища из общего конфига.
func blobConfig(cfg *config.Config) blob.Config {
	return blob.Config{
		Driver:        blob.Driver(cfg.BlobDriver),
		FSRoot:        cfg.BlobFSRoot,
		PublicBaseURL: cfg.BlobPublicBaseURL,
		S3: blob.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3PathStyle,
			PublicBaseURL:   cfg.BlobPublicBaseURL,
		},
	}
}

// newRouter собирает блоб-хранилище, сервисы и маршрутизатор поверх готового хранилища.
// Файловый драйвер дополнительно раздаёт объекты по /blobs.
func newRouter(ctx context.Context, cfg *config.Config, st *repo.Storage, logger *zap.SugaredLogger) (*handlers.Handler, error) {
	blobs, err := blob.Open(ctx, blobConfig(cfg))
	if err != nil {
		return nil, err
	}
	svc := service.New(st, blobs, logger, service.Options{MaxUploadBytes: cfg.MaxUploadBytes()})

	var blobHandler http.Handler
	if fsStore, ok := blobs.(*blob.Filesystem); ok {
		blobHandler = fsStore.Handler()
	}
	return handlers.NewHandler(svc, logger, cfg, blobHandler), nil
}

// newLogger выбирает production- или development-конфигурацию zap по ENV.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStorage поднимает выбранный бэкенд и возвращает функцию его закрытия.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*repo.Storage, func(), error) {
	if cfg.StorageBackend == config.BackendRelational {
		gormDB, err := repo.InitDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo.NewRelationalStorage(gormDB), closeDB, nil
	}

	var (
		store docstore.Store
		err   error
	)
	switch cfg.DocstoreDriver {
	case "memory":
		logger.Warnw("document store is in memory, data is lost on restart")
		store = docstore.NewMemory()
	case "redis":
		store, err = docstore.NewRedis(ctx, cfg.RedisURL)
	case "mongo":
		store, err = docstore.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		err = fmt.Errorf("unknown document store driver %q", cfg.DocstoreDriver)
	}
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warnw("failed to close document store", "error", err)
		}
	}
	return repo.NewDocumentStorage(store, logger), closeStore, nil
}
