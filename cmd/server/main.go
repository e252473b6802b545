package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mosaicsocial/mosaic/auth"
	"github.com/mosaicsocial/mosaic/config"
	"github.com/mosaicsocial/mosaic/logging"
	"github.com/mosaicsocial/mosaic/media"
	"github.com/mosaicsocial/mosaic/server"
	"github.com/mosaicsocial/mosaic/social"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logging.New(false).Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Debug)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.App, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	users := repos.Users()
	posts := social.NewPostsRepository(db)
	comments := social.NewCommentsRepository(db, posts)
	likes := social.NewLikesRepository(db, posts)
	blocks := social.NewBlocksRepository(db)

	registry := newRegistry(ctx, cfg, logger)

	tokens := auth.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetAccessTokenTTL(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		logger,
	)

	auther := auth.NewAuthenticator(users, tokens, registry).WithLogger(logger)
	if cfg.DeterministicIDs {
		auther = auther.WithDeterministicIDs()
	}

	var presigner *media.Presigner
	if cfg.S3Bucket != "" {
		presigner, err = media.NewPresigner(media.Options{
			Bucket:      cfg.S3Bucket,
			Region:      cfg.S3Region,
			Endpoint:    cfg.S3Endpoint,
			AccessKey:   cfg.S3AccessKey,
			SecretKey:   cfg.S3SecretKey,
			URLLifetime: cfg.MediaURLLifetime,
		})
		if err != nil {
			return err
		}
	}

	srv := server.New(server.Options{
		Debug:     cfg.Debug,
		Logger:    logger,
		Cfg:       cfg,
		Auther:    auther,
		Users:     users,
		Posts:     posts,
		Comments:  comments,
		Likes:     likes,
		Blocks:    blocks,
		Presigner: presigner,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*auth.User)(nil),
		(*social.Post)(nil),
		(*social.Comment)(nil),
		(*social.PostLike)(nil),
		(*social.BlockedUser)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// newRegistry picks the revocation backend: Redis when configured, otherwise
// an in-process denylist with a background purge loop.
func newRegistry(ctx context.Context, cfg *config.App, logger *logging.SlogLogger) auth.RevocationRegistry {
	if cfg.RedisAddr != "" {
		logger.Info("using redis revocation registry", "addr", cfg.RedisAddr)
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return auth.NewRedisDenylist(client, "")
	}

	denylist := auth.NewDenylist()
	denylist.StartPurging(ctx, auth.DefaultPurgeInterval)
	return denylist
}
