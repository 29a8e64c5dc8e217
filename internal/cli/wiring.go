package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"spellingb/internal/app"
	"spellingb/internal/calendar"
	"spellingb/internal/config"
	"spellingb/internal/infra/memory"
	pgloader "spellingb/internal/infra/postgres"
	infraredis "spellingb/internal/infra/redis"
	"spellingb/internal/infra/sqlite"
	"spellingb/internal/infra/wordfile"
	"spellingb/internal/logging"
)

// runtime holds the wired service and the resources to release on exit.
type runtime struct {
	cfg     config.Config
	log     zerolog.Logger
	service *app.GameService
	closers []func()
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func loadConfig(path string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, logging.Setup(cfg.Log.Level, cfg.Log.Pretty), nil
}

func buildRuntime(ctx context.Context, cfg config.Config, log zerolog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	cal, err := calendar.New(cfg.Game.Timezone, cfg.Game.Epoch, time.Now)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.WordLoader = wordfile.NewLoader(cfg.Game.WordsFile)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		loader = pgloader.NewWordLoader(pool)
	}

	wordsTTL := config.TTLDuration(cfg.Words.TTL, 10*time.Minute)
	var words app.WordRepository
	if redisClient != nil {
		words = infraredis.NewWordPoolRepository(redisClient, loader, wordsTTL)
	} else {
		words = memory.NewWordPoolRepository(loader, wordsTTL)
	}

	store, err := openStore(cfg, redisClient, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.service = app.NewGameService(store, words, cal, logging.Component(log, "game"))
	log.Info().
		Str("storage", cfg.Storage.Driver).
		Bool("postgres", cfg.Postgres.URL != "").
		Bool("redis", redisClient != nil).
		Str("timezone", cal.Location().String()).
		Msg("service wired")
	return rt, nil
}

func openStore(cfg config.Config, client *redis.Client, rt *runtime) (app.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case "", config.DriverMemory:
		return memory.NewKVStore(), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = db.Close() })
		return sqlite.NewKVStore(db), nil
	case config.DriverRedis:
		if client == nil {
			return nil, fmt.Errorf("storage driver redis requires redis.addr")
		}
		snapshotTTL := config.TTLDuration(cfg.Redis.TTL, 0)
		return infraredis.NewKVStore(client, cfg.Redis.Prefix, infraredis.WithExpiringSuffix(app.SessionKey, snapshotTTL)), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
