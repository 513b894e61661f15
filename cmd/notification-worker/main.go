package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/logger"
	"github.com/hackgods/clinic-scheduling/internal/notification"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("prod", "info")
		bootLog.Fatal().Err(err).Msg("config load error")
	}

	log := logger.New(cfg.Env, cfg.LogLevel).With().Str("service", "notification-worker").Logger()
	log.Info().Str("channel", cfg.NotificationChannel).Msg("notification-worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()

	msgs, err := redisclient.Subscribe(rootCtx, rdb, cfg.NotificationChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("subscribe error")
	}

	for payload := range msgs {
		var n notification.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			log.Warn().Err(err).Bytes("payload", payload).Msg("skipping malformed notification")
			continue
		}
		log.Info().
			Str("notification_id", n.ID.String()).
			Str("type", string(n.Type)).
			Time("timestamp", n.Timestamp).
			Msg(n.Message)
	}

	log.Info().Msg("shutdown signal received, stopping notification worker")
}
