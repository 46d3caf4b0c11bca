// Command server runs the matchmaking WebSocket service: players join
// over /ws, are seated four to a match, and play to the winning score.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/needon1997/settlers/engine"
	"github.com/needon1997/settlers/internal/cache"
	"github.com/needon1997/settlers/internal/config"
	"github.com/needon1997/settlers/internal/database"
	"github.com/needon1997/settlers/internal/ws"
)

func main() {
	cfg := config.Load()
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cache.InitRedis(ctx, cfg.RedisAddr); err != nil {
		logrus.WithError(err).Warn("continuing without action history")
	}
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Warn("continuing without persistence")
	} else if database.DB != nil {
		if err := database.EnsureSchema(ctx); err != nil {
			logrus.WithError(err).Fatal("schema setup failed")
		}
	}

	rules := engine.DefaultGameRules()
	rules.WinScore = cfg.WinScore
	rules.NumPlayers = uint8(cfg.MatchPlayers)

	server := ws.NewServer(rules, cfg.TurnTimeout, cfg.SessionSecret)
	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logrus.WithField("addr", cfg.ListenAddr).Info("listening")
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
