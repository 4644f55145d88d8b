package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"medsync/internal/app/server"
	"medsync/internal/app/server/config"
	"medsync/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, conf, log)
	if err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
