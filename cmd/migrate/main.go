package main

import (
	"context"
	"flag"
	"log"
	"time"

	"prepmate/internal/config"
	"prepmate/internal/database"
	"prepmate/internal/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "revert the given number of applied migrations instead of migrating up")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		l.Fatal("Failed to load migrations", zap.Error(err))
	}
	defer migrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *down > 0 {
		n, err := migrator.Down(ctx, *down)
		if err != nil {
			l.Fatal("Failed to revert migrations", zap.Int("reverted", n), zap.Error(err))
		}
		l.Info("Migrations reverted", zap.Int("count", n))
		return
	}

	n, err := migrator.Up(ctx)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Int("applied", n), zap.Error(err))
	}
	l.Info("Migrations completed successfully", zap.Int("applied", n))
}
