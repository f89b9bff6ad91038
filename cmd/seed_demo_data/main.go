package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"prepmate/cmd/seed_demo_data/internal/seedmodels"
	"prepmate/internal/config"
	"prepmate/internal/database"
	"prepmate/internal/logger"
	"prepmate/internal/repository"
	"prepmate/internal/service"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/demo_sessions.json"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.JWT.SecretKey == "" {
		log.Fatal("JWT secret must be configured to seed demo users")
	}

	users, err := loadSeedUsers(seedFilePath)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.String("path", seedFilePath), zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("users", len(users)))

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := repository.NewSessionDatabaseAdapter(db)
	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	authService, err := service.NewAuthService(repository.NewUserDatabaseAdapter(db), cfg.JWT)
	if err != nil {
		log.Fatal("Failed to create AuthService", zap.Error(err))
	}
	s := &seeder{
		auth:     authService,
		sessions: service.NewSessionService(sessionRepo, questionRepo, repository.NewTransactionManagerAdapter(db)),
		log:      log,
	}

	for _, su := range users {
		res, err := s.seedUser(ctx, su)
		if err != nil {
			log.Error("Error seeding user", zap.String("email", su.Email), zap.Error(err))
			continue
		}
		log.Info("Seeded user",
			zap.String("email", su.Email),
			zap.Int("sessions_created", res.Sessions),
			zap.Int("sessions_skipped", res.Skipped))
	}
	log.Info("Demo data seeding completed")
}

func loadSeedUsers(path string) ([]seedmodels.SeedUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []seedmodels.SeedUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("unmarshal seed file: %w", err)
	}
	return users, nil
}
