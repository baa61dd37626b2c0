package app

import (
	"log"

	"skylens/mediascope/internal/config"
	"skylens/mediascope/internal/handler"
	"skylens/mediascope/internal/pkg/auth"
	"skylens/mediascope/internal/pkg/bedrock"
	"skylens/mediascope/internal/pkg/mailer"
	"skylens/mediascope/internal/repository"
	"skylens/mediascope/internal/service"

	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db := repository.NewDynamoDB(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)

	rdb, err := repository.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		sugar.Fatalw("redis connection failed", "error", err)
	}

	projectRepo := repository.NewProjectRepository(db, cfg.DynamoDBTableName)
	userRepo := repository.NewUserRepository(db, cfg.DynamoDBTableName)
	otpRepo := repository.NewOTPRepository(rdb)

	store := service.NewS3Service(cfg)
	ai := bedrock.NewClient(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.BedrockModelID)
	tokens := auth.NewTokenManager(cfg.JWTKey, cfg.JWTExpirationHours)

	var mail mailer.Mailer
	if cfg.SESSenderAddress != "" {
		mail = mailer.NewSESMailer(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.SESSenderAddress)
	} else {
		mail = &mailer.MockMailer{}
	}

	pipelineService := service.NewPipelineService(store, ai, projectRepo, sugar)
	projectService := service.NewProjectService(projectRepo)
	userService := service.NewUserService(userRepo, otpRepo, mail, tokens, sugar)

	analyzeHandler := handler.NewAnalyzeHandler(pipelineService)
	projectHandler := handler.NewProjectHandler(projectService)
	userHandler := handler.NewUserHandler(userService)
	systemHandler := handler.NewSystemHandler(store)

	server := NewServer(analyzeHandler, projectHandler, userHandler, systemHandler)
	server.Run(cfg.ServerPort, sugar)
}
