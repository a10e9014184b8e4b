package main

import (
	"context"
	"fmt"
	"time"

	"Backend-SurveyHub/src/config"
	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/services/auth"
	"Backend-SurveyHub/src/services/email"
	"Backend-SurveyHub/src/services/outcomes"
	"Backend-SurveyHub/src/services/responses"
	"Backend-SurveyHub/src/services/surveys"

	"go.uber.org/zap"
)

// stack holds the connected stores and services shared by every command.
type stack struct {
	cfg      *config.Config
	users    auth.UserStore
	inMemory bool
	services controllers.Services
}

// connect opens Mongo, Redis and the asynq client, then builds the services.
// With inMemory set, Mongo is skipped and every store lives in process memory.
func connect(cfg *config.Config, inMemory bool) (*stack, error) {
	if !inMemory {
		if err := database.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB); err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
	}
	if err := database.InitRedis(cfg.RedisURI); err != nil {
		return nil, err
	}
	database.InitAsynq()

	sender, err := email.NewSMTPSender(cfg)
	if err != nil {
		logger.L().Warn("⚠️ SMTP not configured, emails are disabled", zap.Error(err))
	}

	var queue email.Enqueuer
	if database.AsynqClient != nil {
		queue = database.AsynqClient
	}
	var mailSender email.MailSender
	if sender != nil {
		mailSender = sender
	}
	dispatcher := email.NewDispatcher(queue, mailSender, cfg.AdminEmail, cfg.AppBaseURL)

	var (
		users         auth.UserStore
		surveyStore   surveys.Store
		responseStore responses.Store
		outcomeStore  outcomes.Store
	)
	if inMemory {
		mem := surveys.NewMemoryStore()
		users, surveyStore, responseStore, outcomeStore = auth.NewMemoryUsers(), mem, mem, mem
		logger.L().Warn("⚠️ in-memory stores: data is lost on exit")
	} else {
		mongoSurveys := surveys.NewMongoStore()
		users, surveyStore, outcomeStore = auth.NewMongoUsers(), mongoSurveys, mongoSurveys
		responseStore = responses.NewMongoStore(mongoSurveys)
	}
	outcomeSvc := outcomes.NewOutcomeService(outcomeStore, users, database.RedisClient)

	authSvc := auth.NewAuthService(users, auth.RedisTokens{}, dispatcher)
	if google := auth.NewGoogleProvider(cfg); google != nil {
		authSvc.WithGoogle(google)
	} else {
		logger.L().Info("ℹ️ GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	return &stack{
		cfg:      cfg,
		users:    users,
		inMemory: inMemory,
		services: controllers.Services{
			Auth: authSvc,
			Surveys: surveys.NewSurveyService(surveyStore).
				WithNotifier(dispatcher).
				WithInvalidator(outcomeSvc),
			Responses: responses.NewResponseService(responseStore, users).
				WithInvalidator(outcomeSvc),
			Outcomes:    outcomeSvc,
			BaseURL:     cfg.AppBaseURL,
			FrontendURL: cfg.FrontendURL,
		},
	}, nil
}

func (s *stack) close() {
	database.CloseAsynq()
	if database.RedisClient != nil {
		_ = database.RedisClient.Close()
	}
	if s.inMemory {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Disconnect(ctx); err != nil {
		logger.L().Warn("⚠️ mongo disconnect", zap.Error(err))
	}
}
