package database

import (
	"Backend-SurveyHub/src/logger"

	"github.com/hibiken/asynq"
)

var AsynqClient *asynq.Client

// InitAsynq initializes Asynq client only if Redis is available
func InitAsynq() {
	if RedisClient == nil || RedisURI == "" {
		logger.L().Warn("⚠️ Redis not available. Asynq client will not be initialized.")
		return
	}

	AsynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: RedisURI})
	logger.L().Info("✅ Asynq Client initialized successfully")
}

// CloseAsynq closes the client if it was opened.
func CloseAsynq() {
	if AsynqClient != nil {
		_ = AsynqClient.Close()
	}
}
