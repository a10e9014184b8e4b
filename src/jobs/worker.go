package jobs

import (
	"context"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/services/email"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewMux ผูก handler ของทุก task type ที่ worker รับผิดชอบ
func NewMux(sender email.MailSender, baseURL string) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	email.RegisterHandlers(mux, sender, baseURL)
	return mux
}

// NewServer builds the asynq worker on the same Redis as the API.
func NewServer(redisURI string, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisURI},
		asynq.Config{
			Concurrency:  concurrency,
			Queues:       map[string]int{"default": 1},
			Logger:       logger.L().Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(logTaskError),
		},
	)
}

func logTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger.L().Error("❌ task failed",
		zap.String("type", task.Type()),
		zap.Int("retry", retried),
		zap.Int("maxRetry", maxRetry),
		zap.Error(err))
}
