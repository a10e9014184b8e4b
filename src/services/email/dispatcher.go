package email

import (
	"context"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher queues emails when asynq is available and sends them inline otherwise.
type Dispatcher struct {
	queue      Enqueuer
	sender     MailSender
	adminEmail string
	baseURL    string
}

// NewDispatcher; queue and sender may each be nil.
func NewDispatcher(queue Enqueuer, sender MailSender, adminEmail, baseURL string) *Dispatcher {
	return &Dispatcher{queue: queue, sender: sender, adminEmail: adminEmail, baseURL: baseURL}
}

// SurveyCreated notifies ADMIN_EMAIL about a new survey. Failures are logged only.
func (d *Dispatcher) SurveyCreated(ctx context.Context, survey *models.Survey, createdBy string) {
	if d.adminEmail == "" {
		return
	}
	payload := NotifyNewSurveyPayload{
		SurveyID:    survey.ID.Hex(),
		SurveyTitle: survey.Title,
		CreatedBy:   createdBy,
		Questions:   len(survey.Questions),
		To:          d.adminEmail,
	}
	task, err := NewNotifyNewSurveyTask(payload)
	if err != nil {
		logger.L().Error("❌ build notify-new-survey task", zap.Error(err))
		return
	}

	if err := d.dispatch(ctx, task, NotifyNewSurveyTaskID(payload.SurveyID)); err != nil {
		logger.L().Error("❌ notify new survey", zap.String("surveyId", payload.SurveyID), zap.Error(err))
	}
}

// SendResetCode delivers a password reset code.
func (d *Dispatcher) SendResetCode(ctx context.Context, email, name, code string) error {
	task, err := NewResetCodeTask(ResetCodePayload{Email: email, Name: name, Code: code})
	if err != nil {
		return err
	}
	return d.dispatch(ctx, task, "reset-code-"+uuid.NewString())
}

func (d *Dispatcher) dispatch(ctx context.Context, task *asynq.Task, taskID string) error {
	// มี Redis → เข้าคิว
	if d.queue != nil {
		if _, err := d.queue.EnqueueContext(ctx, task, asynq.TaskID(taskID), asynq.MaxRetry(3)); err != nil {
			return err
		}
		logger.L().Info("✅ enqueued email task", zap.String("type", task.Type()), zap.String("taskId", taskID))
		return nil
	}

	// ไม่มี Redis → ส่งทันที
	if d.sender == nil {
		logger.L().Warn("⚠️ no queue and no SMTP sender, email dropped", zap.String("type", task.Type()))
		return nil
	}
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, d.sender, d.baseURL)
	return mux.ProcessTask(ctx, task)
}
