package email

import (
	"context"
	"errors"
	"testing"

	"Backend-SurveyHub/src/config"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/test"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentMail struct{ to, subject, html string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, html})
	return nil
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestEmail(t *testing.T) {
	suite := test.NewTestSuiteResult("Email Tests")
	defer suite.PrintSummary(t)

	ctx := context.Background()
	survey := &models.Survey{ID: primitive.NewObjectID(), Title: "Lunch", Questions: make([]models.Question, 2)}

	suite.Run(t, "SMTPSenderNamesMissingSettings", func(t *testing.T) {
		_, err := NewSMTPSender(&config.Config{SMTPHost: "smtp.example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SMTP_PORT")
		assert.NotContains(t, err.Error(), "SMTP_HOST")

		s, err := NewSMTPSender(&config.Config{
			SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUser: "u", SMTPPass: "p", SMTPFrom: "noreply@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, 587, s.Port)
	})

	suite.Run(t, "SurveyCreatedIsQueued", func(t *testing.T) {
		q := &fakeQueue{}
		d := NewDispatcher(q, nil, "admin@example.com", "")

		d.SurveyCreated(ctx, survey, "Ann")
		require.Len(t, q.tasks, 1)
		assert.Equal(t, TypeNotifyNewSurvey, q.tasks[0].Type())
	})

	suite.Run(t, "SurveyCreatedWithoutAdminEmailDoesNothing", func(t *testing.T) {
		q := &fakeQueue{}
		NewDispatcher(q, nil, "", "").SurveyCreated(ctx, survey, "Ann")
		assert.Empty(t, q.tasks)
	})

	suite.Run(t, "SendsInlineWithoutQueue", func(t *testing.T) {
		s := &fakeSender{}
		d := NewDispatcher(nil, s, "admin@example.com", "https://surveys.example.com/")

		d.SurveyCreated(ctx, survey, "Ann")
		require.Len(t, s.sent, 1)
		assert.Equal(t, "admin@example.com", s.sent[0].to)
		assert.Equal(t, "New survey: Lunch", s.sent[0].subject)
		assert.Contains(t, s.sent[0].html, "https://surveys.example.com/surveys/"+survey.ID.Hex())
		assert.Contains(t, s.sent[0].html, "2 question(s)")

		require.NoError(t, d.SendResetCode(ctx, "bee@example.com", "Bee", "123456"))
		require.Len(t, s.sent, 2)
		assert.Contains(t, s.sent[1].html, "123456")
		assert.Contains(t, s.sent[1].html, "15 minutes")
	})

	suite.Run(t, "ResetCodeErrorsPropagate", func(t *testing.T) {
		d := NewDispatcher(&fakeQueue{err: errors.New("redis down")}, nil, "", "")
		assert.Error(t, d.SendResetCode(ctx, "a@example.com", "A", "000001"))

		d = NewDispatcher(nil, &fakeSender{err: errors.New("smtp down")}, "", "")
		assert.Error(t, d.SendResetCode(ctx, "a@example.com", "A", "000001"))
	})

	suite.Run(t, "BadPayloadSkipsRetry", func(t *testing.T) {
		h := HandleResetCode(&fakeSender{})
		err := h(ctx, asynq.NewTask(TypeResetCode, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
