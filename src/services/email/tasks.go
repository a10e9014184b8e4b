package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/qrcode"
	"Backend-SurveyHub/src/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeNotifyNewSurvey = "email:notify-new-survey"
	TypeResetCode       = "email:reset-code"
)

type NotifyNewSurveyPayload struct {
	SurveyID    string `json:"surveyId"`
	SurveyTitle string `json:"surveyTitle"`
	CreatedBy   string `json:"createdBy"`
	Questions   int    `json:"questions"`
	To          string `json:"to"`
}

type ResetCodePayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

func NewNotifyNewSurveyTask(p NotifyNewSurveyPayload) (*asynq.Task, error) {
	p.SurveyID = strings.TrimSpace(p.SurveyID)
	p.SurveyTitle = strings.TrimSpace(p.SurveyTitle)
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyNewSurvey, b), nil
}

func NewResetCodeTask(p ResetCodePayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResetCode, b), nil
}

func NotifyNewSurveyTaskID(surveyID string) string {
	return "notify-new-survey-" + strings.TrimSpace(surveyID)
}

// HandleNotifyNewSurvey ส่งอีเมลแจ้งผู้ดูแลเมื่อมีแบบสอบถามใหม่
func HandleNotifyNewSurvey(sender MailSender, surveyURL func(string) string) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p NotifyNewSurveyPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// payload เสียจะไม่มีทางสำเร็จ ไม่ต้อง retry
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.To == "" {
			logger.L().Warn("⚠️ notify-new-survey without recipient, skipping", zap.String("surveyId", p.SurveyID))
			return nil
		}

		link := ""
		if surveyURL != nil {
			link = surveyURL(p.SurveyID)
		}
		html, err := RenderNewSurveyHTML(NewSurveyEmailData{
			SurveyTitle: p.SurveyTitle,
			CreatedBy:   p.CreatedBy,
			Questions:   p.Questions,
			SurveyLink:  link,
		})
		if err != nil {
			return err
		}
		if err := sender.Send(p.To, "New survey: "+p.SurveyTitle, html); err != nil {
			return err
		}
		logger.L().Info("📧 new survey email sent", zap.String("surveyId", p.SurveyID))
		return nil
	}
}

// HandleResetCode ส่งรหัสรีเซ็ตรหัสผ่าน
func HandleResetCode(sender MailSender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ResetCodePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		html, err := RenderResetCodeHTML(ResetCodeEmailData{
			Name:    p.Name,
			Code:    p.Code,
			Minutes: int(utils.ResetCodeTTL.Minutes()),
		})
		if err != nil {
			return err
		}
		return sender.Send(p.Email, "Your password reset code", html)
	}
}

// RegisterHandlers ลงทะเบียน handler ของงานส่งอีเมลทั้งหมด
func RegisterHandlers(mux *asynq.ServeMux, sender MailSender, baseURL string) {
	surveyURL := func(id string) string {
		if strings.TrimSpace(baseURL) == "" {
			return ""
		}
		return qrcode.SurveyLink(baseURL, id)
	}
	mux.HandleFunc(TypeNotifyNewSurvey, HandleNotifyNewSurvey(sender, surveyURL))
	mux.HandleFunc(TypeResetCode, HandleResetCode(sender))
}
