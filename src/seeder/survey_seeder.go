package seeder

import (
	"context"
	"errors"
	"strings"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/auth"
	"Backend-SurveyHub/src/services/surveys"

	"go.uber.org/zap"
)

// SampleSurvey is the survey created by `seed` for a fresh database.
var SampleSurvey = models.CreateSurveyRequest{
	Title:       "Team Feedback",
	Description: "Tell us how the last sprint went",
	Questions: []models.QuestionInput{
		{Type: models.QuestionText, Text: "What went well?", Required: true},
		{Type: models.QuestionMultipleChoice, Text: "How was the workload?", Required: true,
			Options: []string{"Too light", "About right", "Too heavy"}},
		{Type: models.QuestionCheckbox, Text: "Which ceremonies were useful?",
			Options: []string{"Standup", "Planning", "Review", "Retro"}},
		{Type: models.QuestionRating, Text: "Rate the sprint from 1 to 5", Required: true},
	},
}

// SeedAdminAndSurvey makes sure an admin account exists and owns at least one survey.
func SeedAdminAndSurvey(ctx context.Context, authSvc *auth.Service, users auth.UserStore, surveySvc *surveys.Service, admin models.RegisterRequest) error {
	account, err := users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(admin.Email)))
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		res, err := authSvc.CreateAdmin(ctx, admin)
		if err != nil {
			return err
		}
		account = res.User
		logger.L().Info("🌱 admin seeded", zap.String("email", account.Email))
	case err != nil:
		return err
	}

	existing, total, err := surveySvc.ListByCreator(ctx, account.ID, models.PaginationParams{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		logger.L().Info("⏭️ surveys already seeded", zap.String("title", existing[0].Title))
		return nil
	}

	s, err := surveySvc.Create(ctx, account.ID, account.Name, SampleSurvey)
	if err != nil {
		return err
	}
	logger.L().Info("🌱 sample survey seeded", zap.String("surveyId", s.ID.Hex()))
	return nil
}
