package seeder

import (
	"context"
	"testing"

	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/auth"
	"Backend-SurveyHub/src/services/surveys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdminAndSurveyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := auth.NewMemoryUsers()
	authSvc := auth.NewAuthService(users, auth.RedisTokens{}, nil)
	surveySvc := surveys.NewSurveyService(surveys.NewMemoryStore())
	admin := models.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "changeme"}

	require.NoError(t, SeedAdminAndSurvey(ctx, authSvc, users, surveySvc, admin))
	require.NoError(t, SeedAdminAndSurvey(ctx, authSvc, users, surveySvc, admin))

	u, err := users.FindUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	list, total, err := surveySvc.ListByCreator(ctx, u.ID, models.DefaultPagination())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list[0].Questions, len(SampleSurvey.Questions))
}
