package client

import (
	"context"
	"net"
	"net/http"
	"testing"

	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/routes"
	"Backend-SurveyHub/src/services/auth"
	"Backend-SurveyHub/src/services/outcomes"
	"Backend-SurveyHub/src/services/responses"
	"Backend-SurveyHub/src/services/surveys"
	"Backend-SurveyHub/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs the real API on memory stores and returns its base URL.
func startServer(t *testing.T) string {
	t.Helper()
	users := auth.NewMemoryUsers()
	store := surveys.NewMemoryStore()
	out := outcomes.NewOutcomeService(store, users, nil)
	controllers.Wire(controllers.Services{
		Auth:      auth.NewAuthService(users, auth.RedisTokens{}, nil),
		Surveys:   surveys.NewSurveyService(store).WithInvalidator(out),
		Responses: responses.NewResponseService(store, users).WithInvalidator(out),
		Outcomes:  out,
	})

	app := routes.NewApp("*")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestHTTPClient(t *testing.T) {
	suite := test.NewTestSuiteResult("Client API Tests")
	defer suite.PrintSummary(t)
	ctx := context.Background()

	suite.Run(t, "ErrorsCarryStatusAndMessage", func(t *testing.T) {
		api := NewHTTPClient(startServer(t) + "/")

		_, err := api.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
		assert.True(t, IsUnauthorized(err))
	})

	suite.Run(t, "StoreAgainstRealServer", func(t *testing.T) {
		base := startServer(t)

		signupAPI := NewHTTPClient(base)
		_, err := signupAPI.Register(ctx, models.RegisterRequest{Name: "Admin", Email: "x@example.com", Password: "secret1"})
		require.NoError(t, err)

		// admins are created through their own endpoint
		admin := NewHTTPClient(base)
		var res models.AuthResponse
		require.NoError(t, admin.do(ctx, http.MethodPost, "/admin/create-admin",
			models.RegisterRequest{Name: "Boss", Email: "boss@example.com", Password: "secret1"}, &res))
		admin.SetToken(res.Token)

		author := NewStore(admin, NewMemoryStorage())
		d := author.SaveDraft(Draft{Title: "Coffee", Questions: []models.QuestionInput{
			{Type: models.QuestionMultipleChoice, Text: "Hot or iced?", Options: []string{"Hot", "Iced"}, Required: true},
		}})
		d, err = author.Advance(d)
		require.NoError(t, err)
		created, err := author.Publish(ctx, d)
		require.NoError(t, err)
		require.Len(t, created.Questions, 1)

		respondent := NewStore(NewHTTPClient(base), NewMemoryStorage())
		_, err = respondent.Login(ctx, "x@example.com", "secret1")
		require.NoError(t, err)
		require.NoError(t, respondent.FetchAndMerge(ctx))
		require.Len(t, respondent.Surveys.Get(), 1)
		assert.Equal(t, models.StatusNew, respondent.Surveys.Get()[0].UserStatus)

		sid, qid := created.ID.Hex(), created.Questions[0].ID.Hex()
		require.NoError(t, respondent.RecordAnswer(ctx, sid, qid, "Iced"))
		_, err = respondent.Submit(ctx, sid)
		require.NoError(t, err)

		require.NoError(t, respondent.FetchAndMerge(ctx))
		assert.Equal(t, models.StatusCompleted, respondent.Surveys.Get()[0].UserStatus)

		report, err := author.FetchOutcomes(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, 1, report.TotalSurveyResponses)
		assert.Equal(t, "iced", author.Outcomes.Get()[0].Data["Hot or iced?"])

		require.NoError(t, respondent.Logout(ctx))
		_, err = respondent.api.Profile(ctx)
		assert.True(t, IsUnauthorized(err))
	})
}
