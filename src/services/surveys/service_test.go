package surveys

import (
	"context"
	"errors"
	"testing"
	"time"

	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct{ created []string }

func (n *recordingNotifier) SurveyCreated(_ context.Context, s *models.Survey, _ string) {
	n.created = append(n.created, s.Title)
}

type recordingInvalidator struct{ ids []primitive.ObjectID }

func (i *recordingInvalidator) Invalidate(_ context.Context, id primitive.ObjectID) {
	i.ids = append(i.ids, id)
}

func sampleRequest() models.CreateSurveyRequest {
	return models.CreateSurveyRequest{
		Title:       "Lunch",
		Description: "What do we eat",
		Questions: []models.QuestionInput{
			{Type: models.QuestionMultipleChoice, Text: "Rice or noodles?", Options: []string{"Rice", "Noodles", " "}, Required: true},
			{Type: models.QuestionRating, Text: "Rate the canteen"},
		},
	}
}

func TestSurveyService(t *testing.T) {
	suite := test.NewTestSuiteResult("Survey Service Tests")
	defer suite.PrintSummary(t)

	ctx := context.Background()
	admin := primitive.NewObjectID()

	suite.Run(t, "CreateAssignsOrderAndNotifies", func(t *testing.T) {
		store := NewMemoryStore()
		n := &recordingNotifier{}
		svc := NewSurveyService(store).WithNotifier(n)

		s, err := svc.Create(ctx, admin, "Ann", sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, models.SurveyPublished, s.Status)
		require.Len(t, s.Questions, 2)
		assert.Equal(t, 1, s.Questions[0].Order)
		assert.Equal(t, 2, s.Questions[1].Order)
		assert.Equal(t, []string{"Rice", "Noodles"}, s.Questions[0].Options)
		assert.Equal(t, []string{"Lunch"}, n.created)

		got, err := svc.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Questions[1].ID, got.Questions[1].ID)
	})

	suite.Run(t, "CreateRejectsInvalidInput", func(t *testing.T) {
		svc := NewSurveyService(NewMemoryStore())

		req := sampleRequest()
		req.Title = "  "
		_, err := svc.Create(ctx, admin, "Ann", req)
		assert.ErrorIs(t, err, ErrInvalidSurvey)

		req = sampleRequest()
		req.Questions[0].Options = nil
		_, err = svc.Create(ctx, admin, "Ann", req)
		assert.ErrorIs(t, err, ErrInvalidSurvey)

		req = sampleRequest()
		req.Questions[1].Type = "slider"
		_, err = svc.Create(ctx, admin, "Ann", req)
		assert.ErrorIs(t, err, ErrInvalidSurvey)
	})

	suite.Run(t, "FailedCreateLeavesNoSurvey", func(t *testing.T) {
		store := NewMemoryStore()
		store.FailNextWrite = errors.New("write conflict")
		svc := NewSurveyService(store)

		_, err := svc.Create(ctx, admin, "Ann", sampleRequest())
		require.Error(t, err)

		list, total, err := svc.ListByCreator(ctx, admin, models.DefaultPagination())
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
	})

	suite.Run(t, "ListByCreatorNewestFirstAndPaged", func(t *testing.T) {
		store := NewMemoryStore()
		svc := NewSurveyService(store)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, title := range []string{"a", "b", "c"} {
			at := base.Add(time.Duration(i) * time.Hour)
			svc.now = func() time.Time { return at }
			req := sampleRequest()
			req.Title = title
			_, err := svc.Create(ctx, admin, "Ann", req)
			require.NoError(t, err)
		}
		_, err := svc.Create(ctx, primitive.NewObjectID(), "Bob", sampleRequest())
		require.NoError(t, err)

		list, total, err := svc.ListByCreator(ctx, admin, models.DefaultPagination())
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, list, 3)
		assert.Equal(t, "c", list[0].Title)

		list, _, err = svc.ListByCreator(ctx, admin, models.PaginationParams{Page: 2, Limit: 2, Order: "desc"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "a", list[0].Title)
	})

	suite.Run(t, "UpdateEditsAndAppendsQuestions", func(t *testing.T) {
		inv := &recordingInvalidator{}
		svc := NewSurveyService(NewMemoryStore()).WithInvalidator(inv)
		s, err := svc.Create(ctx, admin, "Ann", sampleRequest())
		require.NoError(t, err)

		got, err := svc.Update(ctx, admin, s.ID, models.UpdateSurveyRequest{
			Questions: []models.QuestionInput{
				{ID: s.Questions[1].ID.Hex(), Type: models.QuestionRating, Text: "Rate the food", Required: true},
				{Type: models.QuestionText, Text: "Comments"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Lunch", got.Title, "empty title keeps the old one")
		require.Len(t, got.Questions, 3)
		assert.Equal(t, "Rate the food", got.Questions[1].Text)
		assert.True(t, got.Questions[1].Required)
		assert.Equal(t, "Comments", got.Questions[2].Text)
		assert.Equal(t, 3, got.Questions[2].Order)
		assert.Equal(t, []primitive.ObjectID{s.ID}, inv.ids)
	})

	suite.Run(t, "UpdateRejectsOtherOwnersAndForeignQuestions", func(t *testing.T) {
		svc := NewSurveyService(NewMemoryStore())
		s, err := svc.Create(ctx, admin, "Ann", sampleRequest())
		require.NoError(t, err)

		_, err = svc.Update(ctx, primitive.NewObjectID(), s.ID, models.UpdateSurveyRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrSurveyNotFound)

		_, err = svc.Update(ctx, admin, s.ID, models.UpdateSurveyRequest{
			Questions: []models.QuestionInput{{ID: primitive.NewObjectID().Hex(), Type: models.QuestionText, Text: "?"}},
		})
		assert.ErrorIs(t, err, ErrInvalidSurvey)
	})

	suite.Run(t, "DeleteCascadesAndChecksOwner", func(t *testing.T) {
		store := NewMemoryStore()
		svc := NewSurveyService(store)
		s, err := svc.Create(ctx, admin, "Ann", sampleRequest())
		require.NoError(t, err)

		user := primitive.NewObjectID()
		require.NoError(t, store.SaveSubmission(ctx, []models.Response{
			{SurveyID: s.ID, QuestionID: s.Questions[0].ID, UserID: user, Answer: "Rice"},
		}, &models.SurveyUserStatus{UserID: user, SurveyID: s.ID, Status: models.StatusCompleted}))

		err = svc.Delete(ctx, primitive.NewObjectID(), models.RoleUser, s.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		require.NoError(t, svc.Delete(ctx, admin, models.RoleAdmin, s.ID))

		_, err = svc.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrSurveyNotFound)
		rs, _ := store.FindResponses(ctx, s.ID)
		assert.Empty(t, rs)
		st, _ := store.FindStatus(ctx, user, s.ID)
		assert.Nil(t, st)

		assert.ErrorIs(t, svc.Delete(ctx, admin, models.RoleAdmin, s.ID), ErrSurveyNotFound)
	})
}
