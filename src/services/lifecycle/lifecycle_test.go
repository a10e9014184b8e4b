package lifecycle

import (
	"errors"
	"testing"

	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleQuestions() []models.Question {
	return []models.Question{
		{ID: primitive.NewObjectID(), Type: models.QuestionText, Text: "Name", Required: true},
		{ID: primitive.NewObjectID(), Type: models.QuestionRating, Text: "Rate us", Required: true},
		{ID: primitive.NewObjectID(), Type: models.QuestionText, Text: "Anything else?"},
	}
}

func TestLifecycle(t *testing.T) {
	suite := test.NewTestSuiteResult("Survey Lifecycle Tests")
	defer suite.PrintSummary(t)

	suite.Run(t, "CanSubmitFlipsOnLastRequiredAnswer", func(t *testing.T) {
		qs := sampleQuestions()
		answers := map[string]string{}

		assert.False(t, CanSubmit(qs, answers))
		answers[qs[0].ID.Hex()] = "Ann"
		assert.False(t, CanSubmit(qs, answers))
		answers[qs[2].ID.Hex()] = "optional only"
		assert.False(t, CanSubmit(qs, answers))
		answers[qs[1].ID.Hex()] = "4"
		assert.True(t, CanSubmit(qs, answers))
	})

	suite.Run(t, "EmptyStringIsUnanswered", func(t *testing.T) {
		qs := sampleQuestions()
		answers := map[string]string{qs[0].ID.Hex(): "", qs[1].ID.Hex(): "3"}
		assert.False(t, CanSubmit(qs, answers))
		assert.Equal(t, []string{qs[0].ID.Hex()}, MissingRequired(qs, answers))
	})

	suite.Run(t, "ZeroRatingCountsAsAnswered", func(t *testing.T) {
		qs := sampleQuestions()
		answers := map[string]string{qs[0].ID.Hex(): "Ann", qs[1].ID.Hex(): "0"}
		assert.True(t, CanSubmit(qs, answers))
	})

	suite.Run(t, "NoRequiredQuestions", func(t *testing.T) {
		qs := []models.Question{{ID: primitive.NewObjectID(), Type: models.QuestionText}}
		assert.True(t, CanSubmit(qs, nil))
		assert.True(t, CanSubmit(nil, nil))
	})

	suite.Run(t, "RecordAnswerMovesNewToInProgress", func(t *testing.T) {
		st := &models.SurveyUserStatus{Status: models.StatusNew}
		RecordAnswer(st, "q1", "hello")
		assert.Equal(t, models.StatusInProgress, st.Status)
		assert.Equal(t, "hello", st.Answers["q1"])

		RecordAnswer(st, "q2", "world")
		RecordAnswer(st, "q1", "again")
		assert.Equal(t, models.StatusInProgress, st.Status)
		assert.Equal(t, map[string]string{"q1": "again", "q2": "world"}, st.Answers)
	})

	suite.Run(t, "RecordAnswerKeepsCompleted", func(t *testing.T) {
		st := &models.SurveyUserStatus{Status: models.StatusCompleted}
		RecordAnswer(st, "q1", "late edit")
		assert.Equal(t, models.StatusCompleted, st.Status)
		assert.Equal(t, "late edit", st.Answers["q1"])
	})

	suite.Run(t, "SubmitRejectsMissingRequired", func(t *testing.T) {
		qs := sampleQuestions()
		st := &models.SurveyUserStatus{Status: models.StatusInProgress, Answers: map[string]string{"x": "y"}}
		err := Submit(st, qs, map[string]string{qs[0].ID.Hex(): "Ann"})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, ErrRequiredAnswers, verr.Error())
		assert.Equal(t, []string{qs[1].ID.Hex()}, verr.Missing)
		assert.Equal(t, models.StatusInProgress, st.Status)
		assert.Equal(t, map[string]string{"x": "y"}, st.Answers)
	})

	suite.Run(t, "SubmitCompletes", func(t *testing.T) {
		qs := sampleQuestions()
		answers := map[string]string{qs[0].ID.Hex(): "Ann", qs[1].ID.Hex(): "5"}
		st := &models.SurveyUserStatus{}

		require.NoError(t, Submit(st, qs, answers))
		assert.Equal(t, models.StatusCompleted, st.Status)
		assert.Equal(t, answers, st.Answers)

		// the stored map is a copy
		answers[qs[2].ID.Hex()] = "later"
		assert.NotContains(t, st.Answers, qs[2].ID.Hex())
	})

	suite.Run(t, "SubmitKeepsEarlierRecordedAnswers", func(t *testing.T) {
		qs := sampleQuestions()
		st := &models.SurveyUserStatus{Status: models.StatusNew}
		RecordAnswer(st, qs[2].ID.Hex(), "draft note")
		RecordAnswer(st, qs[0].ID.Hex(), "Old name")

		require.NoError(t, Submit(st, qs, map[string]string{qs[0].ID.Hex(): "Ann", qs[1].ID.Hex(): "4"}))
		assert.Equal(t, models.StatusCompleted, st.Status)
		assert.Equal(t, map[string]string{
			qs[0].ID.Hex(): "Ann",
			qs[1].ID.Hex(): "4",
			qs[2].ID.Hex(): "draft note",
		}, st.Answers)
	})

	suite.Run(t, "SubmitUnknownStatusFails", func(t *testing.T) {
		st := &models.SurveyUserStatus{Status: "archived"}
		assert.Error(t, Submit(st, nil, nil))
	})

	suite.Run(t, "AnsweredQuestionsIncludesOptional", func(t *testing.T) {
		qs := sampleQuestions()
		answers := map[string]string{qs[0].ID.Hex(): "Ann", qs[1].ID.Hex(): "", qs[2].ID.Hex(): "extra"}
		got := AnsweredQuestions(qs, answers)
		require.Len(t, got, 2)
		assert.Equal(t, qs[0].ID, got[0].ID)
		assert.Equal(t, qs[2].ID, got[1].ID)
	})

	suite.Run(t, "TransitionTable", func(t *testing.T) {
		cases := []struct {
			from, to models.RespondentStatus
			ok       bool
		}{
			{models.StatusNew, models.StatusInProgress, true},
			{models.StatusInProgress, models.StatusInProgress, true},
			{models.StatusInProgress, models.StatusCompleted, true},
			{models.StatusNew, models.StatusCompleted, true},
			{models.StatusCompleted, models.StatusInProgress, false},
			{models.StatusCompleted, models.StatusNew, false},
			{models.StatusInProgress, models.StatusNew, false},
		}
		for _, c := range cases {
			assert.Equal(t, c.ok, Transition(c.from, c.to), "%s -> %s", c.from, c.to)
		}
	})
}
