package client

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/lifecycle"
	"Backend-SurveyHub/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

// fakeAPI returns canned data and records what the store sent.
type fakeAPI struct {
	mu sync.Mutex

	token    string
	surveys  []models.VisibleSurvey
	statuses map[string]models.StatusEntry
	report   *models.SurveyOutcomes
	fail     error
	fetches  int

	submitted []models.RespondRequest
	recorded  []models.RecordAnswerRequest
	created   []models.CreateSurveyRequest
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) VisibleSurveys(ctx context.Context) ([]models.VisibleSurvey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]models.VisibleSurvey(nil), f.surveys...), nil
}

func (f *fakeAPI) Statuses(ctx context.Context) (map[string]models.StatusEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := map[string]models.StatusEntry{}
	for k, v := range f.statuses {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &models.AuthResponse{Success: true, Token: "tok-" + req.Email, User: &models.User{Email: req.Email, Role: models.RoleUser}}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return f.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &models.User{Name: "Profile", Email: "p@example.com"}, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	return f.fail
}

func (f *fakeAPI) CreateSurvey(ctx context.Context, req models.CreateSurveyRequest) (*models.Survey, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created = append(f.created, req)
	return &models.Survey{ID: primitive.NewObjectID(), Title: req.Title, Status: models.SurveyPublished}, nil
}

func (f *fakeAPI) Submit(ctx context.Context, req models.RespondRequest) (*models.SubmissionResult, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.submitted = append(f.submitted, req)
	return &models.SubmissionResult{Success: true}, nil
}

func (f *fakeAPI) RecordAnswer(ctx context.Context, surveyID string, req models.RecordAnswerRequest) (*models.StatusEntry, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.recorded = append(f.recorded, req)
	return nil, nil
}

func (f *fakeAPI) Outcomes(ctx context.Context, surveyID string) (*models.SurveyOutcomes, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.report, nil
}

func sampleSurvey() models.VisibleSurvey {
	sid := primitive.NewObjectID()
	return models.VisibleSurvey{Survey: models.Survey{
		ID:     sid,
		Title:  "Lunch",
		Status: models.SurveyPublished,
		Questions: []models.Question{
			{ID: primitive.NewObjectID(), SurveyID: sid, Type: models.QuestionText, Text: "Where?", Required: true, Order: 1},
			{ID: primitive.NewObjectID(), SurveyID: sid, Type: models.QuestionRating, Text: "Score", Order: 2},
		},
	}}
}

func TestClientStore(t *testing.T) {
	suite := test.NewTestSuiteResult("Client Store Tests")
	defer suite.PrintSummary(t)
	ctx := context.Background()

	suite.Run(t, "FetchAndMergeOverlaysStatuses", func(t *testing.T) {
		a, b := sampleSurvey(), sampleSurvey()
		api := &fakeAPI{
			surveys:  []models.VisibleSurvey{a, b},
			statuses: map[string]models.StatusEntry{b.ID.Hex(): {Status: models.StatusInProgress, Answers: map[string]string{"q": "x"}}},
		}
		s := NewStore(api, NewMemoryStorage())

		require.NoError(t, s.FetchAndMerge(ctx))
		list := s.Surveys.Get()
		require.Len(t, list, 2)
		assert.Equal(t, models.StatusNew, list[0].UserStatus)
		assert.Equal(t, models.StatusInProgress, list[1].UserStatus)
		assert.Equal(t, "x", list[1].Answers["q"])

		assert.Equal(t, Stats{Total: 2, New: 1, InProgress: 1}, s.Stats())
	})

	suite.Run(t, "FailedFetchResetsList", func(t *testing.T) {
		api := &fakeAPI{surveys: []models.VisibleSurvey{sampleSurvey()}}
		s := NewStore(api, NewMemoryStorage())
		require.NoError(t, s.FetchAndMerge(ctx))
		require.Len(t, s.Surveys.Get(), 1)

		api.fail = errors.New("offline")
		assert.Error(t, s.FetchAndMerge(ctx))
		assert.Empty(t, s.Surveys.Get())
	})

	suite.Run(t, "GetReturnsCopies", func(t *testing.T) {
		api := &fakeAPI{surveys: []models.VisibleSurvey{sampleSurvey()}}
		s := NewStore(api, NewMemoryStorage())
		require.NoError(t, s.FetchAndMerge(ctx))

		list := s.Surveys.Get()
		list[0].Title = "changed"
		assert.Equal(t, "Lunch", s.Surveys.Get()[0].Title)
	})

	suite.Run(t, "SubmitChecksRequiredLocally", func(t *testing.T) {
		sv := sampleSurvey()
		api := &fakeAPI{surveys: []models.VisibleSurvey{sv}}
		s := NewStore(api, NewMemoryStorage())
		require.NoError(t, s.FetchAndMerge(ctx))
		sid := sv.ID.Hex()

		require.NoError(t, s.RecordAnswer(ctx, sid, sv.Questions[1].ID.Hex(), 5))
		assert.Equal(t, models.StatusInProgress, s.Statuses.Get()[sid].Status)
		assert.Equal(t, "5", s.Statuses.Get()[sid].Answers[sv.Questions[1].ID.Hex()])

		_, err := s.Submit(ctx, sid)
		var verr *lifecycle.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{sv.Questions[0].ID.Hex()}, verr.Missing)
		assert.Empty(t, api.submitted)

		require.NoError(t, s.RecordAnswer(ctx, sid, sv.Questions[0].ID.Hex(), "Canteen"))
		_, err = s.Submit(ctx, sid)
		require.NoError(t, err)
		require.Len(t, api.submitted, 1)
		assert.Len(t, api.submitted[0].Answers, 2)
		assert.Equal(t, models.StatusCompleted, s.Surveys.Get()[0].UserStatus)
		assert.Equal(t, Stats{Total: 1, Completed: 1}, s.Stats())
	})

	suite.Run(t, "RecordAnswerKeepsLocalChangeOnServerError", func(t *testing.T) {
		sv := sampleSurvey()
		api := &fakeAPI{surveys: []models.VisibleSurvey{sv}}
		s := NewStore(api, NewMemoryStorage())
		require.NoError(t, s.FetchAndMerge(ctx))

		api.fail = errors.New("offline")
		err := s.RecordAnswer(ctx, sv.ID.Hex(), sv.Questions[0].ID.Hex(), "x")
		assert.Error(t, err)
		assert.Equal(t, models.StatusInProgress, s.Statuses.Get()[sv.ID.Hex()].Status)
	})

	suite.Run(t, "DraftsPersistAcrossRestart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		storage, err := NewFileStorage(path)
		require.NoError(t, err)
		s := NewStore(&fakeAPI{}, storage)

		d := s.NewDraft()
		assert.Len(t, d.ID, 8)
		d.Title = "First"
		s.SaveDraft(d)
		other := s.SaveDraft(Draft{Title: "Second", Description: "keep me", Questions: []models.QuestionInput{
			{Type: models.QuestionRating, Text: "How was it?", Required: true},
		}})
		assert.NotEmpty(t, other.ID)

		d.Title = "First edited"
		s.SaveDraft(d)
		require.Len(t, s.Drafts.Get(), 2)

		reopened, err := NewFileStorage(path)
		require.NoError(t, err)
		restored := NewStore(&fakeAPI{}, reopened)
		drafts := restored.Drafts.Get()
		require.Len(t, drafts, 2)
		assert.Equal(t, "First edited", drafts[0].Title)

		require.NoError(t, restored.DeleteDraft(d.ID))
		assert.ErrorIs(t, restored.DeleteDraft(d.ID), ErrDraftNotFound)

		again, err := NewFileStorage(path)
		require.NoError(t, err)
		left := NewStore(&fakeAPI{}, again).Drafts.Get()
		require.Len(t, left, 1)
		assert.Equal(t, other.ID, left[0].ID)
		assert.Equal(t, drafts[1], left[0])
		assert.Equal(t, "keep me", left[0].Description)
		require.Len(t, left[0].Questions, 1)
		assert.Equal(t, "How was it?", left[0].Questions[0].Text)
	})

	suite.Run(t, "AdvanceAndPublish", func(t *testing.T) {
		api := &fakeAPI{}
		s := NewStore(api, NewMemoryStorage())
		d := s.SaveDraft(Draft{Title: "Poll", Questions: []models.QuestionInput{{Type: models.QuestionText, Text: "Why?"}}})

		_, err := s.Publish(ctx, d)
		assert.ErrorIs(t, err, ErrNotPreviewed)

		d, err = s.Advance(d)
		require.NoError(t, err)
		assert.Equal(t, models.SurveyPreview, d.Status)

		api.fail = errors.New("boom")
		_, err = s.Publish(ctx, d)
		assert.Error(t, err)
		assert.Len(t, s.Drafts.Get(), 1)

		api.fail = nil
		created, err := s.Publish(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, "Poll", created.Title)
		assert.Empty(t, s.Drafts.Get())
		require.Len(t, s.Surveys.Get(), 1)
		assert.Equal(t, created.ID, s.Surveys.Get()[0].ID)

		published, err := s.Advance(Draft{ID: "x", Status: models.SurveyPreview})
		require.NoError(t, err)
		_, err = s.Advance(published)
		assert.ErrorIs(t, err, ErrAlreadyPublished)
	})

	suite.Run(t, "SessionMirroredToStorage", func(t *testing.T) {
		storage := NewMemoryStorage()
		api := &fakeAPI{}
		s := NewStore(api, storage)

		_, err := s.Login(ctx, "a@example.com", "secret1")
		require.NoError(t, err)
		_, err = s.FetchProfile(ctx)
		require.NoError(t, err)

		restored := NewStore(&fakeAPI{}, storage)
		assert.Equal(t, "tok-a@example.com", restored.Token.Get())
		require.NotNil(t, restored.User.Get())
		assert.Equal(t, "a@example.com", restored.User.Get().Email)
		require.NotNil(t, restored.Profile.Get())

		api.fail = errors.New("expired")
		_, err = s.FetchProfile(ctx)
		assert.Error(t, err)
		assert.Nil(t, s.Profile.Get())
		_, ok := storage.Get(KeyProfile)
		assert.False(t, ok)

		api.fail = nil
		require.NoError(t, s.Logout(ctx))
		assert.Empty(t, s.Token.Get())
		assert.Empty(t, api.token)
		_, ok = storage.Get(KeyToken)
		assert.False(t, ok)
	})

	suite.Run(t, "StaleEnvelopeIgnored", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(KeyToken, `{"v":0,"data":"old"}`))
		require.NoError(t, storage.Set(KeyDrafts, `not json`))

		s := NewStore(&fakeAPI{}, storage)
		assert.Empty(t, s.Token.Get())
		assert.Empty(t, s.Drafts.Get())
	})

	suite.Run(t, "FetchOutcomesMergesIntoSurvey", func(t *testing.T) {
		sv := sampleSurvey()
		qid := sv.Questions[0].ID.Hex()
		api := &fakeAPI{
			surveys: []models.VisibleSurvey{sv},
			report: &models.SurveyOutcomes{
				TotalSurveyResponses: 3,
				Questions: []models.QuestionOutcome{{
					QuestionID: qid,
					Text:       "Where?",
					Outcomes:   []models.AnswerOutcome{{Answer: "here", Count: 2}, {Answer: "there", Count: 1}},
				}},
			},
		}
		s := NewStore(api, NewMemoryStorage())
		require.NoError(t, s.FetchAndMerge(ctx))

		_, err := s.FetchOutcomes(ctx, sv.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, sv.ID.Hex(), s.ActiveSurvey.Get())
		rows := s.Outcomes.Get()
		require.Len(t, rows, 2)
		assert.Equal(t, qid+"-1", rows[1].ID)
		assert.Equal(t, "there", rows[1].Data["Where?"])

		view := s.Surveys.Get()[0]
		assert.Equal(t, 3, view.TotalResponses)
		assert.Equal(t, []string{"Where?"}, view.Fields)

		// a later refresh keeps the merged fields
		require.NoError(t, s.FetchAndMerge(ctx))
		assert.Equal(t, 3, s.Surveys.Get()[0].TotalResponses)
	})

	suite.Run(t, "WatchStopsOnCancel", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		api := &fakeAPI{surveys: []models.VisibleSurvey{sampleSurvey()}}
		s := NewStore(api, NewMemoryStorage())

		wctx, cancel := context.WithCancel(ctx)
		done := s.Watch(wctx, 5*time.Millisecond)
		require.Eventually(t, func() bool {
			api.mu.Lock()
			defer api.mu.Unlock()
			return api.fetches >= 2
		}, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watch did not stop")
		}
		assert.Len(t, s.Surveys.Get(), 1)
	})
}
