// Package client is the respondent/author side state cache: typed atoms over the
// survey API, mirrored into local storage where they must survive a restart.
package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/lifecycle"
	"Backend-SurveyHub/src/services/responses"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrNotPreviewed     = errors.New("draft must be previewed before publishing")
	ErrAlreadyPublished = errors.New("draft is already published")
	ErrSurveyNotCached  = errors.New("survey is not in the local list")
)

// Draft is an unsaved survey that lives only on this device.
type Draft struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Questions   []models.QuestionInput `json:"questions"`
	Status      models.SurveyStatus    `json:"status"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// SurveyView is a visible survey plus whatever the last outcome fetch added.
type SurveyView struct {
	models.VisibleSurvey
	TotalResponses int      `json:"totalResponses,omitempty"`
	Fields         []string `json:"fields,omitempty"`
}

// OutcomeRow is one answer of one question, flattened for table display.
type OutcomeRow struct {
	ID   string            `json:"id"`
	Data map[string]string `json:"data"`
}

// Stats counts surveys per respondent status.
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type Store struct {
	api     API
	storage LocalStorage

	User         *Atom[*models.User]
	Profile      *Atom[*models.User]
	Token        *Atom[string]
	Surveys      *Atom[[]SurveyView]
	Statuses     *Atom[map[string]models.StatusEntry]
	Drafts       *Atom[[]Draft]
	Outcomes     *Atom[[]OutcomeRow]
	ActiveSurvey *Atom[string]
}

// NewStore restores token, user, profile and drafts from storage.
func NewStore(api API, storage LocalStorage) *Store {
	s := &Store{
		api:          api,
		storage:      storage,
		User:         NewAtom[*models.User](nil),
		Profile:      NewAtom[*models.User](nil),
		Token:        NewAtom(""),
		Surveys:      NewSliceAtom([]SurveyView{}),
		Statuses:     NewMapAtom(map[string]models.StatusEntry{}),
		Drafts:       NewSliceAtom([]Draft{}),
		Outcomes:     NewSliceAtom([]OutcomeRow{}),
		ActiveSurvey: NewAtom(""),
	}

	var token string
	if loadJSON(storage, KeyToken, &token) {
		s.Token.Set(token)
		api.SetToken(token)
	}
	var user models.User
	if loadJSON(storage, KeyUser, &user) {
		s.User.Set(&user)
	}
	var profile models.User
	if loadJSON(storage, KeyProfile, &profile) {
		s.Profile.Set(&profile)
	}
	var drafts []Draft
	if loadJSON(storage, KeyDrafts, &drafts) && drafts != nil {
		s.Drafts.Set(drafts)
	}
	return s
}

// persist writes or removes one key; storage errors are logged, not returned,
// since the in-memory value is already authoritative.
func (s *Store) persist(key string, v interface{}, remove bool) {
	var err error
	if remove {
		err = s.storage.Remove(key)
	} else {
		err = saveJSON(s.storage, key, v)
	}
	if err != nil {
		logger.L().Warn("⚠️ local storage write failed", zap.String("key", key), zap.Error(err))
	}
}

// ---------- surveys ----------

// FetchAndMerge replaces Surveys with the visible surveys overlaid by the caller's
// statuses. Outcome fields already merged into a survey are carried over.
func (s *Store) FetchAndMerge(ctx context.Context) error {
	list, err := s.api.VisibleSurveys(ctx)
	if err != nil {
		s.Surveys.Set([]SurveyView{})
		return fmt.Errorf("fetch surveys: %w", err)
	}
	statuses, err := s.api.Statuses(ctx)
	if err != nil {
		s.Surveys.Set([]SurveyView{})
		return fmt.Errorf("fetch statuses: %w", err)
	}
	if statuses == nil {
		statuses = map[string]models.StatusEntry{}
	}

	s.Statuses.Set(statuses)
	s.Surveys.Update(func(old []SurveyView) []SurveyView {
		prev := make(map[string]SurveyView, len(old))
		for _, v := range old {
			prev[v.ID.Hex()] = v
		}

		merged := make([]SurveyView, 0, len(list))
		for _, vs := range list {
			id := vs.ID.Hex()
			if st, ok := statuses[id]; ok {
				vs.UserStatus = st.Status
				vs.Answers = st.Answers
			}
			if vs.UserStatus == "" {
				vs.UserStatus = models.StatusNew
			}
			view := SurveyView{VisibleSurvey: vs}
			if p, ok := prev[id]; ok {
				view.TotalResponses = p.TotalResponses
				view.Fields = p.Fields
			}
			merged = append(merged, view)
		}
		return merged
	})
	return nil
}

// Watch refreshes the survey list every interval until ctx is done. The returned
// channel is closed once the goroutine has exited.
func (s *Store) Watch(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.FetchAndMerge(ctx); err != nil && ctx.Err() == nil {
					logger.L().Warn("⚠️ survey refresh failed", zap.Error(err))
				}
			}
		}
	}()
	return done
}

// Stats counts the cached surveys by status; a survey without one counts as new.
func (s *Store) Stats() Stats {
	var st Stats
	for _, v := range s.Surveys.Get() {
		st.Total++
		switch v.UserStatus {
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusCompleted:
			st.Completed++
		default:
			st.New++
		}
	}
	return st
}

func (s *Store) findSurvey(id string) (SurveyView, bool) {
	for _, v := range s.Surveys.Get() {
		if v.ID.Hex() == id {
			return v, true
		}
	}
	return SurveyView{}, false
}

// setStatus writes one status into both the status map and the matching survey.
func (s *Store) setStatus(surveyID string, entry models.StatusEntry) {
	s.Statuses.Update(func(m map[string]models.StatusEntry) map[string]models.StatusEntry {
		if m == nil {
			m = map[string]models.StatusEntry{}
		}
		m[surveyID] = entry
		return m
	})
	s.Surveys.Update(func(list []SurveyView) []SurveyView {
		for i := range list {
			if list[i].ID.Hex() == surveyID {
				list[i].UserStatus = entry.Status
				list[i].Answers = entry.Answers
			}
		}
		return list
	})
}

// ---------- respondent ----------

// RecordAnswer stores one answer locally and mirrors it to the server. The local
// change stays even when the server call fails.
func (s *Store) RecordAnswer(ctx context.Context, surveyID, questionID string, value interface{}) error {
	normalized, err := responses.NormalizeAnswer(value)
	if err != nil {
		return err
	}
	current := s.Statuses.Get()[surveyID]
	st := models.SurveyUserStatus{Status: current.Status, Answers: cloneAnswers(current.Answers)}
	lifecycle.RecordAnswer(&st, questionID, normalized)
	s.setStatus(surveyID, models.StatusEntry{Status: st.Status, Answers: st.Answers})

	entry, err := s.api.RecordAnswer(ctx, surveyID, models.RecordAnswerRequest{QuestionID: questionID, Answer: value})
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	if entry != nil && entry.Status != "" {
		s.setStatus(surveyID, *entry)
	}
	return nil
}

// Submit posts the recorded answers of surveyID. Required questions are checked
// before any request is made.
func (s *Store) Submit(ctx context.Context, surveyID string) (*models.SubmissionResult, error) {
	view, ok := s.findSurvey(surveyID)
	if !ok {
		return nil, ErrSurveyNotCached
	}
	entry := s.Statuses.Get()[surveyID]
	answers := entry.Answers

	if !lifecycle.CanSubmit(view.Questions, answers) {
		return nil, &lifecycle.ValidationError{
			Message: lifecycle.ErrRequiredAnswers,
			Missing: lifecycle.MissingRequired(view.Questions, answers),
		}
	}

	req := models.RespondRequest{SurveyID: surveyID}
	for _, q := range lifecycle.AnsweredQuestions(view.Questions, answers) {
		req.Answers = append(req.Answers, models.AnswerInput{QuestionID: q.ID.Hex(), Answer: answers[q.ID.Hex()]})
	}

	res, err := s.api.Submit(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	s.setStatus(surveyID, models.StatusEntry{Status: models.StatusCompleted, Answers: cloneAnswers(answers)})
	return res, nil
}

// ---------- drafts ----------

// NewDraft returns an empty draft with a fresh id. It is not saved until SaveDraft.
func (s *Store) NewDraft() Draft {
	return Draft{ID: newDraftID(), Status: models.SurveyDraft, UpdatedAt: time.Now()}
}

// SaveDraft inserts or replaces d by id and persists every draft.
func (s *Store) SaveDraft(d Draft) Draft {
	if d.ID == "" {
		d.ID = newDraftID()
	}
	if d.Status == "" {
		d.Status = models.SurveyDraft
	}
	d.UpdatedAt = time.Now()

	drafts := s.Drafts.Update(func(list []Draft) []Draft {
		i := slices.IndexFunc(list, func(x Draft) bool { return x.ID == d.ID })
		if i >= 0 {
			list[i] = d
			return list
		}
		return append(list, d)
	})
	s.persist(KeyDrafts, drafts, false)
	return d
}

func (s *Store) DeleteDraft(id string) error {
	found := false
	drafts := s.Drafts.Update(func(list []Draft) []Draft {
		return slices.DeleteFunc(list, func(x Draft) bool {
			if x.ID == id {
				found = true
				return true
			}
			return false
		})
	})
	if !found {
		return ErrDraftNotFound
	}
	s.persist(KeyDrafts, drafts, false)
	return nil
}

// Advance moves d one stage forward (draft → preview → published) and saves it.
func (s *Store) Advance(d Draft) (Draft, error) {
	switch d.Status {
	case models.SurveyDraft, "":
		d.Status = models.SurveyPreview
	case models.SurveyPreview:
		d.Status = models.SurveyPublished
	default:
		return d, ErrAlreadyPublished
	}
	return s.SaveDraft(d), nil
}

// Publish sends a previewed draft to the server, adds the created survey to the
// list and drops the draft. The draft is kept when the server call fails.
func (s *Store) Publish(ctx context.Context, d Draft) (*models.Survey, error) {
	if d.Status == models.SurveyDraft || d.Status == "" {
		return nil, ErrNotPreviewed
	}

	created, err := s.api.CreateSurvey(ctx, models.CreateSurveyRequest{
		Title:       d.Title,
		Description: d.Description,
		Questions:   d.Questions,
	})
	if err != nil {
		return nil, fmt.Errorf("publish draft %s: %w", d.ID, err)
	}

	s.Surveys.Update(func(list []SurveyView) []SurveyView {
		return append(list, SurveyView{VisibleSurvey: models.VisibleSurvey{Survey: *created, UserStatus: models.StatusNew}})
	})
	if err := s.DeleteDraft(d.ID); err != nil && !errors.Is(err, ErrDraftNotFound) {
		return created, err
	}
	return created, nil
}

// ---------- auth ----------

func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	res, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	s.signIn(res)
	return res.User, nil
}

func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	res, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.signIn(res)
	return res.User, nil
}

func (s *Store) signIn(res *models.AuthResponse) {
	s.Token.Set(res.Token)
	s.api.SetToken(res.Token)
	s.User.Set(res.User)
	s.persist(KeyToken, res.Token, false)
	s.persist(KeyUser, res.User, res.User == nil)
}

// Logout clears local session state even when the server call fails.
func (s *Store) Logout(ctx context.Context) error {
	var err error
	if s.Token.Get() != "" {
		err = s.api.Logout(ctx)
	}

	s.Token.Set("")
	s.api.SetToken("")
	s.User.Set(nil)
	s.Profile.Set(nil)
	s.Surveys.Set([]SurveyView{})
	s.Statuses.Set(map[string]models.StatusEntry{})
	s.Outcomes.Set([]OutcomeRow{})
	s.ActiveSurvey.Set("")
	for _, key := range []string{KeyToken, KeyUser, KeyProfile} {
		s.persist(key, nil, true)
	}

	if err != nil && !IsUnauthorized(err) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// FetchProfile refreshes Profile. Any failure clears it.
func (s *Store) FetchProfile(ctx context.Context) (*models.User, error) {
	u, err := s.api.Profile(ctx)
	if err != nil {
		s.Profile.Set(nil)
		s.persist(KeyProfile, nil, true)
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	s.Profile.Set(u)
	s.persist(KeyProfile, u, false)
	return u, nil
}

// ---------- outcomes ----------

// FetchOutcomes loads the report of surveyID into Outcomes and marks it active.
// The cached survey, if any, gets the response total and question texts.
func (s *Store) FetchOutcomes(ctx context.Context, surveyID string) (*models.SurveyOutcomes, error) {
	report, err := s.api.Outcomes(ctx, surveyID)
	if err != nil {
		s.Outcomes.Set([]OutcomeRow{})
		return nil, fmt.Errorf("fetch outcomes: %w", err)
	}

	rows := make([]OutcomeRow, 0)
	fields := make([]string, 0, len(report.Questions))
	for _, q := range report.Questions {
		fields = append(fields, q.Text)
		for i, o := range q.Outcomes {
			rows = append(rows, OutcomeRow{
				ID:   fmt.Sprintf("%s-%d", q.QuestionID, i),
				Data: map[string]string{q.Text: o.Answer},
			})
		}
	}

	s.Outcomes.Set(rows)
	s.ActiveSurvey.Set(surveyID)
	s.Surveys.Update(func(list []SurveyView) []SurveyView {
		for i := range list {
			if strings.EqualFold(list[i].ID.Hex(), surveyID) {
				list[i].TotalResponses = report.TotalSurveyResponses
				list[i].Fields = fields
			}
		}
		return list
	})
	return report, nil
}

func newDraftID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func cloneAnswers(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
