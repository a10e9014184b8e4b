package surveys

import (
	"context"
	"sort"
	"sync"

	"Backend-SurveyHub/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store for tests and local runs without Mongo. It also
// keeps responses and statuses so that the cascade delete and the response service
// behave like the Mongo-backed ones.
type MemoryStore struct {
	mu        sync.RWMutex
	surveys   map[primitive.ObjectID]models.Survey
	questions map[primitive.ObjectID][]models.Question
	responses []models.Response
	statuses  []models.SurveyUserStatus

	// FailNextWrite makes the next transactional write fail without applying anything.
	FailNextWrite error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		surveys:   map[primitive.ObjectID]models.Survey{},
		questions: map[primitive.ObjectID][]models.Question{},
	}
}

func (m *MemoryStore) failed() error {
	err := m.FailNextWrite
	m.FailNextWrite = nil
	return err
}

func (m *MemoryStore) InsertSurvey(_ context.Context, survey *models.Survey, questions []models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed(); err != nil {
		return err
	}

	s := *survey
	s.Questions = nil
	m.surveys[s.ID] = s
	m.questions[s.ID] = append([]models.Question(nil), questions...)
	return nil
}

func (m *MemoryStore) FindSurvey(_ context.Context, id primitive.ObjectID) (*models.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.surveys[id]
	if !ok {
		return nil, ErrSurveyNotFound
	}
	s.Questions = m.orderedQuestions(id)
	return &s, nil
}

func (m *MemoryStore) FindByCreator(_ context.Context, creator primitive.ObjectID, page models.PaginationParams) ([]models.Survey, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.filter(func(s models.Survey) bool { return s.CreatedBy == creator }, page.SortDirection())
	total := int64(len(list))
	if page.Paged() {
		skip := int(page.GetSkip())
		if skip >= len(list) {
			return []models.Survey{}, total, nil
		}
		end := skip + page.Limit
		if end > len(list) {
			end = len(list)
		}
		list = list[skip:end]
	}
	return list, total, nil
}

func (m *MemoryStore) FindPublished(_ context.Context) ([]models.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter(func(s models.Survey) bool { return s.Status == models.SurveyPublished }, -1), nil
}

func (m *MemoryStore) SaveSurvey(_ context.Context, survey *models.Survey, updated, inserted []models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed(); err != nil {
		return err
	}

	cur, ok := m.surveys[survey.ID]
	if !ok {
		return ErrSurveyNotFound
	}
	cur.Title, cur.Description, cur.UpdatedAt = survey.Title, survey.Description, survey.UpdatedAt
	m.surveys[survey.ID] = cur

	qs := m.questions[survey.ID]
	for _, u := range updated {
		for i := range qs {
			if qs[i].ID == u.ID {
				qs[i].Type, qs[i].Text, qs[i].Options, qs[i].Required = u.Type, u.Text, u.Options, u.Required
			}
		}
	}
	m.questions[survey.ID] = append(qs, inserted...)
	return nil
}

func (m *MemoryStore) DeleteSurveyCascade(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed(); err != nil {
		return err
	}
	if _, ok := m.surveys[id]; !ok {
		return ErrSurveyNotFound
	}

	delete(m.surveys, id)
	delete(m.questions, id)

	keptR := m.responses[:0]
	for _, r := range m.responses {
		if r.SurveyID != id {
			keptR = append(keptR, r)
		}
	}
	m.responses = keptR

	keptS := m.statuses[:0]
	for _, st := range m.statuses {
		if st.SurveyID != id {
			keptS = append(keptS, st)
		}
	}
	m.statuses = keptS
	return nil
}

func (m *MemoryStore) FindResponses(_ context.Context, surveyID primitive.ObjectID) ([]models.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Response
	for _, r := range m.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveSubmission upserts every response on (surveyId, questionId, userId) and the
// status on (userId, surveyId), all or nothing.
func (m *MemoryStore) SaveSubmission(_ context.Context, responses []models.Response, st *models.SurveyUserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failed(); err != nil {
		return err
	}

	for _, r := range responses {
		replaced := false
		for i := range m.responses {
			cur := &m.responses[i]
			if cur.SurveyID == r.SurveyID && cur.QuestionID == r.QuestionID && cur.UserID == r.UserID {
				cur.Answer, cur.UpdatedAt = r.Answer, r.UpdatedAt
				replaced = true
				break
			}
		}
		if !replaced {
			if r.ID.IsZero() {
				r.ID = primitive.NewObjectID()
			}
			m.responses = append(m.responses, r)
		}
	}
	m.putStatus(st)
	return nil
}

func (m *MemoryStore) FindStatus(_ context.Context, userID, surveyID primitive.ObjectID) (*models.SurveyUserStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, st := range m.statuses {
		if st.UserID == userID && st.SurveyID == surveyID {
			cp := st
			cp.Answers = copyAnswers(st.Answers)
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) SaveStatus(_ context.Context, st *models.SurveyUserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putStatus(st)
	return nil
}

func (m *MemoryStore) FindStatuses(_ context.Context, userID primitive.ObjectID) ([]models.SurveyUserStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.SurveyUserStatus
	for _, st := range m.statuses {
		if st.UserID == userID {
			cp := st
			cp.Answers = copyAnswers(st.Answers)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) putStatus(st *models.SurveyUserStatus) {
	cp := *st
	cp.Answers = copyAnswers(st.Answers)
	for i := range m.statuses {
		if m.statuses[i].UserID == st.UserID && m.statuses[i].SurveyID == st.SurveyID {
			cp.ID, cp.CreatedAt = m.statuses[i].ID, m.statuses[i].CreatedAt
			m.statuses[i] = cp
			return
		}
	}
	if cp.ID.IsZero() {
		cp.ID = primitive.NewObjectID()
	}
	m.statuses = append(m.statuses, cp)
}

func (m *MemoryStore) orderedQuestions(id primitive.ObjectID) []models.Question {
	qs := append([]models.Question{}, m.questions[id]...)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

func (m *MemoryStore) filter(keep func(models.Survey) bool, dir int) []models.Survey {
	list := []models.Survey{}
	for _, s := range m.surveys {
		if keep(s) {
			s.Questions = m.orderedQuestions(s.ID)
			list = append(list, s)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.Hex() < list[j].ID.Hex()
		}
		if dir > 0 {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func copyAnswers(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
