package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/lifecycle"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrUnknownQuestion is returned for answers that point outside the survey.
	ErrUnknownQuestion = errors.New("question does not belong to this survey")
	ErrInvalidSurveyID = errors.New("invalid survey id")
)

// Store is what response collection needs from persistence.
type Store interface {
	FindSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)
	FindPublished(ctx context.Context) ([]models.Survey, error)
	// SaveSubmission upserts the responses and the status in one transaction.
	SaveSubmission(ctx context.Context, responses []models.Response, st *models.SurveyUserStatus) error
	// FindStatus returns nil, nil when the user has not touched the survey.
	FindStatus(ctx context.Context, userID, surveyID primitive.ObjectID) (*models.SurveyUserStatus, error)
	SaveStatus(ctx context.Context, st *models.SurveyUserStatus) error
	FindStatuses(ctx context.Context, userID primitive.ObjectID) ([]models.SurveyUserStatus, error)
}

// UserFinder resolves the respondent echoed back after a submit.
type UserFinder interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Invalidator is told when a survey gets new answers.
type Invalidator interface {
	Invalidate(ctx context.Context, surveyID primitive.ObjectID)
}

type Service struct {
	store       Store
	users       UserFinder
	invalidator Invalidator
	now         func() time.Time
}

func NewResponseService(store Store, users UserFinder) *Service {
	return &Service{store: store, users: users, now: time.Now}
}

// WithInvalidator sets the hook called after every submit.
func (s *Service) WithInvalidator(i Invalidator) *Service {
	s.invalidator = i
	return s
}

// NormalizeAnswer turns a decoded JSON answer into its stored string form. Arrays
// (checkbox) are kept as their JSON encoding.
func NormalizeAnswer(v interface{}) (string, error) {
	switch a := v.(type) {
	case nil:
		return "", nil
	case string:
		return a, nil
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(a), nil
	case json.Number:
		return a.String(), nil
	default:
		raw, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("unsupported answer: %w", err)
		}
		return string(raw), nil
	}
}

// Submit stores a batch of answers for one survey and marks it completed. Answering
// the same question again replaces the earlier answer.
func (s *Service) Submit(ctx context.Context, userID primitive.ObjectID, req models.RespondRequest) (*models.SubmissionResult, error) {
	surveyID, err := primitive.ObjectIDFromHex(req.SurveyID)
	if err != nil {
		return nil, ErrInvalidSurveyID
	}
	survey, err := s.store.FindSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(survey.Questions))
	for _, q := range survey.Questions {
		known[q.ID.Hex()] = true
	}

	answers := make(map[string]string, len(req.Answers))
	for _, a := range req.Answers {
		if !known[a.QuestionID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, a.QuestionID)
		}
		v, err := NormalizeAnswer(a.Answer)
		if err != nil {
			return nil, err
		}
		answers[a.QuestionID] = v
	}

	st, err := s.loadStatus(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Submit(st, survey.Questions, answers); err != nil {
		return nil, err
	}

	now := s.now()
	st.UpdatedAt = now
	answered := lifecycle.AnsweredQuestions(survey.Questions, answers)
	rows := make([]models.Response, 0, len(answered))
	echo := make([]models.SubmittedAnswer, 0, len(answered))
	for _, q := range answered {
		rows = append(rows, models.Response{
			SurveyID:   surveyID,
			QuestionID: q.ID,
			UserID:     userID,
			Answer:     answers[q.ID.Hex()],
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		echo = append(echo, models.SubmittedAnswer{
			QuestionID: q.ID.Hex(),
			Question:   q.Text,
			Type:       q.Type,
			Answer:     answers[q.ID.Hex()],
		})
	}

	if err := s.store.SaveSubmission(ctx, rows, st); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, surveyID)
	}

	respondent := models.Respondent{ID: userID.Hex()}
	if s.users != nil {
		if u, err := s.users.FindUserByID(ctx, userID); err == nil && u != nil {
			respondent.Name, respondent.Email = u.Name, u.Email
		}
	}

	logger.L().Info("📝 survey submitted",
		zap.String("surveyId", surveyID.Hex()),
		zap.String("userId", userID.Hex()),
		zap.Int("answers", len(rows)))

	return &models.SubmissionResult{
		Success:    true,
		Message:    "Responses submitted successfully",
		Respondent: respondent,
		Answers:    echo,
	}, nil
}

// RecordAnswer saves one in-progress answer without submitting.
func (s *Service) RecordAnswer(ctx context.Context, userID, surveyID primitive.ObjectID, req models.RecordAnswerRequest) (*models.SurveyUserStatus, error) {
	survey, err := s.store.FindSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, q := range survey.Questions {
		if q.ID.Hex() == req.QuestionID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, req.QuestionID)
	}

	value, err := NormalizeAnswer(req.Answer)
	if err != nil {
		return nil, err
	}

	st, err := s.loadStatus(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	lifecycle.RecordAnswer(st, req.QuestionID, value)
	st.UpdatedAt = s.now()

	if err := s.store.SaveStatus(ctx, st); err != nil {
		return nil, fmt.Errorf("save status: %w", err)
	}
	return st, nil
}

// Statuses returns the caller's status per survey id.
func (s *Service) Statuses(ctx context.Context, userID primitive.ObjectID) (map[string]models.StatusEntry, error) {
	list, err := s.store.FindStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.StatusEntry, len(list))
	for _, st := range list {
		out[st.SurveyID.Hex()] = models.StatusEntry{Status: st.Status, Answers: st.Answers}
	}
	return out, nil
}

// VisibleSurveys lists published surveys with the caller's status, new by default.
func (s *Service) VisibleSurveys(ctx context.Context, userID primitive.ObjectID) ([]models.VisibleSurvey, error) {
	published, err := s.store.FindPublished(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.Statuses(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.VisibleSurvey, 0, len(published))
	for _, sv := range published {
		v := models.VisibleSurvey{Survey: sv, UserStatus: models.StatusNew}
		if st, ok := statuses[sv.ID.Hex()]; ok {
			v.UserStatus, v.Answers = st.Status, st.Answers
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) loadStatus(ctx context.Context, userID, surveyID primitive.ObjectID) (*models.SurveyUserStatus, error) {
	st, err := s.store.FindStatus(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &models.SurveyUserStatus{
			UserID:    userID,
			SurveyID:  surveyID,
			Status:    models.StatusNew,
			CreatedAt: s.now(),
		}
	}
	return st, nil
}
