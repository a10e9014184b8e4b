package surveys

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrForbidden      = errors.New("not authorized to modify this survey")
	ErrInvalidSurvey  = errors.New("invalid survey")
)

// Store is the persistence boundary of surveys. Multi-document writes must be atomic.
type Store interface {
	// InsertSurvey stores the survey and its questions; ids are assigned by the caller.
	InsertSurvey(ctx context.Context, survey *models.Survey, questions []models.Question) error
	// FindSurvey returns the survey with its questions ordered, or ErrSurveyNotFound.
	FindSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)
	FindByCreator(ctx context.Context, creator primitive.ObjectID, page models.PaginationParams) ([]models.Survey, int64, error)
	FindPublished(ctx context.Context) ([]models.Survey, error)
	// SaveSurvey writes survey fields, updates existing questions and inserts new ones.
	SaveSurvey(ctx context.Context, survey *models.Survey, updated, inserted []models.Question) error
	// DeleteSurveyCascade removes the survey with its questions, responses and statuses.
	DeleteSurveyCascade(ctx context.Context, id primitive.ObjectID) error
}

// Notifier is told about newly created surveys (email to the site admin).
type Notifier interface {
	SurveyCreated(ctx context.Context, survey *models.Survey, createdBy string)
}

// Invalidator drops derived data (cached outcomes) when a survey changes.
type Invalidator interface {
	Invalidate(ctx context.Context, surveyID primitive.ObjectID)
}

// Service implements survey authoring on top of a Store.
type Service struct {
	store       Store
	notifier    Notifier
	invalidator Invalidator
	now         func() time.Time
}

// NewSurveyService สร้าง service สำหรับจัดการแบบสอบถาม
func NewSurveyService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNotifier sets the new-survey notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithInvalidator sets the hook called after updates and deletes.
func (s *Service) WithInvalidator(i Invalidator) *Service {
	s.invalidator = i
	return s
}

// Create validates req and stores the survey with its questions in one transaction.
func (s *Service) Create(ctx context.Context, adminID primitive.ObjectID, createdBy string, req models.CreateSurveyRequest) (*models.Survey, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidSurvey)
	}

	now := s.now()
	survey := &models.Survey{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: req.Description,
		CreatedBy:   adminID,
		Status:      models.SurveyPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		q, err := buildQuestion(in, i)
		if err != nil {
			return nil, err
		}
		q.ID = primitive.NewObjectID()
		q.SurveyID = survey.ID
		q.Order = i + 1
		questions = append(questions, q)
	}

	if err := s.store.InsertSurvey(ctx, survey, questions); err != nil {
		return nil, fmt.Errorf("create survey: %w", err)
	}
	survey.Questions = questions

	logger.L().Info("✅ survey created",
		zap.String("surveyId", survey.ID.Hex()),
		zap.Int("questions", len(questions)))

	if s.notifier != nil {
		s.notifier.SurveyCreated(ctx, survey, createdBy)
	}
	return survey, nil
}

// ListByCreator returns the admin's own surveys, newest first.
func (s *Service) ListByCreator(ctx context.Context, adminID primitive.ObjectID, page models.PaginationParams) ([]models.Survey, int64, error) {
	return s.store.FindByCreator(ctx, adminID, page)
}

// ListPublished returns every survey respondents may take.
func (s *Service) ListPublished(ctx context.Context) ([]models.Survey, error) {
	return s.store.FindPublished(ctx)
}

// Get returns one survey with its questions.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	return s.store.FindSurvey(ctx, id)
}

// Update applies req to a survey owned by adminID. Non-empty title/description
// replace the stored ones; questions with an id are edited in place and questions
// without one are appended.
func (s *Service) Update(ctx context.Context, adminID, id primitive.ObjectID, req models.UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.store.FindSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	// ไม่ใช่เจ้าของ = ไม่พบ (ไม่บอกว่ามีอยู่จริง)
	if survey.CreatedBy != adminID {
		return nil, ErrSurveyNotFound
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		survey.Title = t
	}
	if req.Description != "" {
		survey.Description = req.Description
	}
	survey.UpdatedAt = s.now()

	existing := make(map[string]models.Question, len(survey.Questions))
	nextOrder := 0
	for _, q := range survey.Questions {
		existing[q.ID.Hex()] = q
		if q.Order > nextOrder {
			nextOrder = q.Order
		}
	}

	var updated, inserted []models.Question
	for i, in := range req.Questions {
		q, err := buildQuestion(in, i)
		if err != nil {
			return nil, err
		}
		if in.ID == "" {
			nextOrder++
			q.ID = primitive.NewObjectID()
			q.SurveyID = survey.ID
			q.Order = nextOrder
			inserted = append(inserted, q)
			continue
		}

		cur, ok := existing[in.ID]
		if !ok {
			return nil, fmt.Errorf("%w: question %s does not belong to this survey", ErrInvalidSurvey, in.ID)
		}
		cur.Type, cur.Text, cur.Options, cur.Required = q.Type, q.Text, q.Options, q.Required
		existing[in.ID] = cur
		updated = append(updated, cur)
	}

	if err := s.store.SaveSurvey(ctx, survey, updated, inserted); err != nil {
		return nil, fmt.Errorf("update survey: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, survey.ID)
	}
	return s.store.FindSurvey(ctx, survey.ID)
}

// Delete removes a survey and everything hanging off it. Only its creator or an
// admin may delete.
func (s *Service) Delete(ctx context.Context, userID primitive.ObjectID, role string, id primitive.ObjectID) error {
	survey, err := s.store.FindSurvey(ctx, id)
	if err != nil {
		return err
	}
	if survey.CreatedBy != userID && role != models.RoleAdmin {
		return ErrForbidden
	}

	if err := s.store.DeleteSurveyCascade(ctx, id); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, id)
	}
	logger.L().Info("🗑️ survey deleted", zap.String("surveyId", id.Hex()))
	return nil
}

func buildQuestion(in models.QuestionInput, idx int) (models.Question, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return models.Question{}, fmt.Errorf("%w: question %d text is required", ErrInvalidSurvey, idx+1)
	}
	if !in.Type.Valid() {
		return models.Question{}, fmt.Errorf("%w: question %d has unknown type %q", ErrInvalidSurvey, idx+1, in.Type)
	}

	var options []string
	for _, o := range in.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if in.Type.NeedsOptions() && len(options) == 0 {
		return models.Question{}, fmt.Errorf("%w: question %d needs at least one option", ErrInvalidSurvey, idx+1)
	}

	return models.Question{
		Type:     in.Type,
		Text:     text,
		Options:  options,
		Required: in.Required,
	}, nil
}
