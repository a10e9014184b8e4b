package outcomes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CacheTTL อายุของผลสรุปที่ cache ไว้ใน Redis
const CacheTTL = 10 * time.Minute

// Store reads what an outcome report is computed from.
type Store interface {
	FindSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)
	FindResponses(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error)
}

// UserFinder resolves the survey creator shown in the report header.
type UserFinder interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Service struct {
	store Store
	users UserFinder
	cache *redis.Client
}

// NewOutcomeService; cache may be nil to always recompute.
func NewOutcomeService(store Store, users UserFinder, cache *redis.Client) *Service {
	return &Service{store: store, users: users, cache: cache}
}

func cacheKey(surveyID primitive.ObjectID) string {
	return "survey:outcomes:" + surveyID.Hex()
}

// SurveyOutcomes returns the aggregated report of a survey, from cache when fresh.
func (s *Service) SurveyOutcomes(ctx context.Context, surveyID primitive.ObjectID) (*models.SurveyOutcomes, error) {
	if cached := s.fromCache(ctx, surveyID); cached != nil {
		return cached, nil
	}

	survey, err := s.store.FindSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.FindResponses(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	creator := models.Respondent{ID: survey.CreatedBy.Hex()}
	if s.users != nil {
		if u, err := s.users.FindUserByID(ctx, survey.CreatedBy); err == nil && u != nil {
			creator.Name, creator.Email = u.Name, u.Email
		}
	}

	res := Aggregate(survey.Questions, responses)
	out := &models.SurveyOutcomes{
		Success: true,
		Survey: models.SurveySummary{
			ID:          survey.ID.Hex(),
			Title:       survey.Title,
			Description: survey.Description,
			CreatedBy:   creator,
		},
		TotalSurveyResponses: res.TotalSurveyResponses,
		AverageRating:        res.AverageRating,
		Questions:            res.Questions,
	}

	s.toCache(ctx, surveyID, out)
	return out, nil
}

// Invalidate drops the cached report; called whenever answers or questions change.
func (s *Service) Invalidate(ctx context.Context, surveyID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(surveyID)).Err(); err != nil {
		logger.L().Warn("⚠️ failed to invalidate outcome cache",
			zap.String("surveyId", surveyID.Hex()), zap.Error(err))
	}
}

func (s *Service) fromCache(ctx context.Context, surveyID primitive.ObjectID) *models.SurveyOutcomes {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(surveyID)).Bytes()
	if err != nil {
		return nil
	}
	var out models.SurveyOutcomes
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

func (s *Service) toCache(ctx context.Context, surveyID primitive.ObjectID, out *models.SurveyOutcomes) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(surveyID), raw, CacheTTL).Err(); err != nil {
		logger.L().Warn("⚠️ failed to cache outcomes", zap.String("surveyId", surveyID.Hex()), zap.Error(err))
	}
}
