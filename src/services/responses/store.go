package responses

import (
	"context"
	"errors"

	"Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/services/surveys"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore adds response and status writes on top of the survey store.
type MongoStore struct {
	*surveys.MongoStore
	responses *mongo.Collection
	statuses  *mongo.Collection
}

func NewMongoStore(s *surveys.MongoStore) *MongoStore {
	return &MongoStore{
		MongoStore: s,
		responses:  database.ResponseCollection,
		statuses:   database.StatusCollection,
	}
}

func (m *MongoStore) SaveSubmission(ctx context.Context, rows []models.Response, st *models.SurveyUserStatus) error {
	return database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		for _, r := range rows {
			// unique index (surveyId, questionId, userId) ทำให้ตอบซ้ำเป็นการแก้ไข
			_, err := m.responses.UpdateOne(sc,
				bson.M{"surveyId": r.SurveyID, "questionId": r.QuestionID, "userId": r.UserID},
				bson.M{
					"$set":         bson.M{"answer": r.Answer, "updatedAt": r.UpdatedAt},
					"$setOnInsert": bson.M{"createdAt": r.CreatedAt},
				},
				options.Update().SetUpsert(true))
			if err != nil {
				return err
			}
		}
		return m.upsertStatus(sc, st)
	})
}

func (m *MongoStore) FindStatus(ctx context.Context, userID, surveyID primitive.ObjectID) (*models.SurveyUserStatus, error) {
	var st models.SurveyUserStatus
	err := m.statuses.FindOne(ctx, bson.M{"userId": userID, "surveyId": surveyID}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *MongoStore) SaveStatus(ctx context.Context, st *models.SurveyUserStatus) error {
	return m.upsertStatus(ctx, st)
}

func (m *MongoStore) FindStatuses(ctx context.Context, userID primitive.ObjectID) ([]models.SurveyUserStatus, error) {
	cursor, err := m.statuses.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.SurveyUserStatus
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoStore) upsertStatus(ctx context.Context, st *models.SurveyUserStatus) error {
	_, err := m.statuses.UpdateOne(ctx,
		bson.M{"userId": st.UserID, "surveyId": st.SurveyID},
		bson.M{
			"$set": bson.M{
				"status":    st.Status,
				"answers":   st.Answers,
				"updatedAt": st.UpdatedAt,
			},
			"$setOnInsert": bson.M{"createdAt": st.CreatedAt},
		},
		options.Update().SetUpsert(true))
	return err
}
