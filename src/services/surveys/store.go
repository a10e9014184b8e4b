package surveys

import (
	"context"
	"errors"

	"Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps surveys and questions in separate collections; responses and
// statuses are only touched by the cascade delete and the outcome reads.
type MongoStore struct {
	surveys   *mongo.Collection
	questions *mongo.Collection
	responses *mongo.Collection
	statuses  *mongo.Collection
	tx        func(ctx context.Context, fn func(sc mongo.SessionContext) error) error
}

// NewMongoStore uses the collections opened by database.ConnectMongoDB.
func NewMongoStore() *MongoStore {
	return &MongoStore{
		surveys:   database.SurveyCollection,
		questions: database.QuestionCollection,
		responses: database.ResponseCollection,
		statuses:  database.StatusCollection,
		tx:        database.WithTransaction,
	}
}

func (m *MongoStore) InsertSurvey(ctx context.Context, survey *models.Survey, questions []models.Question) error {
	return m.tx(ctx, func(sc mongo.SessionContext) error {
		if _, err := m.surveys.InsertOne(sc, survey); err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		docs := make([]interface{}, len(questions))
		for i, q := range questions {
			docs[i] = q
		}
		_, err := m.questions.InsertMany(sc, docs)
		return err
	})
}

func (m *MongoStore) FindSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var survey models.Survey
	err := m.surveys.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}

	byID, err := m.questionsOf(ctx, []primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	survey.Questions = byID[id]
	return &survey, nil
}

func (m *MongoStore) FindByCreator(ctx context.Context, creator primitive.ObjectID, page models.PaginationParams) ([]models.Survey, int64, error) {
	filter := bson.M{"createdBy": creator}

	total, err := m.surveys.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: page.SortDirection()}})
	if page.Paged() {
		opts.SetSkip(page.GetSkip()).SetLimit(int64(page.Limit))
	}

	list, err := m.findWithQuestions(ctx, filter, opts)
	return list, total, err
}

func (m *MongoStore) FindPublished(ctx context.Context) ([]models.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return m.findWithQuestions(ctx, bson.M{"status": models.SurveyPublished}, opts)
}

func (m *MongoStore) SaveSurvey(ctx context.Context, survey *models.Survey, updated, inserted []models.Question) error {
	return m.tx(ctx, func(sc mongo.SessionContext) error {
		_, err := m.surveys.UpdateOne(sc, bson.M{"_id": survey.ID}, bson.M{"$set": bson.M{
			"title":       survey.Title,
			"description": survey.Description,
			"updatedAt":   survey.UpdatedAt,
		}})
		if err != nil {
			return err
		}

		for _, q := range updated {
			// surveyId อยู่ใน filter เพื่อไม่ให้แก้คำถามของ survey อื่น
			_, err := m.questions.UpdateOne(sc,
				bson.M{"_id": q.ID, "surveyId": survey.ID},
				bson.M{"$set": bson.M{
					"type":     q.Type,
					"text":     q.Text,
					"options":  q.Options,
					"required": q.Required,
				}})
			if err != nil {
				return err
			}
		}

		if len(inserted) > 0 {
			docs := make([]interface{}, len(inserted))
			for i, q := range inserted {
				docs[i] = q
			}
			if _, err := m.questions.InsertMany(sc, docs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *MongoStore) DeleteSurveyCascade(ctx context.Context, id primitive.ObjectID) error {
	return m.tx(ctx, func(sc mongo.SessionContext) error {
		res, err := m.surveys.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrSurveyNotFound
		}

		byParent := bson.M{"surveyId": id}
		if _, err := m.questions.DeleteMany(sc, byParent); err != nil {
			return err
		}
		if _, err := m.responses.DeleteMany(sc, byParent); err != nil {
			return err
		}
		_, err = m.statuses.DeleteMany(sc, byParent)
		return err
	})
}

// FindResponses returns every stored answer of a survey.
func (m *MongoStore) FindResponses(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error) {
	cursor, err := m.responses.Find(ctx, bson.M{"surveyId": surveyID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Response
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoStore) findWithQuestions(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Survey, error) {
	cursor, err := m.surveys.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := []models.Survey{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]primitive.ObjectID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	byID, err := m.questionsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Questions = byID[list[i].ID]
	}
	return list, nil
}

// questionsOf loads the questions of many surveys in one query, ordered per survey.
func (m *MongoStore) questionsOf(ctx context.Context, surveyIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.Question, error) {
	cursor, err := m.questions.Find(ctx,
		bson.M{"surveyId": bson.M{"$in": surveyIDs}},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var qs []models.Question
	if err := cursor.All(ctx, &qs); err != nil {
		return nil, err
	}

	out := make(map[primitive.ObjectID][]models.Question, len(surveyIDs))
	for _, id := range surveyIDs {
		out[id] = []models.Question{}
	}
	for _, q := range qs {
		out[q.SurveyID] = append(out[q.SurveyID], q)
	}
	return out, nil
}
