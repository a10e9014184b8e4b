package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"Backend-SurveyHub/src/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var (
	client     *mongo.Client
	once       sync.Once // ✅ ป้องกันการรัน ConnectMongoDB() ซ้ำ
	connectErr error

	DB                 *mongo.Database
	UserCollection     *mongo.Collection
	SurveyCollection   *mongo.Collection
	QuestionCollection *mongo.Collection
	ResponseCollection *mongo.Collection
	StatusCollection   *mongo.Collection
)

// ConnectMongoDB เชื่อมต่อกับ MongoDB แค่ครั้งเดียว
func ConnectMongoDB(mongoURI, dbName string) error {
	if mongoURI == "" {
		return errors.New("MONGO_URI environment variable not set")
	}

	once.Do(func() { // ✅ Run only once
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, connectErr = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if connectErr != nil {
			return
		}

		// ตรวจสอบการเชื่อมต่อ
		if connectErr = client.Ping(ctx, readpref.Primary()); connectErr != nil {
			return
		}

		DB = client.Database(dbName)
		UserCollection = DB.Collection("users")
		SurveyCollection = DB.Collection("surveys")
		QuestionCollection = DB.Collection("questions")
		ResponseCollection = DB.Collection("responses")
		StatusCollection = DB.Collection("survey_user_status")

		connectErr = EnsureIndexes(ctx)
		if connectErr == nil {
			logger.L().Info("✅ MongoDB connected successfully", zap.String("db", dbName))
		}
	})

	return connectErr
}

// Client returns the connected Mongo client (nil before ConnectMongoDB).
func Client() *mongo.Client {
	return client
}

// Disconnect closes the Mongo client if it was opened.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes สร้าง index ที่ข้อมูลต้องพึ่งพา (unique email, upsert key ของคำตอบ)
func EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{UserCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{SurveyCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{QuestionCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "order", Value: 1}},
		}},
		{ResponseCollection, mongo.IndexModel{
			Keys: bson.D{
				{Key: "surveyId", Value: 1},
				{Key: "questionId", Value: 1},
				{Key: "userId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		}},
		{StatusCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "surveyId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateOne(ctx, s.model); err != nil {
			return err
		}
	}
	return nil
}

// WithTransaction runs fn inside a Mongo session transaction. Any error returned by fn
// aborts the transaction so none of its writes become visible.
func WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	if client == nil {
		return errors.New("mongo client is not connected")
	}
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
