package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"Backend-SurveyHub/src/database"
	"Backend-SurveyHub/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUsers stores accounts in the users collection (unique index on email).
type MongoUsers struct {
	users *mongo.Collection
}

func NewMongoUsers() *MongoUsers {
	return &MongoUsers{users: database.UserCollection}
}

func (m *MongoUsers) InsertUser(ctx context.Context, u *models.User) error {
	_, err := m.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailExists
	}
	return err
}

func (m *MongoUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *MongoUsers) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoUsers) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := m.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (m *MongoUsers) DeleteUser(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MemoryUsers is an in-process UserStore for tests and local runs without Mongo.
type MemoryUsers struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]models.User
	email map[string]primitive.ObjectID
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:  map[primitive.ObjectID]models.User{},
		email: map[string]primitive.ObjectID{},
	}
}

func (m *MemoryUsers) InsertUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[u.Email]; ok {
		return ErrEmailExists
	}
	m.byID[u.ID] = *u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := m.byID[id]
	return &u, nil
}

func (m *MemoryUsers) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hash
	m.byID[id] = u
	return nil
}

func (m *MemoryUsers) DeleteUser(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	delete(m.byID, id)
	delete(m.email, u.Email)
	return true, nil
}
