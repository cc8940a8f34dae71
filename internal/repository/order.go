package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"learnhub/internal/model"
)

const orderCollection = "orders"

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	List(ctx context.Context) ([]model.Order, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type orderMongoRepository struct {
	db *mongo.Database
}

func NewOrderMongoRepository(db *mongo.Database) OrderRepository {
	return &orderMongoRepository{db: db}
}

func (r *orderMongoRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	order.CreatedAt = time.Now()

	result, err := r.db.Collection(orderCollection).InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted ID is not an ObjectID")
	}
	order.ID = objectID

	return order, nil
}

func (r *orderMongoRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	filter := bson.M{"user_id": userID, "course_id": courseID}
	count, err := r.db.Collection(orderCollection).CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderMongoRepository) List(ctx context.Context) ([]model.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(orderCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderMongoRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	return r.db.Collection(orderCollection).CountDocuments(ctx, filter)
}
