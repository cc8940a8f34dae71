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

const notificationCollection = "notifications"

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)
	List(ctx context.Context) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationMongoRepository struct {
	db *mongo.Database
}

func NewNotificationMongoRepository(db *mongo.Database) NotificationRepository {
	return &notificationMongoRepository{db: db}
}

func (r *notificationMongoRepository) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	notification.CreatedAt = time.Now()
	if notification.Status == "" {
		notification.Status = model.NotificationUnread
	}

	result, err := r.db.Collection(notificationCollection).InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted ID is not an ObjectID")
	}
	notification.ID = objectID

	return notification, nil
}

func (r *notificationMongoRepository) List(ctx context.Context) ([]model.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(notificationCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationMongoRepository) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrNotificationNotFound
	}

	result := r.db.Collection(notificationCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": model.NotificationRead}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, model.ErrNotificationNotFound
		}
		return nil, result.Err()
	}

	var notification model.Notification
	if err := result.Decode(&notification); err != nil {
		return nil, err
	}

	return &notification, nil
}

// DeleteReadOlderThan prunes read notifications past the cutoff. Ran on
// a timer from the app so the collection does not grow without bound.
func (r *notificationMongoRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":     model.NotificationRead,
		"created_at": bson.M{"$lt": cutoff},
	}

	result, err := r.db.Collection(notificationCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
