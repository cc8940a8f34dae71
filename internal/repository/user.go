package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"learnhub/internal/model"
)

const userCollection = "users"

// UserRepository handles user persistence. Reads exclude the password
// hash unless the method name says otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	FindByIDWithPassword(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateInfo(ctx context.Context, id string, name, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id string, avatar model.Media) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	AddCourse(ctx context.Context, id string, courseID string) (*model.User, error)
	Delete(ctx context.Context, id string) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, db *mongo.Database) (UserRepository, error) {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &userMongoRepository{db: db}, nil
}

func (r *userMongoRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, model.ErrEmailTaken
		}
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted ID is not an ObjectID")
	}
	user.ID = objectID

	return user, nil
}

func (r *userMongoRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	var user model.User
	err = r.db.Collection(userCollection).
		FindOne(ctx, bson.M{"_id": objectID}, options.FindOne().SetProjection(bson.M{"password": 0})).
		Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.Collection(userCollection).
		FindOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(bson.M{"password": 0})).
		Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByEmailWithPassword is for credential checks only.
func (r *userMongoRepository) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByIDWithPassword is for password-change checks only.
func (r *userMongoRepository) FindByIDWithPassword(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	var user model.User
	err = r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) List(ctx context.Context) ([]model.User, error) {
	findOptions := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userMongoRepository) UpdateInfo(ctx context.Context, id string, name, email string) (*model.User, error) {
	updateMap := bson.M{}
	if name != "" {
		updateMap["name"] = name
	}
	if email != "" {
		updateMap["email"] = email
	}
	return r.findOneAndUpdate(ctx, id, updateMap)
}

func (r *userMongoRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"password": passwordHash})
}

func (r *userMongoRepository) UpdateAvatar(ctx context.Context, id string, avatar model.Media) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"avatar": avatar})
}

func (r *userMongoRepository) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"role": role})
}

// AddCourse appends the course reference without rewriting the rest of
// the document.
func (r *userMongoRepository) AddCourse(ctx context.Context, id string, courseID string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	update := bson.M{
		"$push": bson.M{"courses": model.CourseRef{CourseID: courseID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	return r.decodeUpdated(ctx, bson.M{"_id": objectID}, update)
}

func (r *userMongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrUserNotFound
	}

	result, err := r.db.Collection(userCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func (r *userMongoRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	return r.db.Collection(userCollection).CountDocuments(ctx, filter)
}

func (r *userMongoRepository) findOneAndUpdate(ctx context.Context, id string, updateMap bson.M) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	if len(updateMap) == 0 {
		return nil, model.ErrInvalidInput
	}
	updateMap["updated_at"] = time.Now()

	return r.decodeUpdated(ctx, bson.M{"_id": objectID}, bson.M{"$set": updateMap})
}

func (r *userMongoRepository) decodeUpdated(ctx context.Context, filter, update bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(result.Err()) {
			return nil, model.ErrEmailTaken
		}
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
