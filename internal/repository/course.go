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

const courseCollection = "courses"

// catalogProjection strips the heavy per-lecture fields from public
// catalog reads. Buyers get the full document instead.
var catalogProjection = bson.M{
	"course_data.video_url":  0,
	"course_data.suggestion": 0,
	"course_data.questions":  0,
	"course_data.links":      0,
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) (*model.Course, error)
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindByIDProjected(ctx context.Context, id string) (*model.Course, error)
	ListProjected(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, id string, input *model.Course) (*model.Course, error)
	Delete(ctx context.Context, id string) error
	PushQuestion(ctx context.Context, courseID string, contentID bson.ObjectID, question model.Comment) (*model.Course, error)
	PushQuestionReply(ctx context.Context, courseID string, contentID, questionID bson.ObjectID, reply model.Comment) (*model.Course, error)
	PushReview(ctx context.Context, courseID string, review model.Review) (*model.Course, error)
	PushReviewReply(ctx context.Context, courseID string, reviewID bson.ObjectID, reply model.Comment) (*model.Course, error)
	SetRatings(ctx context.Context, courseID string, ratings float64) error
	IncrementPurchaseCount(ctx context.Context, courseID string) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type courseMongoRepository struct {
	db *mongo.Database
}

func NewCourseMongoRepository(db *mongo.Database) CourseRepository {
	return &courseMongoRepository{db: db}
}

func (r *courseMongoRepository) Create(ctx context.Context, course *model.Course) (*model.Course, error) {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	result, err := r.db.Collection(courseCollection).InsertOne(ctx, course)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("inserted ID is not an ObjectID")
	}
	course.ID = objectID

	return course, nil
}

// FindByID returns the full document, per-lecture fields included.
func (r *courseMongoRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return r.findOne(ctx, id, nil)
}

// FindByIDProjected returns the buyer-safe catalog view.
func (r *courseMongoRepository) FindByIDProjected(ctx context.Context, id string) (*model.Course, error) {
	return r.findOne(ctx, id, catalogProjection)
}

func (r *courseMongoRepository) findOne(ctx context.Context, id string, projection bson.M) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	findOptions := options.FindOne()
	if projection != nil {
		findOptions.SetProjection(projection)
	}

	var course model.Course
	err = r.db.Collection(courseCollection).FindOne(ctx, bson.M{"_id": objectID}, findOptions).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrCourseNotFound
		}
		return nil, err
	}

	return &course, nil
}

func (r *courseMongoRepository) ListProjected(ctx context.Context) ([]model.Course, error) {
	findOptions := options.Find().
		SetProjection(catalogProjection).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(courseCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []model.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseMongoRepository) Update(ctx context.Context, id string, input *model.Course) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":            input.Name,
		"description":     input.Description,
		"price":           input.Price,
		"estimated_price": input.EstimatedPrice,
		"thumbnail":       input.Thumbnail,
		"tags":            input.Tags,
		"level":           input.Level,
		"demo_url":        input.DemoURL,
		"benefits":        input.Benefits,
		"prerequisites":   input.Prerequisites,
		"course_data":     input.Sections,
		"updated_at":      time.Now(),
	}}

	return r.decodeUpdated(ctx, bson.M{"_id": objectID}, update, nil)
}

func (r *courseMongoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrCourseNotFound
	}

	result, err := r.db.Collection(courseCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrCourseNotFound
	}

	return nil
}

// PushQuestion appends to the matched section's question thread.
func (r *courseMongoRepository) PushQuestion(
	ctx context.Context,
	courseID string,
	contentID bson.ObjectID,
	question model.Comment,
) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	filter := bson.M{"_id": objectID, "course_data._id": contentID}
	update := bson.M{
		"$push": bson.M{"course_data.$.questions": question},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	course, err := r.decodeUpdated(ctx, filter, update, nil)
	if errors.Is(err, model.ErrCourseNotFound) {
		// Distinguish a missing section from a missing course.
		if _, findErr := r.FindByID(ctx, courseID); findErr == nil {
			return nil, model.ErrContentNotFound
		}
		return nil, model.ErrCourseNotFound
	}
	return course, err
}

// PushQuestionReply appends to a question's reply thread two levels
// deep, which needs arrayFilters rather than positional operators.
func (r *courseMongoRepository) PushQuestionReply(
	ctx context.Context,
	courseID string,
	contentID, questionID bson.ObjectID,
	reply model.Comment,
) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$push": bson.M{"course_data.$[section].questions.$[question].replies": reply},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	arrayFilters := []any{
		bson.M{"section._id": contentID},
		bson.M{"question._id": questionID},
	}

	result := r.db.Collection(courseCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetArrayFilters(arrayFilters),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, model.ErrCourseNotFound
		}
		return nil, result.Err()
	}

	var course model.Course
	if err := result.Decode(&course); err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseMongoRepository) PushReview(ctx context.Context, courseID string, review model.Review) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	return r.decodeUpdated(ctx, bson.M{"_id": objectID}, update, nil)
}

func (r *courseMongoRepository) PushReviewReply(
	ctx context.Context,
	courseID string,
	reviewID bson.ObjectID,
	reply model.Comment,
) (*model.Course, error) {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, model.ErrCourseNotFound
	}

	filter := bson.M{"_id": objectID, "reviews._id": reviewID}
	update := bson.M{
		"$push": bson.M{"reviews.$.replies": reply},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	course, err := r.decodeUpdated(ctx, filter, update, nil)
	if errors.Is(err, model.ErrCourseNotFound) {
		if _, findErr := r.FindByID(ctx, courseID); findErr == nil {
			return nil, model.ErrReviewNotFound
		}
		return nil, model.ErrCourseNotFound
	}
	return course, err
}

func (r *courseMongoRepository) SetRatings(ctx context.Context, courseID string, ratings float64) error {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return model.ErrCourseNotFound
	}

	update := bson.M{"$set": bson.M{"ratings": ratings, "updated_at": time.Now()}}
	_, err = r.db.Collection(courseCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *courseMongoRepository) IncrementPurchaseCount(ctx context.Context, courseID string) error {
	objectID, err := bson.ObjectIDFromHex(courseID)
	if err != nil {
		return model.ErrCourseNotFound
	}

	update := bson.M{"$inc": bson.M{"purchase_count": 1}}
	_, err = r.db.Collection(courseCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *courseMongoRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	return r.db.Collection(courseCollection).CountDocuments(ctx, filter)
}

func (r *courseMongoRepository) decodeUpdated(ctx context.Context, filter, update bson.M, projection bson.M) (*model.Course, error) {
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if projection != nil {
		updateOptions.SetProjection(projection)
	}

	result := r.db.Collection(courseCollection).FindOneAndUpdate(ctx, filter, update, updateOptions)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, model.ErrCourseNotFound
		}
		return nil, result.Err()
	}

	var course model.Course
	if err := result.Decode(&course); err != nil {
		return nil, err
	}

	return &course, nil
}
