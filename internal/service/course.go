package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"learnhub/internal/cache"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// CatalogCache is the read-through cache over the public catalog.
type CatalogCache interface {
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	PutCourse(ctx context.Context, course *model.Course) error
	GetCourses(ctx context.Context) ([]model.Course, error)
	PutCourses(ctx context.Context, courses []model.Course) error
	Invalidate(ctx context.Context, kind cache.WriteKind, id string) error
}

// NotificationStore is the write side used for admin fan-out.
type NotificationStore interface {
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)
}

type CourseService struct {
	courses       repository.CourseRepository
	users         UserStore
	catalog       CatalogCache
	notifications NotificationStore
	images        ImageHost
	mailer        Mailer
}

func NewCourseService(
	courses repository.CourseRepository,
	users UserStore,
	catalog CatalogCache,
	notifications NotificationStore,
	images ImageHost,
	mailer Mailer,
) *CourseService {
	return &CourseService{
		courses:       courses,
		users:         users,
		catalog:       catalog,
		notifications: notifications,
		images:        images,
		mailer:        mailer,
	}
}

func (s *CourseService) Create(ctx context.Context, input model.CourseInput) (*model.Course, error) {
	if input.Name == "" {
		return nil, model.ErrInvalidInput
	}

	course := courseFromInput(input)

	if input.Thumbnail != "" {
		media, err := s.images.Upload(ctx, input.Thumbnail, "courses")
		if err != nil {
			return nil, err
		}
		course.Thumbnail = *media
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Invalidate(ctx, cache.WriteCreate, ""); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *CourseService) Update(ctx context.Context, id string, input model.CourseInput) (*model.Course, error) {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course := courseFromInput(input)
	course.Thumbnail = existing.Thumbnail

	// A fresh data-URL payload means the thumbnail is being replaced.
	if input.Thumbnail != "" && input.Thumbnail != existing.Thumbnail.URL {
		if existing.Thumbnail.PublicID != "" {
			if err := s.images.Destroy(ctx, existing.Thumbnail.PublicID); err != nil {
				return nil, err
			}
		}
		media, err := s.images.Upload(ctx, input.Thumbnail, "courses")
		if err != nil {
			return nil, err
		}
		course.Thumbnail = *media
	}

	updated, err := s.courses.Update(ctx, id, course)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, id); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	return s.catalog.Invalidate(ctx, cache.WriteDelete, id)
}

// GetCourse serves the buyer-safe view read-through: cache hit wins,
// a miss reads Mongo and populates the cache.
func (s *CourseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	cached, err := s.catalog.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	course, err := s.courses.FindByIDProjected(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.PutCourse(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) GetCourses(ctx context.Context) ([]model.Course, error) {
	cached, err := s.catalog.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	courses, err := s.courses.ListProjected(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}

	if err := s.catalog.PutCourses(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

// GetContent returns the full lecture data. Only purchasers and admins
// get past the eligibility check.
func (s *CourseService) GetContent(ctx context.Context, user *model.User, courseID string) ([]model.CourseContent, error) {
	if user.Role != model.RoleAdmin && !user.HasCourse(courseID) {
		return nil, model.ErrNotEligible
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return course.Sections, nil
}

func (s *CourseService) AddQuestion(ctx context.Context, user *model.User, req model.AddQuestionRequest) (*model.Course, error) {
	if req.Question == "" {
		return nil, model.ErrInvalidInput
	}
	contentID, err := bson.ObjectIDFromHex(req.ContentID)
	if err != nil {
		return nil, model.ErrContentNotFound
	}

	question := model.Comment{
		ID:        bson.NewObjectID(),
		User:      authorOf(user),
		Comment:   req.Question,
		Replies:   []model.Comment{},
		CreatedAt: time.Now(),
	}

	course, err := s.courses.PushQuestion(ctx, req.CourseID, contentID, question)
	if err != nil {
		return nil, err
	}
	// Purge before the fan-out: the document is already written, so a
	// failed notification must not leave the old copy cached.
	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, req.CourseID); err != nil {
		return nil, err
	}

	section := sectionByID(course, contentID)
	_, err = s.notifications.Create(ctx, &model.Notification{
		UserID:  user.ID.Hex(),
		Title:   "New Question Received",
		Message: user.Name + " asked a question in " + sectionTitle(section, course),
	})
	if err != nil {
		return nil, err
	}

	return course, nil
}

// AddAnswer appends a reply and tells the question's author, by mail
// when someone else answers and by admin notification when the author
// answers their own thread.
func (s *CourseService) AddAnswer(ctx context.Context, user *model.User, req model.AddAnswerRequest) (*model.Course, error) {
	if req.Answer == "" {
		return nil, model.ErrInvalidInput
	}
	contentID, err := bson.ObjectIDFromHex(req.ContentID)
	if err != nil {
		return nil, model.ErrContentNotFound
	}
	questionID, err := bson.ObjectIDFromHex(req.QuestionID)
	if err != nil {
		return nil, model.ErrQuestionNotFound
	}

	reply := model.Comment{
		ID:        bson.NewObjectID(),
		User:      authorOf(user),
		Comment:   req.Answer,
		Replies:   []model.Comment{},
		CreatedAt: time.Now(),
	}

	course, err := s.courses.PushQuestionReply(ctx, req.CourseID, contentID, questionID, reply)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, req.CourseID); err != nil {
		return nil, err
	}

	section := sectionByID(course, contentID)
	question := questionByID(section, questionID)
	if question == nil {
		return nil, model.ErrQuestionNotFound
	}

	if question.User.ID == user.ID.Hex() {
		_, err = s.notifications.Create(ctx, &model.Notification{
			UserID:  user.ID.Hex(),
			Title:   "New Question Reply Received",
			Message: user.Name + " replied in " + sectionTitle(section, course),
		})
		if err != nil {
			return nil, err
		}
	} else {
		author, err := s.users.FindByID(ctx, question.User.ID)
		if err != nil {
			return nil, err
		}
		if err := s.mailer.SendQuestionAnswered(author.Email, author.Name, course.Name, sectionTitle(section, course)); err != nil {
			return nil, err
		}
	}

	return course, nil
}

// AddReview accepts a purchaser's rating and recomputes the course
// aggregate as the arithmetic mean over all reviews.
func (s *CourseService) AddReview(ctx context.Context, user *model.User, courseID string, req model.AddReviewRequest) (*model.Course, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidInput
	}
	if !user.HasCourse(courseID) {
		return nil, model.ErrNotEligible
	}

	review := model.Review{
		ID:        bson.NewObjectID(),
		User:      authorOf(user),
		Rating:    req.Rating,
		Comment:   req.Comment,
		Replies:   []model.Comment{},
		CreatedAt: time.Now(),
	}

	course, err := s.courses.PushReview(ctx, courseID, review)
	if err != nil {
		return nil, err
	}

	mean := course.MeanRating()
	if err := s.courses.SetRatings(ctx, courseID, mean); err != nil {
		return nil, err
	}
	course.Ratings = mean
	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, courseID); err != nil {
		return nil, err
	}

	_, err = s.notifications.Create(ctx, &model.Notification{
		UserID:  user.ID.Hex(),
		Title:   "New Review Received",
		Message: user.Name + " left a review on " + course.Name,
	})
	if err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) AddReviewReply(ctx context.Context, user *model.User, req model.AddReviewReplyRequest) (*model.Course, error) {
	if req.Comment == "" {
		return nil, model.ErrInvalidInput
	}
	reviewID, err := bson.ObjectIDFromHex(req.ReviewID)
	if err != nil {
		return nil, model.ErrReviewNotFound
	}

	reply := model.Comment{
		ID:        bson.NewObjectID(),
		User:      authorOf(user),
		Comment:   req.Comment,
		Replies:   []model.Comment{},
		CreatedAt: time.Now(),
	}

	course, err := s.courses.PushReviewReply(ctx, req.CourseID, reviewID, reply)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, req.CourseID); err != nil {
		return nil, err
	}

	return course, nil
}

func courseFromInput(input model.CourseInput) *model.Course {
	sections := make([]model.CourseContent, len(input.Sections))
	copy(sections, input.Sections)
	for i := range sections {
		if sections[i].ID.IsZero() {
			sections[i].ID = bson.NewObjectID()
		}
	}

	return &model.Course{
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		EstimatedPrice: input.EstimatedPrice,
		Tags:           input.Tags,
		Level:          input.Level,
		DemoURL:        input.DemoURL,
		Benefits:       input.Benefits,
		Prerequisites:  input.Prerequisites,
		Reviews:        []model.Review{},
		Sections:       sections,
	}
}

func authorOf(user *model.User) model.Author {
	return model.Author{
		ID:     user.ID.Hex(),
		Name:   user.Name,
		Avatar: user.Avatar,
		Role:   user.Role,
	}
}

func sectionByID(course *model.Course, contentID bson.ObjectID) *model.CourseContent {
	for i := range course.Sections {
		if course.Sections[i].ID == contentID {
			return &course.Sections[i]
		}
	}
	return nil
}

func sectionTitle(section *model.CourseContent, course *model.Course) string {
	if section != nil {
		return section.Title
	}
	return course.Name
}

func questionByID(section *model.CourseContent, questionID bson.ObjectID) *model.Comment {
	if section == nil {
		return nil
	}
	for i := range section.Questions {
		if section.Questions[i].ID == questionID {
			return &section.Questions[i]
		}
	}
	return nil
}
