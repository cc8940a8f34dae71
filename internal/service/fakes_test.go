package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"learnhub/internal/cache"
	"learnhub/internal/model"
)

// In-memory fakes for the repository and cache interfaces. They keep
// the same error semantics as the real implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, model.ErrEmailTaken
		}
	}

	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID.Hex()] = user

	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	clone := *user
	clone.Password = ""
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	user, err := f.findByEmail(email)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (f *fakeUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	return f.findByEmail(email)
}

func (f *fakeUserRepo) FindByIDWithPassword(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) findByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		clone.Password = ""
		users = append(users, clone)
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateInfo(_ context.Context, id string, name, email string) (*model.User, error) {
	return f.mutate(id, func(user *model.User) {
		if name != "" {
			user.Name = name
		}
		if email != "" {
			user.Email = email
		}
	})
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) (*model.User, error) {
	return f.mutate(id, func(user *model.User) { user.Password = passwordHash })
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id string, avatar model.Media) (*model.User, error) {
	return f.mutate(id, func(user *model.User) { user.Avatar = avatar })
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id string, role model.Role) (*model.User, error) {
	return f.mutate(id, func(user *model.User) { user.Role = role })
}

func (f *fakeUserRepo) AddCourse(_ context.Context, id string, courseID string) (*model.User, error) {
	return f.mutate(id, func(user *model.User) {
		user.Courses = append(user.Courses, model.CourseRef{CourseID: courseID})
	})
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, user := range f.users {
		if !user.CreatedAt.Before(from) && user.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) mutate(id string, apply func(*model.User)) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	apply(user)
	user.UpdatedAt = time.Now()

	clone := *user
	clone.Password = ""
	return &clone, nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.User
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: map[string]*model.User{}}
}

func (f *fakeSessionCache) Put(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *user
	f.sessions[user.ID.Hex()] = &clone
	return nil
}

func (f *fakeSessionCache) Get(_ context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeSessionCache) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, userID)
	return nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool

	lastActivationCode string
}

func (f *fakeMailer) SendActivation(to, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errSMTPDown
	}
	f.sent = append(f.sent, sentMail{to: to, subject: "activation"})
	f.lastActivationCode = code
	return nil
}

func (f *fakeMailer) SendOrderConfirmation(to, _ string, _ *model.Course, _ *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errSMTPDown
	}
	f.sent = append(f.sent, sentMail{to: to, subject: "order"})
	return nil
}

func (f *fakeMailer) SendQuestionAnswered(to, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errSMTPDown
	}
	f.sent = append(f.sent, sentMail{to: to, subject: "answer"})
	return nil
}

var errSMTPDown = &smtpError{}

type smtpError struct{}

func (*smtpError) Error() string { return "smtp connection refused" }

type fakeImageHost struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
}

func (f *fakeImageHost) Upload(_ context.Context, _ string, folder string) (*model.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads++
	return &model.Media{
		PublicID: folder + "/asset-" + bson.NewObjectID().Hex(),
		URL:      "https://images.example.com/" + folder,
	}, nil
}

func (f *fakeImageHost) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	created []model.Notification
	fail    bool
}

func (f *fakeNotificationStore) Create(_ context.Context, notification *model.Notification) (*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, errors.New("notifications collection unavailable")
	}
	notification.ID = bson.NewObjectID()
	notification.Status = model.NotificationUnread
	notification.CreatedAt = time.Now()
	f.created = append(f.created, *notification)
	return notification, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*model.Course{}}
}

func (f *fakeCourseRepo) Create(_ context.Context, course *model.Course) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course.ID = bson.NewObjectID()
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	f.courses[course.ID.Hex()] = course

	clone := *course
	return &clone, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	clone := *course
	return &clone, nil
}

func (f *fakeCourseRepo) FindByIDProjected(_ context.Context, id string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	return projectCourse(course), nil
}

func (f *fakeCourseRepo) ListProjected(_ context.Context) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	courses := make([]model.Course, 0, len(f.courses))
	for _, course := range f.courses {
		courses = append(courses, *projectCourse(course))
	}
	return courses, nil
}

// projectCourse mirrors the catalog projection: heavy per-lecture
// fields stripped.
func projectCourse(course *model.Course) *model.Course {
	clone := *course
	clone.Sections = make([]model.CourseContent, len(course.Sections))
	for i, section := range course.Sections {
		section.VideoURL = ""
		section.Suggestion = ""
		section.Questions = nil
		section.Links = nil
		clone.Sections[i] = section
	}
	return &clone
}

func (f *fakeCourseRepo) Update(_ context.Context, id string, input *model.Course) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, model.ErrCourseNotFound
	}

	course.Name = input.Name
	course.Description = input.Description
	course.Price = input.Price
	course.EstimatedPrice = input.EstimatedPrice
	course.Thumbnail = input.Thumbnail
	course.Tags = input.Tags
	course.Level = input.Level
	course.DemoURL = input.DemoURL
	course.Benefits = input.Benefits
	course.Prerequisites = input.Prerequisites
	course.Sections = input.Sections
	course.UpdatedAt = time.Now()

	clone := *course
	return &clone, nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.courses[id]; !ok {
		return model.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) PushQuestion(_ context.Context, courseID string, contentID bson.ObjectID, question model.Comment) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	for i := range course.Sections {
		if course.Sections[i].ID == contentID {
			course.Sections[i].Questions = append(course.Sections[i].Questions, question)
			clone := *course
			return &clone, nil
		}
	}
	return nil, model.ErrContentNotFound
}

func (f *fakeCourseRepo) PushQuestionReply(_ context.Context, courseID string, contentID, questionID bson.ObjectID, reply model.Comment) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	for i := range course.Sections {
		if course.Sections[i].ID != contentID {
			continue
		}
		for j := range course.Sections[i].Questions {
			if course.Sections[i].Questions[j].ID == questionID {
				course.Sections[i].Questions[j].Replies = append(course.Sections[i].Questions[j].Replies, reply)
				clone := *course
				return &clone, nil
			}
		}
	}
	return nil, model.ErrQuestionNotFound
}

func (f *fakeCourseRepo) PushReview(_ context.Context, courseID string, review model.Review) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	course.Reviews = append(course.Reviews, review)
	clone := *course
	return &clone, nil
}

func (f *fakeCourseRepo) PushReviewReply(_ context.Context, courseID string, reviewID bson.ObjectID, reply model.Comment) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	for i := range course.Reviews {
		if course.Reviews[i].ID == reviewID {
			course.Reviews[i].Replies = append(course.Reviews[i].Replies, reply)
			clone := *course
			return &clone, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeCourseRepo) SetRatings(_ context.Context, courseID string, ratings float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return model.ErrCourseNotFound
	}
	course.Ratings = ratings
	return nil
}

func (f *fakeCourseRepo) IncrementPurchaseCount(_ context.Context, courseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return model.ErrCourseNotFound
	}
	course.PurchaseCount++
	return nil
}

func (f *fakeCourseRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, course := range f.courses {
		if !course.CreatedAt.Before(from) && course.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []model.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order.ID = bson.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, *order)
	return order, nil
}

func (f *fakeOrderRepo) Exists(_ context.Context, userID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		if order.UserID == userID && order.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orders := make([]model.Order, len(f.orders))
	copy(orders, f.orders)
	return orders, nil
}

func (f *fakeOrderRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, order := range f.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

// fakeCatalogCache applies the same invalidation table as the Redis
// implementation.
type fakeCatalogCache struct {
	mu      sync.Mutex
	courses map[string]*model.Course
	list    []model.Course
	hasList bool
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{courses: map[string]*model.Course{}}
}

func (f *fakeCatalogCache) GetCourse(_ context.Context, id string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	clone := *course
	return &clone, nil
}

func (f *fakeCatalogCache) PutCourse(_ context.Context, course *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *course
	f.courses[course.ID.Hex()] = &clone
	return nil
}

func (f *fakeCatalogCache) GetCourses(_ context.Context) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasList {
		return nil, nil
	}
	list := make([]model.Course, len(f.list))
	copy(list, f.list)
	return list, nil
}

func (f *fakeCatalogCache) PutCourses(_ context.Context, courses []model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.list = make([]model.Course, len(courses))
	copy(f.list, courses)
	f.hasList = true
	return nil
}

func (f *fakeCatalogCache) Invalidate(_ context.Context, kind cache.WriteKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.list = nil
	f.hasList = false
	if kind != cache.WriteCreate {
		delete(f.courses, id)
	}
	return nil
}
