package model

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrSessionNotFound      = errors.New("session not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrContentNotFound      = errors.New("course content not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrOrderExists          = errors.New("course already purchased")
	ErrNotEligible          = errors.New("you are not eligible to access this course")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid input")
)
