package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailPattern(t *testing.T) {
	valid := []string{
		"ada@example.com",
		"ada.lovelace@example.co",
		"ada-l@sub.example.org",
		"a_b@example.io",
	}
	for _, email := range valid {
		assert.True(t, EmailPattern.MatchString(email), email)
	}

	invalid := []string{
		"",
		"ada",
		"ada@",
		"@example.com",
		"ada@example",
		"ada @example.com",
	}
	for _, email := range invalid {
		assert.False(t, EmailPattern.MatchString(email), email)
	}
}

func TestMeanRating(t *testing.T) {
	course := &Course{}
	assert.Zero(t, course.MeanRating())

	course.Reviews = []Review{{Rating: 3}, {Rating: 5}, {Rating: 4}}
	assert.Equal(t, 4.0, course.MeanRating())
}

func TestHasCourse(t *testing.T) {
	user := &User{Courses: []CourseRef{{CourseID: "c1"}}}
	assert.True(t, user.HasCourse("c1"))
	assert.False(t, user.HasCourse("c2"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
}
