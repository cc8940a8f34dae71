package model

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// EmailPattern is the canonical pattern every account email is validated against.
var EmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Media is an asset hosted on the external image host, addressed by its public id.
type Media struct {
	PublicID string `bson:"public_id,omitempty" json:"public_id,omitempty"`
	URL      string `bson:"url,omitempty"       json:"url,omitempty"`
}

// CourseRef records a purchased course on the owning user.
type CourseRef struct {
	CourseID string `bson:"course_id" json:"course_id"`
}

// User is the durable account document. Password carries the bcrypt hash; reads
// project it out unless the caller explicitly asks for it, and it never
// serializes to JSON.
type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty"      json:"_id"`
	Name       string        `bson:"name"               json:"name"`
	Email      string        `bson:"email"              json:"email"`
	Password   string        `bson:"password,omitempty" json:"-"`
	Avatar     Media         `bson:"avatar,omitempty"   json:"avatar,omitempty"`
	Role       Role          `bson:"role"               json:"role"`
	IsVerified bool          `bson:"is_verified"        json:"is_verified"`
	Courses    []CourseRef   `bson:"courses"            json:"courses"`
	CreatedAt  time.Time     `bson:"created_at"         json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"         json:"updated_at"`
}

// HasCourse reports whether the user has purchased the given course.
func (u *User) HasCourse(courseID string) bool {
	for _, ref := range u.Courses {
		if ref.CourseID == courseID {
			return true
		}
	}
	return false
}

// PendingUser is a registration that has not been activated yet. It lives only
// inside the activation token; nothing is persisted until activation succeeds.
type PendingUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the credential pair issued on login, social auth and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
