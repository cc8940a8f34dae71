package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Author is the comment/review author snapshot embedded at write time. It is a
// copy of the cached session identity, not a reference resolved on read.
type Author struct {
	ID     string `bson:"id"               json:"id"`
	Name   string `bson:"name"             json:"name"`
	Avatar Media  `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role   Role   `bson:"role"             json:"role"`
}

// Comment is a question on a course section, or a reply to one.
type Comment struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      Author        `bson:"user"          json:"user"`
	Comment   string        `bson:"comment"       json:"comment"`
	Replies   []Comment     `bson:"replies"       json:"replies"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
}

// Review carries a 1..5 rating; the course aggregate rating is the arithmetic
// mean over all reviews, recomputed in full on every insert.
type Review struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      Author        `bson:"user"          json:"user"`
	Rating    float64       `bson:"rating"        json:"rating"`
	Comment   string        `bson:"comment"       json:"comment"`
	Replies   []Comment     `bson:"replies"       json:"replies"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
}

type Link struct {
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url"   json:"url"`
}

type TitleItem struct {
	Title string `bson:"title" json:"title"`
}

// CourseContent is one video section of a course. VideoURL, Links, Suggestion
// and Questions are the heavy/sensitive fields projected out of the public
// catalog views.
type CourseContent struct {
	ID            bson.ObjectID `bson:"_id,omitempty"        json:"_id"`
	Title         string        `bson:"title"                json:"title"`
	Description   string        `bson:"description"          json:"description"`
	VideoURL      string        `bson:"video_url,omitempty"  json:"video_url,omitempty"`
	VideoSection  string        `bson:"video_section"        json:"video_section"`
	VideoDuration int           `bson:"video_duration"       json:"video_duration"`
	VideoPlayer   string        `bson:"video_player"         json:"video_player"`
	Links         []Link        `bson:"links,omitempty"      json:"links,omitempty"`
	Suggestion    string        `bson:"suggestion,omitempty" json:"suggestion,omitempty"`
	Questions     []Comment     `bson:"questions,omitempty"  json:"questions,omitempty"`
}

// Course is the catalog document.
type Course struct {
	ID             bson.ObjectID   `bson:"_id,omitempty"             json:"_id"`
	Name           string          `bson:"name"                      json:"name"`
	Description    string          `bson:"description"               json:"description"`
	Price          float64         `bson:"price"                     json:"price"`
	EstimatedPrice float64         `bson:"estimated_price,omitempty" json:"estimated_price,omitempty"`
	Thumbnail      Media           `bson:"thumbnail,omitempty"       json:"thumbnail,omitempty"`
	Tags           string          `bson:"tags"                      json:"tags"`
	Level          string          `bson:"level"                     json:"level"`
	DemoURL        string          `bson:"demo_url"                  json:"demo_url"`
	Benefits       []TitleItem     `bson:"benefits"                  json:"benefits"`
	Prerequisites  []TitleItem     `bson:"prerequisites"             json:"prerequisites"`
	Reviews        []Review        `bson:"reviews"                   json:"reviews"`
	Sections       []CourseContent `bson:"course_data"               json:"course_data"`
	Ratings        float64         `bson:"ratings"                   json:"ratings"`
	PurchaseCount  int64           `bson:"purchase_count"            json:"purchase_count"`
	CreatedAt      time.Time       `bson:"created_at"                json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"                json:"updated_at"`
}

// MeanRating returns the arithmetic mean over all review ratings, 0 when there
// are none.
func (c *Course) MeanRating() float64 {
	if len(c.Reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	return sum / float64(len(c.Reviews))
}
