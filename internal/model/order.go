package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Order records a purchase. PaymentInfo is carried opaquely; this service never
// interprets it.
type Order struct {
	ID          bson.ObjectID  `bson:"_id,omitempty"          json:"_id"`
	CourseID    string         `bson:"course_id"              json:"course_id"`
	UserID      string         `bson:"user_id"                json:"user_id"`
	PaymentInfo map[string]any `bson:"payment_info,omitempty" json:"payment_info,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"             json:"created_at"`
}

const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is an admin-facing event record (new order, new question, new
// review).
type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string        `bson:"user_id"       json:"user_id"`
	Title     string        `bson:"title"         json:"title"`
	Message   string        `bson:"message"       json:"message"`
	Status    string        `bson:"status"        json:"status"`
	CreatedAt time.Time     `bson:"created_at"    json:"created_at"`
}
