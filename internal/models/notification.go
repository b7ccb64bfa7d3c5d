package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. A like notification doubles as the presence marker for
// the (blog, actor) like itself: at most one exists per pair at any time.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification represents a like/comment event addressed to a recipient,
// stored in MongoDB
type Notification struct {
	ID              primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Type            string              `json:"type" bson:"type"`
	Blog            primitive.ObjectID  `json:"blog" bson:"blog"`
	User            primitive.ObjectID  `json:"user" bson:"user"` // actor
	NotificationFor primitive.ObjectID  `json:"notification_for" bson:"notification_for"`
	Comment         *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Seen            bool                `json:"seen" bson:"seen"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

// LikeBlogRequest defines the request body for toggling a like
type LikeBlogRequest struct {
	BlogID        string `json:"_id" validate:"required"`
	IsLikedByUser bool   `json:"isLikedByUser"`
}

// IsLikedRequest defines the request body for the like existence check
type IsLikedRequest struct {
	BlogID string `json:"_id" validate:"required"`
}

// NotificationsRequest defines the request body for the notification feed
type NotificationsRequest struct {
	Page   int64  `json:"page"`
	Filter string `json:"filter"`
}

// NotificationCountRequest defines the request body for the feed count
type NotificationCountRequest struct {
	Page   int64  `json:"page"`
	Filter string `json:"filter"`
}

// NotificationBlogRef is the referenced blog's public shape in the feed
type NotificationBlogRef struct {
	Title  string `json:"title"`
	BlogID string `json:"blog_id"`
}

// NotificationCommentRef is the referenced comment's shape in the feed
type NotificationCommentRef struct {
	Content string `json:"content"`
}

// NotificationView is a notification enriched with its blog, actor and
// optional comment for the feed response
type NotificationView struct {
	ID        primitive.ObjectID      `json:"_id"`
	Type      string                  `json:"type"`
	Blog      NotificationBlogRef     `json:"blog"`
	User      UserCompact             `json:"user"`
	Comment   *NotificationCommentRef `json:"comment,omitempty"`
	Seen      bool                    `json:"seen"`
	CreatedAt time.Time               `json:"createdAt"`
}
