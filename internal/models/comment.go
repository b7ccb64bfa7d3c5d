package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a blog comment stored in MongoDB
type Comment struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Blog        primitive.ObjectID `json:"blog" bson:"blog"`
	Author      primitive.ObjectID `json:"author" bson:"author"`
	Content     string             `json:"content" bson:"content"`
	CommentedAt time.Time          `json:"commentedAt" bson:"commentedAt"`
}

// AddCommentRequest defines the request body for commenting on a blog
type AddCommentRequest struct {
	BlogID     string `json:"_id" validate:"required"`
	Comment    string `json:"comment"`
	BlogAuthor string `json:"blog_author" validate:"required"`
}

// GetCommentsRequest defines the request body for listing a blog's comments
type GetCommentsRequest struct {
	BlogID string `json:"_id" validate:"required"`
	Skip   int64  `json:"skip"`
}

// DeleteCommentRequest defines the request body for deleting a comment
type DeleteCommentRequest struct {
	CommentID string `json:"commentId" validate:"required"`
}

// CreatedComment is the payload returned after a successful add-comment
type CreatedComment struct {
	Content     string             `json:"content"`
	CommentedAt time.Time          `json:"commentedAt"`
	ID          primitive.ObjectID `json:"_id"`
}

// CommentView is a comment with its author populated for list responses
type CommentView struct {
	ID          primitive.ObjectID `json:"_id"`
	Content     string             `json:"content"`
	CommentedAt time.Time          `json:"commentedAt"`
	Author      UserCompact        `json:"author"`
}
