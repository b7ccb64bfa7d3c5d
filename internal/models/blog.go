package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentBlock is one structural block of the editor output (paragraph,
// header, image, ...). Data is kept schemaless on purpose.
type ContentBlock struct {
	Type string                 `json:"type" bson:"type"`
	Data map[string]interface{} `json:"data" bson:"data"`
}

// BlogContent wraps the ordered block list produced by the editor
type BlogContent struct {
	Blocks []ContentBlock `json:"blocks" bson:"blocks"`
}

// BlogActivity holds derived engagement counters stored on the blog document.
// They track the notification/comment collections but are maintained by
// separate writes, so they are only eventually consistent.
type BlogActivity struct {
	TotalLikes    int64 `json:"total_likes" bson:"total_likes"`
	TotalComments int64 `json:"total_comments" bson:"total_comments"`
	TotalReads    int64 `json:"total_reads" bson:"total_reads"`
}

// Blog represents a blog post stored in MongoDB
type Blog struct {
	ID          primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	BlogID      string               `json:"blog_id" bson:"blog_id"` // human-readable slug + random suffix, unique
	Title       string               `json:"title" bson:"title"`
	Banner      string               `json:"banner" bson:"banner"`
	Des         string               `json:"des" bson:"des"`
	Content     BlogContent          `json:"content" bson:"content"`
	Tags        []string             `json:"tags" bson:"tags"`
	Author      primitive.ObjectID   `json:"author" bson:"author"`
	Activity    BlogActivity         `json:"activity" bson:"activity"`
	Comments    []primitive.ObjectID `json:"comments,omitempty" bson:"comments"`
	Draft       bool                 `json:"draft" bson:"draft"`
	PublishedAt time.Time            `json:"publishedAt" bson:"publishedAt"`
}

// CreateBlogRequest defines the request body for creating or updating a blog.
// A present ID means full-field overwrite of the blog addressed by that slug.
type CreateBlogRequest struct {
	Title   string      `json:"title"`
	Content BlogContent `json:"content"`
	Banner  string      `json:"banner"`
	Des     string      `json:"des"`
	Tags    []string    `json:"tags"`
	Draft   bool        `json:"draft"`
	ID      string      `json:"id"`
}

// DeleteBlogRequest defines the request body for deleting a blog
type DeleteBlogRequest struct {
	ID string `json:"_id" validate:"required"`
}

// GetBlogRequest defines the request body for fetching one blog
type GetBlogRequest struct {
	BlogID string `json:"blog_id" validate:"required"`
	Draft  bool   `json:"draft"`
	Mode   string `json:"mode"`
}

// LatestBlogsRequest defines the request body for the paginated public feed
type LatestBlogsRequest struct {
	Page int64 `json:"page"`
}

// SearchBlogsRequest defines the request body for tag/title/author search
type SearchBlogsRequest struct {
	Tag    string `json:"tag"`
	Query  string `json:"query"`
	Author string `json:"author"`
	Page   int64  `json:"page"`
	Limit  int64  `json:"limit"`
}

// UserBlogsRequest defines the request body for the dashboard listing.
// DeletedDocCount shifts the pagination window by documents the client
// deleted since page one was fetched.
type UserBlogsRequest struct {
	Page            int64  `json:"page"`
	Draft           bool   `json:"draft"`
	Query           string `json:"query"`
	DeletedDocCount int64  `json:"deletedDocCount"`
}

// UserBlogsCountRequest defines the request body for the dashboard count
type UserBlogsCountRequest struct {
	Query string `json:"query"`
	Draft bool   `json:"draft"`
}

// BlogPreview is the public list shape of a blog with its author populated
type BlogPreview struct {
	BlogID      string       `json:"blog_id"`
	Title       string       `json:"title"`
	Banner      string       `json:"banner"`
	Des         string       `json:"des"`
	Tags        []string     `json:"tags"`
	Activity    BlogActivity `json:"activity"`
	Draft       bool         `json:"draft"`
	PublishedAt time.Time    `json:"publishedAt"`
	Author      UserCompact  `json:"author"`
}

// BlogDetail is the full read shape of a blog with its author populated
type BlogDetail struct {
	Blog
	AuthorInfo UserCompact `json:"author_info"`
}
