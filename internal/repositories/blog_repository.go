package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/blogspace/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBlogNotFound is returned when no blog matches the lookup
var ErrBlogNotFound = errors.New("blog not found")

// BlogFilter narrows blog queries. Zero-valued fields are ignored; Author is
// ignored when nil, Draft when nil matches both states.
type BlogFilter struct {
	Tag    string
	Query  string // title substring, case-insensitive
	Author *primitive.ObjectID
	Draft  *bool
}

func (f BlogFilter) build() bson.M {
	filter := bson.M{}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Query != "" {
		filter["title"] = bson.M{"$regex": f.Query, "$options": "i"}
	}
	if f.Author != nil {
		filter["author"] = *f.Author
	}
	if f.Draft != nil {
		filter["draft"] = *f.Draft
	}
	return filter
}

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	UpdateBlogBySlug(ctx context.Context, slug string, blog *models.Blog) (*models.Blog, error)
	GetBlogAndIncrementReads(ctx context.Context, slug string, inc int64) (*models.Blog, error)
	GetBlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	FindBlogs(ctx context.Context, filter BlogFilter, skip, limit int64) ([]models.Blog, error)
	FindTrendingBlogs(ctx context.Context, limit int64) ([]models.Blog, error)
	CountBlogs(ctx context.Context, filter BlogFilter) (int64, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID, inc int64) (*models.Blog, error)
	AttachComment(ctx context.Context, id, commentID primitive.ObjectID) error
	DecrementCommentCount(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// EnsureIndexes creates the unique slug index
func (r *MongoBlogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "blog_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateBlog inserts a new blog document
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.PublishedAt = time.Now()
	if blog.Comments == nil {
		blog.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

// UpdateBlogBySlug overwrites the content fields of the blog addressed by
// slug and returns the updated document
func (r *MongoBlogRepository) UpdateBlogBySlug(ctx context.Context, slug string, blog *models.Blog) (*models.Blog, error) {
	update := bson.M{"$set": bson.M{
		"title":   blog.Title,
		"content": blog.Content,
		"banner":  blog.Banner,
		"tags":    blog.Tags,
		"des":     blog.Des,
		"draft":   blog.Draft,
	}}
	var updated models.Blog
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"blog_id": slug},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// GetBlogAndIncrementReads fetches a blog by slug while bumping its read
// counter by inc. The pre-increment document is returned, matching the
// read-then-render flow of the web client.
func (r *MongoBlogRepository) GetBlogAndIncrementReads(ctx context.Context, slug string, inc int64) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"blog_id": slug},
		bson.M{"$inc": bson.M{"activity.total_reads": inc}},
	).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBlogByID retrieves a blog by object id
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// DeleteBlog removes a blog by object id and returns the deleted document
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// FindBlogs lists blogs matching filter, newest first, with offset pagination
func (r *MongoBlogRepository) FindBlogs(ctx context.Context, filter BlogFilter, skip, limit int64) ([]models.Blog, error) {
	if skip < 0 {
		skip = 0
	}
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "publishedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter.build(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// FindTrendingBlogs lists published blogs by reads, then likes, then recency
func (r *MongoBlogRepository) FindTrendingBlogs(ctx context.Context, limit int64) ([]models.Blog, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{
			{Key: "activity.total_reads", Value: -1},
			{Key: "activity.total_likes", Value: -1},
			{Key: "publishedAt", Value: -1},
		})
	cursor, err := r.collection.Find(ctx, bson.M{"draft": false}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// CountBlogs counts blogs matching filter
func (r *MongoBlogRepository) CountBlogs(ctx context.Context, filter BlogFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, filter.build())
}

// IncrementLikes bumps the like counter by inc and returns the blog as it
// was before the update
func (r *MongoBlogRepository) IncrementLikes(ctx context.Context, id primitive.ObjectID, inc int64) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"activity.total_likes": inc}},
	).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// AttachComment pushes a comment reference and bumps the comment counter
func (r *MongoBlogRepository) AttachComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"comments": commentID},
		"$inc":  bson.M{"activity.total_comments": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// DecrementCommentCount lowers the comment counter by one
func (r *MongoBlogRepository) DecrementCommentCount(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"activity.total_comments": -1}},
	).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}
