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

// ErrCommentNotFound is returned when no comment matches the lookup
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	DeleteCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment inserts a new comment document
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CommentedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by object id
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByBlogID lists a blog's comments, newest first
func (r *MongoCommentRepository) GetCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "commentedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"blog": blogID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment by id and returns the deleted document so
// the caller can fix up the parent blog's counter
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// DeleteCommentsByBlogID removes every comment referencing a blog
func (r *MongoCommentRepository) DeleteCommentsByBlogID(ctx context.Context, blogID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"blog": blogID})
	return err
}
